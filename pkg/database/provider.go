// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"github.com/google/wire"
)

// ProviderSet provides database-related dependencies
var ProviderSet = wire.NewSet(
	ProvideManager,
	ProvideIDatabase,
)

// ProvideManager creates and returns a database Manager instance,
// running AutoMigrate when migrations are enabled.
func ProvideManager(conf Database) (Manager, func(), error) {
	manager, err := NewManager(conf)
	if err != nil {
		return nil, nil, err
	}
	if conf.Migrate {
		if err := AutoMigrate(manager.DB()); err != nil {
			_ = manager.Close()
			return nil, nil, err
		}
	}
	cleanup := func() {
		_ = manager.Close()
	}
	return manager, cleanup, nil
}

// ProvideIDatabase provides IDatabase interface instance
func ProvideIDatabase(manager Manager) IDatabase {
	return NewGormDB(manager.DB())
}
