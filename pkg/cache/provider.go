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


package cache

import (
	"github.com/google/wire"
)

// ProviderSet 提供缓存依赖（本地 FastCache 或 Redis）
var ProviderSet = wire.NewSet(ProvideCache)

// ProvideCache 根据配置提供 ICache 实例
func ProvideCache(conf Config) (ICache, func(), error) {
	return NewCache(conf)
}
