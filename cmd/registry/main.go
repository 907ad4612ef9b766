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

package main

import (
	"flag"

	"github.com/go-arcade/registry/internal/bootstrap"
)

var (
	configFile string
	migrate    bool
)

func init() {
	flag.StringVar(&configFile, "conf", "", "conf file path, e.g. -conf ./conf.d/config.toml; empty uses defaults and env")
	flag.BoolVar(&migrate, "migrate", false, "create or update the database schema on startup")
}

func main() {
	flag.Parse()

	// Bootstrap 初始化应用
	app, cleanup, err := bootstrap.Bootstrap(configFile, migrate, initApp)
	if err != nil {
		panic(err)
	}

	// 启动应用并等待退出信号
	bootstrap.Run(app, cleanup)
}
