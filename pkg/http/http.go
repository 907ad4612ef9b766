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


package http

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	AccessLog       bool   `mapstructure:"accessLog"`
	BodyLimit       int    `mapstructure:"bodyLimit"` // MB
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	TLS             TLS    `mapstructure:"tls"`
}

type TLS struct {
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// SetDefaults 设置默认值
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8000
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 256
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 60
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 60
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 120
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10
	}
}

// Addr returns host:port
func (h *Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// FiberConfig builds the fiber app settings. Encoding goes through sonic.
func (h *Http) FiberConfig(appName string, errorHandler fiber.ErrorHandler) fiber.Config {
	return fiber.Config{
		AppName:               appName,
		BodyLimit:             h.BodyLimit * 1024 * 1024,
		ReadTimeout:           time.Duration(h.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(h.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(h.IdleTimeout) * time.Second,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	}
}

// Listen serves app until it is shut down.
func Listen(app *fiber.App, cfg Http) error {
	if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
		return app.ListenTLS(cfg.Addr(), cfg.TLS.CertFile, cfg.TLS.KeyFile)
	}
	return app.Listen(cfg.Addr())
}
