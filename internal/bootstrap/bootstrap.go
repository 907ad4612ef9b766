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

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/registry/internal/registry/config"
	"github.com/go-arcade/registry/internal/registry/router"
	"github.com/go-arcade/registry/internal/registry/service"
	"github.com/go-arcade/registry/pkg/cron"
	httpx "github.com/go-arcade/registry/pkg/http"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/go-arcade/registry/pkg/trace"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	HttpApp       *fiber.App
	Service       *service.RegistryService
	MetricsServer *metrics.Server
	Scheduler     *cron.Cron
	Logger        *zap.Logger
	AppConf       *config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	svc *service.RegistryService,
	metricsServer *metrics.Server,
	scheduler *cron.Cron,
	logger *zap.Logger,
	appConf *config.AppConfig,
) (*App, func(), error) {
	app := &App{
		HttpApp:       rt.Router(),
		Service:       svc,
		MetricsServer: metricsServer,
		Scheduler:     scheduler,
		Logger:        logger,
		AppConf:       appConf,
	}
	cleanup := func() {
		_ = logger.Sync()
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, migrate bool, initApp InitAppFunc) (*App, func(), error) {
	appConf := config.NewConf(configFile)
	if migrate {
		appConf.Database.Migrate = true
	}

	if err := log.Init(&appConf.Log); err != nil {
		return nil, nil, err
	}
	if err := trace.Init(appConf.Trace); err != nil {
		return nil, nil, err
	}

	app, cleanup, err := initApp(configFile)
	if err != nil {
		_ = trace.Shutdown(context.Background())
		return nil, nil, err
	}

	// 分页限制支持热更新
	config.OnChange(func(next config.AppConfig) {
		app.Service.UpdateLimits(next.Registry)
		log.Infow("registry limits reloaded",
			"defaultPageSize", next.Registry.DefaultPageSize,
			"maxPageSize", next.Registry.MaxPageSize,
		)
	})

	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Sugar()
	httpConf := app.AppConf.Http

	if err := app.MetricsServer.Start(); err != nil {
		logger.Errorw("metrics server failed to start", "error", err)
	}
	app.Scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infow("HTTP listener started", "address", httpConf.Addr())
		if err := httpx.Listen(app.HttpApp, httpConf); err != nil {
			logger.Errorw("HTTP listener failed", "address", httpConf.Addr(), "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(httpConf.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}
	if err := app.Scheduler.Stop(shutdownCtx); err != nil {
		logger.Errorw("scheduler stop error", "error", err)
	}
	if err := app.MetricsServer.Stop(shutdownCtx); err != nil {
		logger.Errorw("metrics server shutdown error", "error", err)
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("trace shutdown error", "error", err)
	}

	cleanup()
	logger.Info("Server shutdown complete")
}
