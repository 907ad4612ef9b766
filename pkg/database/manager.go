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
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/trace/inject"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// IDatabase define database interface (abstract)
type IDatabase interface {
	// Database return the underlying *gorm.DB
	Database() *gorm.DB
}

// GormDB GORM database implementation
type GormDB struct {
	db *gorm.DB
}

// NewGormDB create GORM database instance
func NewGormDB(db *gorm.DB) IDatabase {
	return &GormDB{db: db}
}

// Database return the underlying *gorm.DB
func (g *GormDB) Database() *gorm.DB {
	return g.db
}

// Transaction runs fn in a single transaction. The transaction is rolled
// back when fn returns an error or panics and committed otherwise.
func Transaction(ctx context.Context, db IDatabase, fn func(tx IDatabase) error) error {
	return db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormDB(tx))
	})
}

// ReadTransaction is Transaction for use cases that only read.
func ReadTransaction(ctx context.Context, db IDatabase, fn func(tx IDatabase) error) error {
	return db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormDB(tx))
	}, &sql.TxOptions{ReadOnly: true})
}

// Manager owns the primary connection pool.
type Manager interface {
	// DB returns the primary database connection
	DB() *gorm.DB

	// Driver returns the configured driver name
	Driver() string

	// Close closes all database connections
	Close() error
}

type managerImpl struct {
	db     *gorm.DB
	driver string
}

func (m *managerImpl) DB() *gorm.DB {
	return m.db
}

func (m *managerImpl) Driver() string {
	return m.driver
}

func (m *managerImpl) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", m.driver, err)
	}
	return nil
}

// NewManager connects to the configured driver.
func NewManager(cfg Database) (Manager, error) {
	cfg.SetDefaults()

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverMySQL:
		db, err = newMySQLConnection(cfg)
	case DriverSQLite:
		db, err = newSQLiteConnection(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := inject.RegisterGormPlugin(db, cfg.Driver, cfg.OutPut); err != nil {
		log.Warnw("failed to register OpenTelemetry gorm plugin", "driver", cfg.Driver, "error", err)
	}
	log.Infow("database connected", "driver", cfg.Driver)

	return &managerImpl{db: db, driver: cfg.Driver}, nil
}

func gormConfig(cfg Database) *gorm.Config {
	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Info,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if cfg.OutPut {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   cfg.TablePrefix,
			SingularTable: true,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func newMySQLConnection(cfg Database) (*gorm.DB, error) {
	mysqlCfg := cfg.MySQL
	dsn := buildMySQLDSN(mysqlCfg.User, mysqlCfg.Password, mysqlCfg.Host, mysqlCfg.Port, mysqlCfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if len(mysqlCfg.Replicas) > 0 {
		replicas, err := buildDialectors(mysqlCfg.Replicas)
		if err != nil {
			return nil, fmt.Errorf("failed to build replicas dialectors: %w", err)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			TraceResolverMode: cfg.OutPut,
		}).
			SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime)).
			SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime)).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetMaxOpenConns(cfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("failed to register DBResolver plugin: %w", err)
		}
		log.Infow("MySQL read replicas configured", "replicas", len(replicas))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime))
	sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime))

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	return db, nil
}

func newSQLiteConnection(cfg Database) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(gormlite.Open(buildSQLiteDSN(cfg.SQLite.Path)), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database %s: %w", cfg.SQLite.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}
	return db, nil
}
