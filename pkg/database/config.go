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
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DatabaseSourceConfig represents a single database source/replica configuration
type DatabaseSourceConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// MySQLConfig represents MySQL data source configuration
type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	// Replicas enables read-write separation through DBResolver.
	Replicas []DatabaseSourceConfig `mapstructure:"replicas"`
}

// SQLiteConfig represents the embedded SQLite data source.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Database represents the database configuration with common settings and data sources
type Database struct {
	Driver       string `mapstructure:"driver"`
	OutPut       bool   `mapstructure:"output"`
	Migrate      bool   `mapstructure:"migrate"`
	TablePrefix  string `mapstructure:"tablePrefix"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxLifetime  int    `mapstructure:"maxLifeTime"`
	MaxIdleTime  int    `mapstructure:"maxIdleTime"`

	MySQL  MySQLConfig  `mapstructure:"mysql"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// SetDefaults fills unset fields.
func (d *Database) SetDefaults() {
	if d.Driver == "" {
		d.Driver = DriverSQLite
	}
	if d.SQLite.Path == "" {
		d.SQLite.Path = "./database/app.db"
	}
	if d.MySQL.Port == "" {
		d.MySQL.Port = "3306"
	}
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = 20
	}
	if d.MaxIdleConns <= 0 {
		d.MaxIdleConns = 5
	}
}

// GetConnMaxLifetime returns ConnMaxLifetime as time.Duration from common config
func GetConnMaxLifetime(maxLifetime int) time.Duration {
	if maxLifetime > 0 {
		return time.Duration(maxLifetime) * time.Second
	}
	return 300 * time.Second
}

// GetConnMaxIdleTime returns ConnMaxIdleTime as time.Duration from common config
func GetConnMaxIdleTime(maxIdleTime int) time.Duration {
	if maxIdleTime > 0 {
		return time.Duration(maxIdleTime) * time.Second
	}
	return 60 * time.Second
}

func buildMySQLDSN(user, password, host, port, db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, password, host, port, db)
}

// buildSQLiteDSN enables foreign keys, WAL and immediate write locks so
// concurrent request transactions queue on busy_timeout instead of failing.
func buildSQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_txlock=immediate", path)
}

func buildDialectors(configs []DatabaseSourceConfig) ([]gorm.Dialector, error) {
	if len(configs) == 0 {
		return nil, nil
	}
	dialectors := make([]gorm.Dialector, 0, len(configs))
	for _, c := range configs {
		if c.Host == "" || c.User == "" || c.DBName == "" {
			return nil, fmt.Errorf("incomplete database source config: host, user, and dbname are required")
		}
		port := c.Port
		if port == "" {
			port = "3306"
		}
		dialectors = append(dialectors, mysql.Open(buildMySQLDSN(c.User, c.Password, c.Host, port, c.DBName)))
	}
	return dialectors, nil
}
