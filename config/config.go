/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the application configuration from a YAML file, a
// .env file and STUDY_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tomoncle/study/database"
	"github.com/tomoncle/study/utils"
)

const (
	envPrefix         = "STUDY"
	defaultConfigName = "application"
	envFileName       = ".env"
)

// Config is the application configuration.
type Config struct {
	Database database.Config `mapstructure:"database"`
	Logging  LoggingConfig   `mapstructure:"logging"`
}

// LoggingConfig selects the level and output format of every named logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

var _ database.AbstractDatabaseConfigProvider = (*Config)(nil)

// ConfigLoader returns the database section.
func (c *Config) ConfigLoader() *database.Config {
	cfg := c.Database
	return &cfg
}

// ApplyLogging configures the logger registry from the logging section.
func (c *Config) ApplyLogging() {
	if c.Logging.Format != "" {
		utils.ConfigureLogFormat(c.Logging.Format)
	}
	if c.Logging.Level != "" {
		utils.ConfigureLogLevel(c.Logging.Level)
	}
}

// Validate checks the configuration constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads the configuration. With an empty path, application.yaml is
// looked up in ./configs and the working directory and may be absent. Values
// from a .env file next to the configuration (not overriding the real
// environment) and STUDY_ variables such as STUDY_DATABASE_CONNECTION_HOST
// take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	dir := "."
	if path != "" {
		v.SetConfigFile(path)
		dir = filepath.Dir(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}
	loadEnvFile(filepath.Join(dir, envFileName))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile(path string) {
	envMap, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for k, val := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, val)
		}
	}
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	def := database.DefaultConnectionConfig()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("database.connection.type", "sqlite")
	v.SetDefault("database.connection.host", "localhost")
	v.SetDefault("database.connection.port", 0)
	v.SetDefault("database.connection.username", "")
	v.SetDefault("database.connection.password", "")
	v.SetDefault("database.connection.dbname", "study")
	v.SetDefault("database.connection.sslmode", "disable")
	v.SetDefault("database.connection.max_idle_conns", def.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", def.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", def.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", def.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", def.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", def.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", def.WriteTimeout)
	v.SetDefault("database.connection.enable_reconnect", def.EnableReconnect)
	v.SetDefault("database.connection.reconnect_interval", def.ReconnectInterval)
	v.SetDefault("database.connection.max_reconnect_tries", def.MaxReconnectTries)
	v.SetDefault("database.connection.health_check_interval", time.Duration(0))
	v.SetDefault("database.connection.enable_query_log", false)
	v.SetDefault("database.connection.slow_query_time", def.SlowQueryTime)
	v.SetDefault("database.connection.charset", def.Charset)

	v.SetDefault("database.migrate.enable_migrate_on_startup", true)
	v.SetDefault("database.migrate.enable_foreign_key", true)
	v.SetDefault("database.migrate.foreign_key_file", "")

	v.SetDefault("database.init.auto_init_on_startup", false)
	v.SetDefault("database.init.auto_init_on_migration", true)
	v.SetDefault("database.init.filepath", "configs/sql")
	v.SetDefault("database.init.environment", "development")
	v.SetDefault("database.init.enable_template", false)
}
