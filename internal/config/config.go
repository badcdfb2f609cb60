// Package config loads the server configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/celestiaorg/taskman/internal/constants"
	"github.com/celestiaorg/taskman/internal/db"
	"github.com/celestiaorg/taskman/internal/db/todo"
)

// Defaults
const (
	DefaultListenAddr = ":8080"
	DefaultExportDir  = "data/exports"
	DefaultUIDir      = "ui"
	// ConfigName is the base name of the optional config file
	ConfigName = "taskman"
)

// Config is the server configuration
type Config struct {
	ListenAddr string    `mapstructure:"listen_addr"`
	DB         DBConfig  `mapstructure:"db"`
	TodoDBPath string    `mapstructure:"todo_db_path"`
	ExportDir  string    `mapstructure:"export_dir"`
	UIDir      string    `mapstructure:"ui_dir"`
	Log        LogConfig `mapstructure:"log"`
}

// DBConfig selects the project database
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DBOptions converts the database section into connection options
func (c Config) DBOptions() db.Options {
	return db.Options{
		Driver: c.DB.Driver,
		Path:   c.DB.Path,
		DSN:    c.DB.DSN,
	}
}

// Load reads the configuration. Values come from, in increasing precedence:
// defaults, the config file, and TASKMAN_* environment variables. A .env file
// in the working directory is loaded into the environment first.
//
// With an empty path the file is looked up as taskman.{yaml,toml,json} in the
// working directory and $HOME/.config/taskman, and may be absent. An explicit
// path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the logger's own variables work without the prefix too
	if err := v.BindEnv("log.level", constants.EnvPrefix+"_LOG_LEVEL", constants.EnvLogLevel); err != nil {
		return nil, err
	}
	if err := v.BindEnv("log.format", constants.EnvPrefix+"_LOG_FORMAT", constants.EnvLogFormat); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("db.driver", db.DriverSQLite)
	v.SetDefault("db.path", db.DefaultPath)
	v.SetDefault("db.dsn", "")
	v.SetDefault("todo_db_path", todo.DefaultPath)
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("ui_dir", DefaultUIDir)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
