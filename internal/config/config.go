package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration of all contact store commands.
type Config struct {
	Port        int
	Database    DatabaseConfig
	Log         LogConfig
	Permissions PermissionsConfig
	Gin         GinConfig
}

// DatabaseConfig selects and locates the database of the contact store.
// If DSN is set it is used as is; otherwise it is built from the other fields.
type DatabaseConfig struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	Path     string
	DSN      string
}

// LogConfig holds zap settings. Format is "json" or "console".
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// PermissionsConfig holds the read/write contacts grant of the service. The
// screen asks interactively unless Granted is set.
type PermissionsConfig struct {
	Granted bool
}

// GinConfig holds HTTP router settings. Request logging is off when Logging
// is "off".
type GinConfig struct {
	Mode    string
	Logging string
}

// Load reads configuration from file and env. Env var overrides use the
// prefix CONTACTS_. The variables PORT, DBHOST, DBUSER, DBPWD, DBNAME,
// GIN_MODE and GIN_LOGGING are understood as well.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("port", 8080)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost:3306")
	v.SetDefault("database.name", "test")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.path", "contacts.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("permissions.granted", true)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("gin.logging", "on")

	v.SetConfigType("yaml")
	cfgPath := os.Getenv("CONTACTS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("contacts")
	}

	v.SetEnvPrefix("CONTACTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	legacy := map[string]string{
		"port":              "PORT",
		"database.host":     "DBHOST",
		"database.user":     "DBUSER",
		"database.password": "DBPWD",
		"database.name":     "DBNAME",
		"gin.mode":          "GIN_MODE",
		"gin.logging":       "GIN_LOGGING",
	}
	for key, env := range legacy {
		prefixed := "CONTACTS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DataSourceName returns the connection string for the configured driver.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch strings.ToLower(d.Driver) {
	case "postgres", "postgresql", "pgx":
		return fmt.Sprintf("postgres://%s:%s@%s/%s", d.User, d.Password, d.Host, d.Name)
	case "sqlite", "sqlite3":
		return d.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", d.User, d.Password, d.Host, d.Name)
	}
}
