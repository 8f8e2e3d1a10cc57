package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrConfiguration is returned when the process cannot be configured to serve requests.
var ErrConfiguration = errors.New("invalid configuration")

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	Storage    StorageConfig    `yaml:"storage"`    // Storage selects the record store backend.
	Mongo      MongoConfig      `yaml:"mongo"`      // Mongo holds the document store configuration.
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres holds the relational store configuration.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the API server configuration.
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the metrics and health server configuration.
}

// StorageConfig selects which record store backs the employee collection.
type StorageConfig struct {
	Driver string `yaml:"driver"` // Driver is one of mongo, postgres, memory.
}

// MongoConfig struct holds the configuration details for connecting to a MongoDB deployment.
type MongoConfig struct {
	URI         string        `yaml:"uri"`           // URI is the connection string.
	Database    string        `yaml:"database"`      // Database is the logical database name.
	Collection  string        `yaml:"collection"`    // Collection holds the employee documents.
	MaxPoolSize uint64        `yaml:"max_pool_size"` // MaxPoolSize bounds the connection pool.
	Timeout     time.Duration `yaml:"timeout"`       // Timeout bounds server selection and connection establishment.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string        `yaml:"host"`      // Host is the database server address.
	Port     string        `yaml:"port"`      // Port is the database server port.
	User     string        `yaml:"user"`      // User is the database user.
	Password string        `yaml:"password"`  // Password is the database user's password.
	Dbname   string        `yaml:"db_name"`   // Dbname is the name of the database.
	MaxConns int32         `yaml:"max_conns"` // MaxConns bounds the connection pool.
	Timeout  time.Duration `yaml:"timeout"`   // Timeout bounds connection establishment.
}

type HTTPConfig struct {
	Port         int    `yaml:"port"`
	AllowOrigins string `yaml:"allow_origins"`
}

type MonitoringConfig struct {
	Port int `yaml:"port"`
}

// envBindings maps configuration keys onto the environment variables that override them.
var envBindings = map[string]string{
	"env":                 "HESTIA_ENV",
	"storage.driver":      "HESTIA_STORAGE",
	"mongo.uri":           "DBCONNECTION",
	"mongo.database":      "MONGO_DATABASE",
	"mongo.collection":    "MONGO_COLLECTION",
	"mongo.max_pool_size": "MONGO_MAX_POOL_SIZE",
	"mongo.timeout":       "MONGO_TIMEOUT",
	"postgres.host":       "DB_HOST",
	"postgres.port":       "DB_PORT",
	"postgres.user":       "DB_USERNAME",
	"postgres.password":   "DB_PASSWORD",
	"postgres.db_name":    "DB_NAME",
	"postgres.max_conns":  "DB_MAX_CONNS",
	"postgres.timeout":    "DB_TIMEOUT",
	"http.port":           "HESTIA_PORT",
	"http.allow_origins":  "ALLOW_ORIGINS",
	"monitoring.port":     "HESTIA_MONITORING_PORT",
}

func setDefaults(v *viper.Viper) {
	defTimeout := 5 * time.Second

	v.SetDefault("env", "local")
	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("mongo.database", "EmployeeList")
	v.SetDefault("mongo.collection", "employees")
	v.SetDefault("mongo.max_pool_size", 10)
	v.SetDefault("mongo.timeout", defTimeout)
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.timeout", defTimeout)
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.allow_origins", "*")
	v.SetDefault("monitoring.port", 8080)
}

// Load reads the configuration from the optional YAML file at CONFIG_PATH,
// a .env file in the working directory and the environment, in increasing
// order of precedence.
func Load() (*Config, error) {
	// .env is optional, variables already set in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %w", ErrConfiguration, env, err)
		}
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file does not exist: %s", ErrConfiguration, configPath)
		}

		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Storage: StorageConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		},
		Mongo: MongoConfig{
			URI:         v.GetString("mongo.uri"),
			Database:    v.GetString("mongo.database"),
			Collection:  v.GetString("mongo.collection"),
			MaxPoolSize: v.GetUint64("mongo.max_pool_size"),
			Timeout:     v.GetDuration("mongo.timeout"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Dbname:   v.GetString("postgres.db_name"),
			MaxConns: v.GetInt32("postgres.max_conns"),
			Timeout:  v.GetDuration("postgres.timeout"),
		},
		HTTP: HTTPConfig{
			Port:         v.GetInt("http.port"),
			AllowOrigins: v.GetString("http.allow_origins"),
		},
		Monitoring: MonitoringConfig{
			Port: v.GetInt("monitoring.port"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: please define DBCONNECTION", ErrConfiguration)
		}
		if c.Mongo.Timeout <= 0 {
			return fmt.Errorf("%w: mongo timeout must be positive", ErrConfiguration)
		}
	case DriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.Dbname == "" {
			return fmt.Errorf("%w: postgres host and db_name are required", ErrConfiguration)
		}
		if c.Postgres.Timeout <= 0 {
			return fmt.Errorf("%w: postgres timeout must be positive", ErrConfiguration)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrConfiguration, c.Storage.Driver)
	}

	if c.HTTP.Port <= 0 || c.Monitoring.Port <= 0 {
		return fmt.Errorf("%w: ports must be positive", ErrConfiguration)
	}

	return nil
}

// MustLoad loads the configuration and panics if the process cannot be configured.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}
