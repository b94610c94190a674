// Package config loads application configuration from a TOML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath    = "config.toml"
	DefaultEnvPath       = ".env"
	DefaultHTTPAddr      = ":8080"
	DefaultTable         = "masseur_profiles"
	DefaultPGHost        = "127.0.0.1"
	DefaultPGPort        = 5432
	DefaultPGUser        = "postgres"
	DefaultPGDatabase    = "postgres"
	DefaultPGSSLMode     = "disable"
	DefaultMongoURI      = "mongodb://127.0.0.1:27017"
	DefaultMongoDatabase = "masseurtouch"
)

// Backends for the identity service and the profile store.
const (
	BackendRemote   = "remote"
	BackendLocal    = "local"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
)

var (
	ErrMissingServiceURL = errors.New("service url is not set (SUPABASE_URL)")
	ErrMissingAPIKey     = errors.New("public api key is not set (SUPABASE_ANON_KEY)")
	ErrMissingServiceKey = errors.New("compensation delete_account needs identity.service_key (SUPABASE_SERVICE_ROLE_KEY)")
	ErrServeLocal        = errors.New("server.serve_local needs identity.backend = local and a postgres or memory store")
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Identity IdentityConfig `toml:"identity"`
	Store    StoreConfig    `toml:"store"`
	Postgres PostgresConfig `toml:"postgres"`
	Mongo    MongoConfig    `toml:"mongo"`
	Signup   SignupConfig   `toml:"signup"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// ServeLocal mounts the local identity and records endpoints next to the form.
	ServeLocal bool `toml:"serve_local"`
}

// IdentityConfig selects the account backend. URL and AnonKey are the hosted service's
// public coordinates; ServiceKey is only needed for admin deletes.
type IdentityConfig struct {
	Backend    string `toml:"backend"`
	URL        string `toml:"url"`
	AnonKey    string `toml:"anon_key"`
	ServiceKey string `toml:"service_key"`
	SigningKey string `toml:"signing_key"`
	// Accounts is where the local backend keeps accounts: memory or mongo.
	Accounts string `toml:"accounts"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
	Table   string `toml:"table"`
}

// PostgresConfig holds PostgreSQL connection parameters. DSN wins over the discrete fields.
type PostgresConfig struct {
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type SignupConfig struct {
	// Compensation is "none" or "delete_account".
	Compensation string `toml:"compensation"`
}

// ConnString returns the pgx connection string.
func (c PostgresConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func defaults() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Addr: DefaultHTTPAddr},
		Identity: IdentityConfig{
			Backend:  BackendRemote,
			Accounts: BackendMemory,
		},
		Store: StoreConfig{Backend: BackendRemote, Table: DefaultTable},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Mongo:  MongoConfig{URI: DefaultMongoURI, Database: DefaultMongoDatabase},
		Signup: SignupConfig{Compensation: "none"},
	}
}

// Load reads the TOML file at path (missing file is fine), loads .env into the process
// environment without overriding existing variables, then applies environment overrides.
// Values are read once; there is no reloading.
func Load(path string) (Config, error) {
	cfg := defaults()

	if err := godotenv.Load(DefaultEnvPath); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load %s: %w", DefaultEnvPath, err)
	}

	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&cfg.Identity.URL, "SUPABASE_URL")
	set(&cfg.Identity.AnonKey, "SUPABASE_ANON_KEY")
	set(&cfg.Identity.ServiceKey, "SUPABASE_SERVICE_ROLE_KEY")
	set(&cfg.Identity.SigningKey, "AUTH_SIGNING_KEY")
	set(&cfg.Postgres.DSN, "DATABASE_URL")
	set(&cfg.Mongo.URI, "MONGO_URI")
	set(&cfg.Server.Addr, "HTTP_ADDR")
	set(&cfg.Log.Level, "LOG_LEVEL")
}

// Validate rejects combinations that cannot be wired.
func (c Config) Validate() error {
	remote := c.Identity.Backend == BackendRemote || c.Store.Backend == BackendRemote
	if remote && c.Identity.URL == "" {
		return ErrMissingServiceURL
	}
	if remote && c.Identity.AnonKey == "" {
		return ErrMissingAPIKey
	}

	switch c.Identity.Backend {
	case BackendRemote, BackendLocal:
	default:
		return fmt.Errorf("unknown identity backend %q", c.Identity.Backend)
	}
	switch c.Identity.Accounts {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("unknown account repository %q", c.Identity.Accounts)
	}
	switch c.Store.Backend {
	case BackendRemote, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Server.ServeLocal && (c.Identity.Backend != BackendLocal || c.Store.Backend == BackendRemote) {
		return ErrServeLocal
	}

	switch c.Signup.Compensation {
	case "none":
	case "delete_account":
		if c.Identity.Backend == BackendRemote && c.Identity.ServiceKey == "" {
			return ErrMissingServiceKey
		}
	default:
		return fmt.Errorf("unknown compensation policy %q", c.Signup.Compensation)
	}
	return nil
}
