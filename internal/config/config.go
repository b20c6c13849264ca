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

// EnvPrefix prefixes every environment override, e.g. STOREFRONT_HTTP_PORT.
const EnvPrefix = "STOREFRONT"

// Config holds application configuration.
type Config struct {
	HTTP        HTTPConfig
	Diagnostics DiagnosticsConfig
	Storage     StorageConfig
	Catalog     CatalogConfig
	Tracing     TracingConfig
	Admin       AdminConfig
	Outbox      OutboxConfig
	Basket      BasketConfig
	Payment     PaymentConfig
}

type HTTPConfig struct {
	Port int
}

type DiagnosticsConfig struct {
	Port int
}

// StorageConfig selects the repository backend: memory, postgres or sqlite.
type StorageConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int `mapstructure:"max_open_conns"`
}

type CatalogConfig struct {
	// SeedFile is a JSON product list loaded at start-up when the catalog is empty.
	SeedFile string `mapstructure:"seed_file"`
}

// TracingConfig selects the span exporter: none, otlp-grpc, otlp-http or stdout.
type TracingConfig struct {
	Exporter    string
	Endpoint    string
	ServiceName string `mapstructure:"service_name"`
}

// AdminConfig holds the basic auth credentials for catalog management.
// An empty password disables the admin routes.
type AdminConfig struct {
	Username string
	Password string
}

type OutboxConfig struct {
	Interval time.Duration
}

type BasketConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type PaymentConfig struct {
	Methods []string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("diagnostics.port", 8090)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.max_open_conns", 5)
	v.SetDefault("catalog.seed_file", "")
	v.SetDefault("tracing.exporter", "none")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.service_name", "storefront")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")
	v.SetDefault("outbox.interval", time.Second)
	v.SetDefault("basket.idle_timeout", 30*time.Minute)
	v.SetDefault("basket.sweep_interval", time.Minute)
	v.SetDefault("payment.methods", []string{"online", "cash"})
}

// New returns a viper instance with defaults and environment overrides
// wired. A .env file in the working directory is loaded first if present.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path (TOML, YAML or JSON by
// extension) into v and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the values that have no usable fallback.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "postgres", "sqlite":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if len(c.Payment.Methods) == 0 {
		return errors.New("payment.methods must not be empty")
	}
	if c.Outbox.Interval <= 0 {
		return errors.New("outbox.interval must be positive")
	}
	if c.Basket.IdleTimeout <= 0 {
		return errors.New("basket.idle_timeout must be positive")
	}
	if c.Basket.SweepInterval <= 0 {
		return errors.New("basket.sweep_interval must be positive")
	}

	return nil
}
