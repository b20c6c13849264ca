package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	c, err := Load(newViper(), filepath.Join(t.TempDir(), "none.toml"))
	require.Error(t, err, "a named config file must exist")

	c, err = Load(newViper(), "")
	require.NoError(t, err)
	require.Equal(t, 8080, c.HTTP.Port)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "none", c.Tracing.Exporter)
	require.Equal(t, time.Second, c.Outbox.Interval)
	require.Equal(t, 30*time.Minute, c.Basket.IdleTimeout)
	require.Equal(t, []string{"online", "cash"}, c.Payment.Methods)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storefront.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[http]
port = 9000

[storage]
driver = "sqlite"
dsn = "/tmp/storefront.db"

[tracing]
exporter = "otlp-http"
endpoint = "collector:4318"

[basket]
idle_timeout = "5m"

[payment]
methods = ["card"]
`), 0o600))

	c, err := Load(newViper(), path)
	require.NoError(t, err)
	require.Equal(t, 9000, c.HTTP.Port)
	require.Equal(t, "sqlite", c.Storage.Driver)
	require.Equal(t, "/tmp/storefront.db", c.Storage.DSN)
	require.Equal(t, "otlp-http", c.Tracing.Exporter)
	require.Equal(t, "collector:4318", c.Tracing.Endpoint)
	require.Equal(t, 5*time.Minute, c.Basket.IdleTimeout)
	require.Equal(t, []string{"card"}, c.Payment.Methods)
	require.Equal(t, 8090, c.Diagnostics.Port, "unset keys keep defaults")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "7070")
	t.Setenv("STOREFRONT_ADMIN_PASSWORD", "secret")
	t.Setenv("STOREFRONT_OUTBOX_INTERVAL", "250ms")

	c, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, 7070, c.HTTP.Port)
	require.Equal(t, "secret", c.Admin.Password)
	require.Equal(t, 250*time.Millisecond, c.Outbox.Interval)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	c, err := Load(newViper(), "")
	require.NoError(t, err)

	bad := c
	bad.Storage.Driver = "postgres"
	require.Error(t, bad.Validate(), "postgres needs a dsn")

	bad = c
	bad.Storage.Driver = "mongo"
	require.Error(t, bad.Validate())

	bad = c
	bad.Payment.Methods = nil
	require.Error(t, bad.Validate())

	bad = c
	bad.Basket.IdleTimeout = 0
	require.Error(t, bad.Validate())

	bad = c
	bad.Basket.SweepInterval = -time.Second
	require.Error(t, bad.Validate())
}

func TestLoad_RejectsZeroSweepInterval(t *testing.T) {
	t.Setenv("STOREFRONT_BASKET_SWEEP_INTERVAL", "0s")

	_, err := Load(New(), "")
	require.ErrorContains(t, err, "basket.sweep_interval")
}

func TestLoad_RejectsZeroIdleTimeout(t *testing.T) {
	t.Setenv("STOREFRONT_BASKET_IDLE_TIMEOUT", "0s")

	_, err := Load(New(), "")
	require.ErrorContains(t, err, "basket.idle_timeout")
}
