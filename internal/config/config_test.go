package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv("APIARY_DATABASE__DRIVER", "memory")
	t.Setenv("APIARY_AUTH__JWT__SECRET", "a-very-long-test-secret")

	cfg, err := LoadWith(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "jwt", cfg.Auth.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 40.0, cfg.Ingest.Thresholds.TemperatureMax)
	assert.Equal(t, 15.0, cfg.Ingest.Thresholds.TemperatureMin)
	assert.Equal(t, 5, cfg.Listing.AlertsLimit)
	assert.Equal(t, 60, cfg.Listing.ReadingsLimit)
	assert.Equal(t, "random", cfg.Ingest.SensorSelection)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9191
database:
  driver: memory
auth:
  jwt:
    secret: file-secret-0123456789
ingest:
  sensor_selection: first
listing:
  alerts_limit: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadWith(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "first", cfg.Ingest.SensorSelection)
	assert.Equal(t, 3, cfg.Listing.AlertsLimit)
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("APIARY_DATABASE__DRIVER", "memory")

	_, err := LoadWith(viper.New(), t.TempDir())
	assert.ErrorContains(t, err, "jwt secret")

	t.Setenv("APIARY_AUTH__JWT__SECRET", "a-very-long-test-secret")
	t.Setenv("APIARY_RATELIMIT__ENABLED", "true")
	_, err = LoadWith(viper.New(), t.TempDir())
	assert.ErrorContains(t, err, "requires redis")
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "apiary", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=apiary sslmode=disable", c.DSN())
}
