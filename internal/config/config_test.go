package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_ACCESS_TTL", "15m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 10, cfg.RateLimit.AuthBurst)
	assert.Equal(t, "@every 1m", cfg.Tasks.StatsCron)
	assert.Equal(t, "store_rating.db", cfg.Database.DatabaseDSN())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
server:
  port: "7000"
database:
  driver: mysql
  host: db
  port: "3306"
  user: app
  password: pw
  name: ratings
jwt:
  secret: from-file
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "app:pw@tcp(db:3306)/ratings?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DatabaseDSN())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "1"},
		Database: DatabaseConfig{Driver: "oracle"},
		JWT:      JWTConfig{Secret: "s", AccessTTL: time.Minute, RefreshTTL: time.Hour},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.JWT.AccessTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN_Postgres(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.DatabaseDSN())

	d.DSN = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", d.DatabaseDSN())
}
