package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port, "DB_PORT como string debe convertirse a entero")
	assert.Equal(t, 5, cfg.DB.ConnectRetries)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "crm", cfg.Metrics.Prefix)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_ProductionSinSecretFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err, "production sin JWT_SECRET debe fallar")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "crm", Password: "p@ss:w/rd", DBName: "crm", SSLMode: "disable"}
	dsn := c.ConnectionString()

	assert.Contains(t, dsn, "p%40ss%3Aw%2Frd")
	assert.Contains(t, dsn, "sslmode=disable")

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString(), "DATABASE_URL tiene prioridad")
}
