package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BACKEND_URL", "http://backend:8080/")
	t.Setenv("PAYMENT_RATE", "not-a-number")
	t.Setenv("ADMIN_EMAILS", "Admin@Shop.test, boss@shop.test")

	cfg := Load()
	require.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://backend:8080", cfg.BackendURL)
	assert.Equal(t, float64(5), cfg.PaymentRate)
	assert.Equal(t, []string{"admin@shop.test", "boss@shop.test"}, cfg.AdminEmails)
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("SOME_PORT", "9090")
	assert.Equal(t, 9090, EnvIntDefault("SOME_PORT", 1))

	t.Setenv("SOME_PORT", "x")
	assert.Equal(t, 1, EnvIntDefault("SOME_PORT", 1))
}
