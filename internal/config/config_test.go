package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "CORS_ORIGIN", "GRPC_ADDR", "MAX_BODY_KB", "PUBLIC_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	assert.Empty(t, cfg.GRPCAddr)
	assert.Equal(t, int64(100*1024), cfg.MaxBodyBytes())
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGIN", "https://health.example.com")
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("MAX_BODY_KB", "4")
	t.Setenv("PUBLIC_URL", "https://api.example.com")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Equal(t, "https://health.example.com", cfg.CORSOrigin)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, int64(4096), cfg.MaxBodyBytes())
	assert.Equal(t, "https://api.example.com", cfg.PublicURL)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("MAX_BODY_KB", "-5")
	t.Setenv("PUBLIC_URL", "")

	cfg := Load()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, int64(100), cfg.MaxBodyKB)
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL)
}
