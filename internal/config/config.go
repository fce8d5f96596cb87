package config

import (
	"net"
	"os"
	"strconv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Host       string // HTTP listen host, empty for all interfaces
	Port       int    // HTTP listen port
	CORSOrigin string // Origin allowed to make cross-origin requests
	GRPCAddr   string // gRPC health listen address, empty disables it
	MaxBodyKB  int64  // Maximum JSON request body size in kilobytes
	PublicURL  string // Base URL advertised in the API documentation
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() *Config {
	cfg := &Config{
		Host:       os.Getenv("HOST"),
		Port:       envOrDefaultInt("PORT", 3000),
		CORSOrigin: envOrDefault("CORS_ORIGIN", "http://localhost:3000"),
		GRPCAddr:   os.Getenv("GRPC_ADDR"),
		MaxBodyKB:  envOrDefaultInt64("MAX_BODY_KB", 100),
		PublicURL:  os.Getenv("PUBLIC_URL"),
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}
	return cfg
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MaxBodyBytes returns the request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return c.MaxBodyKB << 10
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envOrDefaultInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
