package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alfagnish/userdir/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOpenAPI_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOpenAPI(&buf, "json", "http://example.test"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestWriteOpenAPI_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOpenAPI(&buf, "yaml", ""))
	assert.Contains(t, buf.String(), "openapi: 3.0.3")
}

func TestWriteOpenAPI_BadFormat(t *testing.T) {
	err := writeOpenAPI(&bytes.Buffer{}, "xml", "")
	assert.ErrorContains(t, err, "invalid format")
}

func TestApplyFlags(t *testing.T) {
	t.Setenv("PUBLIC_URL", "")
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&flagPort, "port", 0, "")
	cmd.Flags().StringVar(&flagCORSOrigin, "cors-origin", "", "")
	cmd.Flags().StringVar(&flagGRPCAddr, "grpc-addr", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "8081", "--cors-origin", "https://app.example.com"}))

	cfg := &config.Config{Port: 3000, CORSOrigin: "http://localhost:3000", GRPCAddr: ":9000"}
	applyFlags(cmd, cfg)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "http://localhost:8081", cfg.PublicURL)
	assert.Equal(t, "https://app.example.com", cfg.CORSOrigin)
	assert.Equal(t, ":9000", cfg.GRPCAddr, "unset flag must not override")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServe_StartsAndStops(t *testing.T) {
	port := freePort(t)
	cfg := &config.Config{
		Host:       "127.0.0.1",
		Port:       port,
		CORSOrigin: "http://localhost:3000",
		MaxBodyKB:  100,
		PublicURL:  fmt.Sprintf("http://127.0.0.1:%d", port),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(cfg.PublicURL + "/users/1")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
