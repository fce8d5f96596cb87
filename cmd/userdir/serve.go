package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfagnish/userdir/internal/config"
	"github.com/alfagnish/userdir/internal/directory"
	"github.com/alfagnish/userdir/internal/events"
	grpcsrv "github.com/alfagnish/userdir/internal/grpc"
	"github.com/alfagnish/userdir/internal/openapi"
	"github.com/alfagnish/userdir/internal/server"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// serve runs the HTTP server, and the gRPC health server when configured,
// until ctx is cancelled or SIGINT/SIGTERM arrives.
func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Printf("config: listen=%s cors=%s grpc=%q public=%s",
		cfg.ListenAddr(), cfg.CORSOrigin, cfg.GRPCAddr, cfg.PublicURL)

	hub := events.NewHub()
	dir := directory.New(directory.WithObserver(hub))

	handler, err := server.New(cfg, dir, hub)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	srv := &http.Server{
		Addr:        cfg.ListenAddr(),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// No write timeout so the change feed can stay open.
		IdleTimeout: 120 * time.Second,
	}

	var health *grpcsrv.HealthServer
	var healthLis net.Listener
	if cfg.GRPCAddr != "" {
		healthLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.GRPCAddr, err)
		}
		health = grpcsrv.NewHealthServer()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("listening on %s (docs at %s/api-docs)", cfg.ListenAddr(), cfg.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if health != nil {
		g.Go(func() error {
			log.Printf("grpc health listening on %s", healthLis.Addr())
			if err := health.Serve(healthLis); err != nil {
				return fmt.Errorf("grpc health server: %w", err)
			}
			return nil
		})
		health.SetServing(true)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down...")

		if health != nil {
			health.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown error: %v", err)
		}
		return nil
	})

	err = g.Wait()
	log.Println("server stopped")
	return err
}

// writeOpenAPI renders the API document in the given format.
func writeOpenAPI(w io.Writer, format, serverURL string) error {
	doc, err := openapi.Build(serverURL)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "json":
		out, err = doc.JSON()
	case "yaml", "yml":
		out, err = doc.YAML()
	default:
		return fmt.Errorf("invalid format %q: must be json or yaml", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
