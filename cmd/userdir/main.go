package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alfagnish/userdir/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagPort       int
	flagCORSOrigin string
	flagGRPCAddr   string
	flagFormat     string
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "userdir",
	Short:         "In-memory user health records API",
	Long:          "userdir serves a small directory of user health records over HTTP/JSON, with OpenAPI documentation at /api-docs.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return writeOpenAPI(cmd.OutOrStdout(), flagFormat, cfg.PublicURL)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().IntVar(&flagPort, "port", 0, "HTTP listen port (overrides PORT)")
		c.Flags().StringVar(&flagCORSOrigin, "cors-origin", "", "allowed cross-origin origin (overrides CORS_ORIGIN)")
		c.Flags().StringVar(&flagGRPCAddr, "grpc-addr", "", "gRPC health listen address (overrides GRPC_ADDR)")
	}
	openapiCmd.Flags().StringVar(&flagFormat, "format", "yaml", "output format: json|yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(openapiCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlags(cmd, cfg)
	return serve(cmd.Context(), cfg)
}

// applyFlags overrides environment settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = flagPort
		if os.Getenv("PUBLIC_URL") == "" {
			cfg.PublicURL = fmt.Sprintf("http://localhost:%d", flagPort)
		}
	}
	if flags.Changed("cors-origin") {
		cfg.CORSOrigin = flagCORSOrigin
	}
	if flags.Changed("grpc-addr") {
		cfg.GRPCAddr = flagGRPCAddr
	}
}
