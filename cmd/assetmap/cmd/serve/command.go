// Package serve provides the serve command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/emoji"
	"github.com/agentstation/assetmap/internal/server"
)

// shutdownTimeout bounds connection draining after a stop signal.
const shutdownTimeout = 30 * time.Second

// NewCommand creates the serve command. Flag defaults come from defaults,
// which carries the config file and environment values.
func NewCommand(app appcontext.Interface, defaults server.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the REST API server with WebSocket and SSE support",
		Long: `Start the assetmap REST API.

Features:
  - Multipart upload of inventory and reports (POST /api/v1/reconcile)
  - Snapshot browsing, filtering, CSV export and markdown reports
  - Gemini executive summaries, cached per snapshot
  - WebSocket (/api/v1/updates/ws) and SSE (/api/v1/updates/stream)
    notifications when snapshots are created or promoted
  - API key authentication and CORS (optional)
  - Request logging, panic recovery and graceful shutdown

Snapshots live in memory for the lifetime of the process.`,
		Example: `  # Start on default port 8080
  assetmap serve

  # Custom port with authentication
  ASSETMAP_SERVER_API_KEY=secret assetmap serve --port 3000 --auth

  # Allow a browser dashboard on another origin
  assetmap serve --cors-origins "https://dashboard.example.com"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	cmd.Flags().Int("port", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	cmd.Flags().Bool("cors", defaults.CORSEnabled, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", defaults.CORSOrigins, "Allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", defaults.AuthEnabled, "Enable API key authentication")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "Authentication header name")
	cmd.Flags().String("api-key", defaults.APIKey, "API key clients must present (prefer ASSETMAP_SERVER_API_KEY)")

	cmd.Flags().Int64("max-upload", defaults.MaxUploadBytes, "Maximum request body size in bytes (0 to disable)")
	cmd.Flags().Duration("narrative-ttl", defaults.NarrativeTTL, "How long generated narratives are cached (0 for forever)")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

func runServer(cmd *cobra.Command, app appcontext.Interface) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.Logger()

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int64("max_upload", cfg.MaxUploadBytes).
		Dur("narrative_ttl", cfg.NarrativeTTL).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return startWithGracefulShutdown(cmd.Context(), cmd, httpServer, srv, logger)
}

// parseConfig reads the flags into a server configuration. HTTP_PORT and
// HTTP_HOST override the flags for container deployments.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.Config{
		Port:           mustGet(cmd.Flags().GetInt, "port"),
		Host:           mustGet(cmd.Flags().GetString, "host"),
		PathPrefix:     mustGet(cmd.Flags().GetString, "prefix"),
		CORSEnabled:    mustGet(cmd.Flags().GetBool, "cors"),
		CORSOrigins:    mustGet(cmd.Flags().GetStringSlice, "cors-origins"),
		AuthEnabled:    mustGet(cmd.Flags().GetBool, "auth"),
		AuthHeader:     mustGet(cmd.Flags().GetString, "auth-header"),
		APIKey:         mustGet(cmd.Flags().GetString, "api-key"),
		MaxUploadBytes: mustGet(cmd.Flags().GetInt64, "max-upload"),
		NarrativeTTL:   mustGet(cmd.Flags().GetDuration, "narrative-ttl"),
		ReadTimeout:    mustGet(cmd.Flags().GetDuration, "read-timeout"),
		WriteTimeout:   mustGet(cmd.Flags().GetDuration, "write-timeout"),
		IdleTimeout:    mustGet(cmd.Flags().GetDuration, "idle-timeout"),
	}

	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		p, err := parsePort(envPort)
		if err != nil {
			return server.Config{}, err
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		cfg.Host = envHost
	}

	if cfg.AuthEnabled && cfg.APIKey == "" {
		return server.Config{}, fmt.Errorf("--auth requires an API key (--api-key or ASSETMAP_SERVER_API_KEY)")
	}
	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections and stops the background services.
func startWithGracefulShutdown(ctx context.Context, cmd *cobra.Command, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)
	out := cmd.OutOrStdout()

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		_, _ = fmt.Fprintf(out, "%s API server listening on %s\n", emoji.Info, httpServer.Addr)
		_, _ = fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		_, _ = fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Stop)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Stop the streams first so long-lived connections do not hold up draining.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		_, _ = fmt.Fprintf(out, "%s API server stopped gracefully\n", emoji.Success)
		return nil
	}
}

// mustGet retrieves a flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGet[T any](get func(string) (T, error), name string) T {
	val, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
