package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cicd-demo/backend/internal/buildinfo"
	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/database"
	"cicd-demo/backend/internal/httpapi/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Example: `  cicd-demo serve --port 8080
  PORT=8080 ENVIRONMENT=production cicd-demo serve`,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "0.0.0.0", "Address to bind")
	cmd.Flags().Int("port", config.DefaultPort, "Port to listen on (env PORT)")
	cmd.Flags().String("environment", config.DefaultEnvironment, "Environment name shown by the status endpoints (env ENVIRONMENT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	bindFlag(cmd, config.HostKey, "host")
	bindFlag(cmd, config.PortKey, "port")
	bindFlag(cmd, config.EnvironmentKey, "environment")

	cfg := config.Load(viper.GetViper())

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening release ledger: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("closing release ledger")
		}
	}()

	ln, err := listenAndRecord(cmd.Context(), cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("environment", cfg.Environment).
		Str("version", buildinfo.Version).
		Msg("server listening")

	return serveHTTP(ctx, ln, router.New(db, cfg), cfg.ShutdownTimeout)
}

// listenAndRecord binds the listener first so the ledger only records builds
// that actually came up.
func listenAndRecord(ctx context.Context, cfg config.Settings, db *gorm.DB) (net.Listener, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	if db == nil {
		log.Info().Msg("release ledger disabled")
		return ln, nil
	}

	release, err := database.RecordRelease(ctx, db, buildinfo.GetBuildInfo(), cfg.Environment)
	if err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("recording release: %w", err)
	}
	log.Info().Uint("release_id", release.ID).Str("hostname", release.Hostname).Msg("release recorded")
	return ln, nil
}

// serveHTTP serves on ln until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func serveHTTP(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server crashed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
