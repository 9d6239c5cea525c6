package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bestfit/internal/logging"
	"bestfit/internal/recommend"
	"bestfit/internal/server"
	"bestfit/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

// serveCmd exposes the wizard as an HTTP JSON API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wizard over HTTP",
	Long: `Starts the HTTP JSON wizard API. Each POST /api/sessions creates an
independent wizard session held in memory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.address)")
}

// newAPIHandler wires the store and router for the configured service.
func newAPIHandler(rec wizard.Recommender) http.Handler {
	if !logging.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	store := server.NewStore(func() *wizard.Controller { return wizard.New(rec) })
	return server.NewRouter(server.RouterConfig{
		Handler:        server.NewHandler(store, tracker),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newAPIHandler(newService(recommend.ConfigClient(configPath))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", addr))
		logging.Server("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.Server("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.ServerError("server stopped: %v", err)
		return err
	}
	return nil
}
