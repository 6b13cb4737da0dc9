package cli

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/5w1tchy/storyshelf/internal/api/handlers/books"
	mw "github.com/5w1tchy/storyshelf/internal/api/middlewares"
	"github.com/5w1tchy/storyshelf/internal/api/router"
	"github.com/5w1tchy/storyshelf/internal/config"
	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/maintenance"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

// Handler builds the full middleware stack around the router.
func Handler(c *config.Config, h *books.Handler) http.Handler {
	var listMW []mw.Middleware
	if c.RateLimitRPS > 0 {
		listMW = append(listMW, mw.NewRateLimiter(c.RateLimitRPS, c.RateLimitBurst, mw.PerIPKey("list")).Middleware)
	}

	return mw.Chain(
		router.Router(h, listMW...),
		mw.RequestID,
		mw.Recovery,
		mw.RequestLogger,
		mw.CORS(c.CORSOrigins),
		mw.ResponseTime,
		mw.SecurityHeaders,
		mw.Compression,
	)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.For(ctx)

	a := newApp(ctx, cfg)
	defer a.Close()

	warmed := maintenance.StartCatalogWarmup(ctx, a.store, cfg.SyncInterval)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(cfg, books.New(a.store)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).WithField("books", cfg.BooksDir).Info("server listening")
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		<-warmed
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		return err
	}
	<-warmed
	return nil
}
