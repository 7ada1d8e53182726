package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httphandler "github.com/ericfisherdev/commentpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/commentpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/commentpanel/internal/application"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web panel and JSON API",
		Long: `Serve the comment panel at / and the JSON API under /api/v1 on
COMMENTPANEL_LISTEN_ADDR until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, runs, err := a.openRunStore()
	if err != nil {
		return err
	}
	defer a.closeDB(db)

	ctrl, svc := a.newAnalysis(runs)
	live := application.NewLiveUpdater(svc, a.cfg.LiveInterval, a.logger)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(ctrl, svc, runs, live, a.logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(ctrl, svc, live, a.logger))

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, a.logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Analyze requests hold the connection for the whole backend call.
		WriteTimeout: a.cfg.HTTPTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server starting", "addr", a.cfg.ListenAddr, "api_base_url", a.cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return live.Run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
