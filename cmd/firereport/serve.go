package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/oregon-fire-report/internal/adapter/http"
	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/dashboard"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the size class, cause and year dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	_, clean, err := report.LoadClean(a.loader(), a.logger, a.metrics)
	if err != nil {
		a.logger.Error("dashboard data unavailable", "error", err)
		return err
	}

	dash := dashboard.New(analysis.GroupFires(clean.Records), a.logger, a.metrics)
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, dash, a.logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.runUntilDone(ctx, srv, dash)
}

type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

type eventLoop interface {
	Run(ctx context.Context) error
}

// runUntilDone serves until ctx is cancelled or the server fails. The event
// loop outlives the HTTP server so in-flight handlers can still be answered
// while it drains.
func (a *app) runUntilDone(ctx context.Context, srv httpServer, loop eventLoop) error {
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoop()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-srvErr:
		if err != nil {
			a.logger.Error("http server error", "error", err)
			stopLoop()
			<-loopDone
			return err
		}
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}
	stopLoop()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("dashboard loop error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}
