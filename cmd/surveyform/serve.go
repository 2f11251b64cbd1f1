package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/metrics"
	"github.com/goliatone/go-surveyform/pkg/openapi"
	"github.com/goliatone/go-surveyform/pkg/questions"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/html"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
	"github.com/goliatone/go-surveyform/pkg/server"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.build()
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()
			if addr != "" {
				rt.cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), rt)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(ctx context.Context, rt *app) error {
	htmlRenderer, err := html.New()
	if err != nil {
		return err
	}
	renderers := render.NewRegistry()
	renderers.MustRegister(htmlRenderer)
	renderers.MustRegister(tui.MarkdownRenderer{})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	doc, err := openapi.NewDocument(ctx, openapi.DocumentOptions{Version: Version})
	if err != nil {
		return err
	}

	// One collapsing fetcher for every session so concurrent users picking the
	// same topic share a request.
	shared := questions.NewShared(rt.client)

	srv, err := server.New(
		server.WithLogger(rt.logger.Named("server")),
		server.WithRegistry(renderers),
		server.WithMetrics(collector, reg),
		server.WithDocument(doc),
		server.WithAssets(html.AssetsFS()),
		server.WithTheme(rt.cfg.Theme.RendererConfig()),
		server.WithSessionTTL(rt.cfg.Server.SessionTTL),
		server.WithOrchestratorOptions(rt.orchestratorOptions(shared)...),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		srv.Run(sweepCtx)
	}()
	defer func() {
		stopSweep()
		<-sweepDone
	}()

	httpServer := &http.Server{
		Addr:    rt.cfg.Server.Addr,
		Handler: srv,
	}

	serverErrors := make(chan error, 1)
	go func() {
		rt.logger.Info("starting survey server", zap.String("addr", httpServer.Addr))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		rt.logger.Info("shutting down", zap.Duration("timeout", rt.cfg.Server.ShutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		rt.logger.Warn("graceful shutdown did not complete", zap.Error(err))
		if err := httpServer.Close(); err != nil {
			return fmt.Errorf("serve: close: %w", err)
		}
	}
	rt.logger.Info("survey server stopped")
	return nil
}
