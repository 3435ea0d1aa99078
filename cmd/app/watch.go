package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	conf "github.com/oneee-playground/crackdash/internal/config"
	"github.com/oneee-playground/crackdash/internal/console"
	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/resource"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func (a *app) watch(ctx context.Context) error {
	if err := a.guard("jobs"); err != nil {
		return err
	}

	runners := []console.Runner{
		console.NewResourcesView(a.log, console.ResourcesViewOpts{
			Registry: a.registry,
			Interval: conf.PollInterval,
			Recorder: a.recorder,
			Observer: a.metrics,
		}),
		console.NewJobsView(a.log, console.JobsViewOpts{
			Reconciler: a.reconciler,
			Interval:   conf.PollInterval,
			Events:     a.events,
			Recorder:   a.recorder,
			Observer:   a.metrics,
		}),
		&boardPrinter{out: os.Stdout, board: a.board, registry: a.registry, center: a.center},
	}

	if conf.MetricsAddr != "" {
		runners = append(runners, &metricsServer{
			log:      a.log,
			addr:     conf.MetricsAddr,
			gatherer: a.promRegistry,
		})
	}

	return console.Watch(ctx, runners...)
}

// boardPrinter redraws the board after every change and prints
// notifications as they arrive.
type boardPrinter struct {
	out      io.Writer
	board    *job.Board
	registry *resource.Registry
	center   *notify.Center
}

func (p *boardPrinter) Run(ctx context.Context) error {
	notes, unsubscribe := p.center.Subscribe(16)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.board.Changes():
			console.RenderBoard(p.out, p.board, p.registry)
		case n, ok := <-notes:
			if !ok {
				return nil
			}
			console.RenderNotifications(p.out, []notify.Notification{n})
		}
	}
}

type metricsServer struct {
	log      *zap.Logger
	addr     string
	gatherer prometheus.Gatherer
}

func (s *metricsServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: s.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errchan := make(chan error, 1)
	go func() {
		s.log.Info("serving metrics", zap.String("addr", s.addr))
		errchan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errchan:
		return errors.Wrap(err, "serving metrics")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down metrics server")
	}
	return ctx.Err()
}
