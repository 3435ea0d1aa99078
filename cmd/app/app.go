package main

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/oneee-playground/crackdash/internal/api"
	"github.com/oneee-playground/crackdash/internal/auth"
	conf "github.com/oneee-playground/crackdash/internal/config"
	"github.com/oneee-playground/crackdash/internal/console"
	"github.com/oneee-playground/crackdash/internal/event"
	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/metric"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/queue"
	"github.com/oneee-playground/crackdash/internal/resource"
	"github.com/oneee-playground/crackdash/internal/route"
	"github.com/oneee-playground/crackdash/internal/session"
	"github.com/oneee-playground/crackdash/internal/session/storage"
	"github.com/oneee-playground/crackdash/internal/tool"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// app holds every component one invocation may need.
type app struct {
	log *zap.Logger

	center    *notify.Center
	store     *session.Store
	gateway   *auth.Gateway
	navigator *route.Navigator
	client    *api.Client

	registry   *resource.Registry
	board      *job.Board
	reconciler *job.Reconciler
	catalog    *tool.Catalog
	jobs       *job.Service
	resources  *resource.Service
	reorderer  *queue.Reorderer

	promRegistry *prometheus.Registry
	metrics      *metric.Metrics
	recorder     *metric.Recorder
	events       event.Publisher

	closers []func()
	wg      sync.WaitGroup
}

func newApp(ctx context.Context, logger *zap.Logger) (*app, error) {
	a := &app{log: logger}

	centerCtx, stopCenter := context.WithCancel(context.Background())
	a.center = notify.NewCenter(logger, notify.DefaultTTL)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.center.Run(centerCtx)
	}()
	a.closers = append(a.closers, stopCenter)

	a.store = session.NewStore(logger, storage.NewFSStorage(conf.SessionPath))
	if _, err := a.store.Restore(); err != nil {
		logger.Warn("failed to restore session", zap.Error(err))
	}

	a.promRegistry = prometheus.NewRegistry()
	a.metrics = metric.NewMetrics(a.promRegistry)

	burst := max(1, int(conf.RateLimit))
	limiter := rate.NewLimiter(rate.Limit(conf.RateLimit), burst)

	client, err := api.NewClient(api.ClientOpts{
		BaseURL: conf.APIURL,
		Middlewares: []api.Middleware{
			api.RequestIDMiddleware(),
			api.ObserveMiddleware(logger, a.metrics),
			api.RateLimitMiddleware(limiter),
			api.TokenMiddleware(a.store, api.Prefix, api.LoginPath),
			// The gateway is built after the client, so the handler
			// looks it up at call time.
			api.UnauthorizedMiddleware(func(req *http.Request) {
				a.gateway.HandleUnauthorized(req)
			}),
		},
		Log: logger,
	})
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "creating api client")
	}
	a.client = client

	a.gateway = auth.NewGateway(logger, client, a.store, a.center)
	a.navigator, err = route.NewNavigator(logger, route.DefaultRoutes(), a.gateway, a.center)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "creating navigator")
	}
	a.gateway.SetRedirector(a.navigator)

	a.registry = resource.NewRegistry(logger, client)
	a.board = job.NewBoard()
	a.reconciler = job.NewReconciler(logger, client, a.board, a.registry, a.center)
	a.catalog = tool.NewCatalog(logger, client, tool.DefaultCacheTTL)
	a.jobs = job.NewService(logger, client, a.catalog, a.board, a.center)
	a.resources = resource.NewService(logger, client, a.registry, a.center)
	a.reorderer = queue.NewReorderer(logger, client, a.board, a.reconciler, a.center)

	a.recorder = a.newRecorder(ctx)
	a.events = a.newEventPublisher()

	return a, nil
}

// newRecorder writes points to influx when it is configured and drops
// them otherwise.
func (a *app) newRecorder(ctx context.Context) *metric.Recorder {
	if conf.InfluxURL == "" {
		return metric.NewRecorder(metric.Discard{})
	}

	influxClient := influxdb2.NewClientWithOptions(conf.InfluxURL, conf.InfluxToken, influxdb2.DefaultOptions())
	sink := metric.NewInfluxSink(a.log, influxClient, conf.InfluxOrg, conf.InfluxBucket)

	sinkCtx, stopSink := context.WithCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sink.Run(sinkCtx)
	}()

	a.closers = append(a.closers, func() {
		sink.Close()
		stopSink()
		influxClient.Close()
	})

	return metric.NewRecorder(sink)
}

func (a *app) newEventPublisher() event.Publisher {
	if conf.EventQueueURL == "" {
		return event.NopPublisher{}
	}

	awsConfig := aws.Config{
		Region:      conf.AWSRegion,
		Credentials: credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, ""),
	}

	return event.NewSQSEventPublisher(sqs.NewFromConfig(awsConfig), a.log, conf.EventQueueURL)
}

// Close stops background work in reverse order of start.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.wg.Wait()
}

// flushNotifications prints what is still active so one-shot commands
// show their outcome.
func (a *app) flushNotifications(w io.Writer) {
	if a == nil || a.center == nil {
		return
	}
	console.RenderNotifications(w, a.center.Active())
}

// guard applies the route guard to the named route.
func (a *app) guard(name string, params ...string) error {
	path, err := a.navigator.Link(name, params...)
	if err != nil {
		return err
	}
	return a.navigator.Go(path)
}
