package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"landcheck/projection"
	"landcheck/sessions"
	"landcheck/wizard"
)

type App struct {
	cfg      Config
	log      *slog.Logger
	mongo    *mongo.Client
	sessions *sessions.Manager
	api      *APIClient
	locs     *wizard.Locations
	format   *projection.Formatter
	exporter *projection.GuardedExporter
	metrics  *metrics
	registry *prometheus.Registry
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	format := projection.NewFormatter(cfg.Locale)
	app := &App{
		cfg:      cfg,
		log:      log,
		api:      NewAPIClient(cfg.APIBaseURL, cfg.APITimeout, cfg.BreakerFailures, cfg.BreakerOpenFor),
		locs:     wizard.DefaultLocations,
		format:   format,
		exporter: projection.NewGuardedExporter(projection.NewPDFExporter(format)),
		metrics:  newMetrics(reg),
		registry: reg,
	}

	var store sessions.Store
	switch cfg.SessionStore {
	case "mongo":
		client, err := connectMongo(ctx, cfg.MongoURI, log)
		if err != nil {
			return nil, err
		}
		ms, err := sessions.NewMongoStore(ctx, client.Database(cfg.MongoDB), cfg.SessionTTL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		app.mongo = client
		store = ms
	default:
		store = sessions.NewMemoryStore(cfg.SessionTTL)
	}
	app.sessions = sessions.NewManager(store, wizard.SubmitterFunc(app.saveSubmission))
	return app, nil
}

// connectMongo connects and pings with exponential backoff, giving up
// after a handful of attempts or when ctx ends.
func connectMongo(ctx context.Context, uri string, log *slog.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pctx, nil)
	}
	notify := func(err error, next time.Duration) {
		log.Warn("mongo not ready, retrying", "err", err, "in", next)
	}
	if err := backoff.RetryNotify(ping, b, notify); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// saveSubmission forwards a finished questionnaire to the persistence API.
func (a *App) saveSubmission(ctx context.Context, s wizard.Submission) error {
	err := a.api.SaveSubmission(ctx, s)
	a.metrics.submission(err)
	if err != nil {
		a.log.Error("submission failed", "submission_id", s.ID, "err", err)
		return err
	}
	a.log.Info("submission saved", "submission_id", s.ID, "eligible", s.Eligibility.OverallEligible)
	return nil
}

func (a *App) close(ctx context.Context) {
	if a.mongo != nil {
		_ = a.mongo.Disconnect(ctx)
	}
}
