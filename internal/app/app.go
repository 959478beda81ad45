package app

import (
	"context"
	"net/http"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/elit-storefront/internal/backend"
	"github.com/xenking/elit-storefront/internal/domain/cart"
	"github.com/xenking/elit-storefront/internal/domain/checkout"
	"github.com/xenking/elit-storefront/internal/payment"
	"github.com/xenking/elit-storefront/internal/storage"
	redisstore "github.com/xenking/elit-storefront/internal/storage/redis"
	sqlitestore "github.com/xenking/elit-storefront/internal/storage/sqlite"
	"github.com/xenking/elit-storefront/pkg/health"
	"github.com/xenking/elit-storefront/pkg/httpclient"
)

// Run creates all dependencies and drives the interactive storefront session
// until the context is cancelled or the buyer quits. It is the single wiring
// point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("backend", cfg.BackendURL),
		zap.String("storage", storageDescription(cfg)),
	)

	// Durable local storage: Redis when a shared cart is configured,
	// otherwise a local SQLite file.
	kv, closeKV, err := openStorage(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer func() { _ = closeKV() }()

	// Cart store, rehydrated from storage.
	store := cart.NewStore(ctx, cart.NewKVRepository(kv), lg)

	// Outbound HTTP: otel-instrumented base transport, request IDs and
	// request logging on top.
	transport := httpclient.Wrap(
		otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
		),
		httpclient.RequestID(),
		httpclient.LogRequests(),
	)
	httpClient := &http.Client{Transport: transport}

	// Remote collaborators.
	gateway := backend.NewClient(httpClient, cfg.BackendURL)
	processor := payment.NewClient(httpClient, cfg.ProcessorURL, cfg.ProcessorKey)

	// Backend availability probe, surfaced by the session's status command.
	monitor := health.New()
	monitor.AddCheck("order-backend", cfg.Probe.Timeout,
		health.HTTPGetCheck(httpClient, cfg.BackendURL+"/livez"))
	monitor.Start(ctx, cfg.Probe.Interval)
	defer monitor.Stop()

	// Checkout flow.
	form := checkout.NewForm()
	session := NewSession(os.Stdin, os.Stdout, store, form, kv, monitor, lg)
	orchestrator := checkout.NewOrchestrator(
		store, form, processor, gateway, session, lg, cfg.Checkout.StepTimeout,
	)
	session.orchestrator = orchestrator

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(ctx)
	})
	g.Go(func() error {
		// Unblock the session reader when the context ends.
		<-ctx.Done()
		session.CloseInput()
		return nil
	})
	return g.Wait()
}

// openStorage opens the configured KV backend and returns it with its
// closer.
func openStorage(ctx context.Context, cfg *Config) (storage.KV, func() error, error) {
	if cfg.RedisAddr != "" {
		kv, err := redisstore.Open(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	}

	kv, err := sqlitestore.Open(cfg.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return kv, kv.Close, nil
}

func storageDescription(cfg *Config) string {
	if cfg.RedisAddr != "" {
		return "redis://" + cfg.RedisAddr
	}
	return "sqlite:" + cfg.StoragePath
}
