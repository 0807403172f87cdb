package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"socialapi/configs"
	"socialapi/internal/app"
	"socialapi/internal/kafka"
	"socialapi/internal/media"
	"socialapi/internal/migrate"
	"socialapi/internal/shared/db"
	"socialapi/internal/shared/logger"
	"socialapi/internal/shared/redisx"
	"socialapi/internal/storage/s3"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func initOTEL(ctx context.Context, env string) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4318"
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.WithError(err).Fatal("otel exporter")
	}
	name := os.Getenv("OTEL_SERVICE_NAME")
	if name == "" {
		name = "social-api"
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		attribute.String("deployment.environment", env),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp.Shutdown
}

func openMedia(ctx context.Context, cfg *configs.Config) media.ObjectStore {
	if cfg.S3Endpoint == "" {
		log.Info("S3_ENDPOINT not set, media uploads disabled")
		return nil
	}
	st, err := s3.New(s3.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Bucket:    cfg.S3BucketName,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.WithError(err).Fatal("s3 storage")
	}
	if err := st.EnsureBucket(ctx); err != nil {
		log.WithError(err).Fatal("s3 bucket")
	}
	return st
}

func main() {
	cfg := configs.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config")
	}
	logger.Init(cfg.LogLevel, cfg.Env)
	log.WithField("config", cfg.String()).Info("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := initOTEL(ctx, cfg.Env)

	store, err := db.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	if cfg.AutoMigrate {
		if err := migrate.AutoMigrateAll(ctx, store); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		rdb = redisx.Open(cfg.RedisAddr())
		if err := redisx.Ping(ctx, rdb); err != nil {
			// limiter and idempotency fail open
			log.WithError(err).Warn("redis unavailable at startup")
		}
	}

	var events kafka.Publisher = kafka.Nop{}
	if cfg.KafkaBrokers != "" {
		events = kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	srv := app.Server(cfg.AppPort, app.NewRouter(app.Deps{
		Config: cfg,
		Store:  store,
		Redis:  rdb,
		Events: events,
		Media:  openMedia(ctx, cfg),
	}))

	go func() {
		log.WithField("addr", cfg.AppPort).Info("social api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := events.Close(); err != nil {
		log.WithError(err).Warn("kafka close")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(); err != nil {
		log.WithError(err).Warn("db close")
	}
	_ = shutdownTracing(sctx)
}
