package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/brotasbeauty/scheduler/libs/auth"
	"github.com/brotasbeauty/scheduler/libs/config"
	"github.com/brotasbeauty/scheduler/libs/db"
	"github.com/brotasbeauty/scheduler/libs/httpx"
	"github.com/brotasbeauty/scheduler/libs/kafkax"
	otelx "github.com/brotasbeauty/scheduler/libs/otel"
	"github.com/brotasbeauty/scheduler/libs/runtime"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/catalog"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/consumer"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/grpcserver"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/handlers"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/inbox"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/outbox"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/reporting"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/scheduling"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/storage"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck())
	}

	s, err := loadSettings()
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(s.Service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(s.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", "timezone", s.Timezone, "err", err)
		loc = time.UTC
	}

	var checks []runtime.ReadyCheck
	opts := []scheduling.Option{}

	events, pool := openOutbox(ctx, s, logger)
	if pool != nil {
		defer pool.Close()
		checks = append(checks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
	}
	if events != nil {
		opts = append(opts, scheduling.WithEvents(events))
	}

	cat := catalog.Default()
	facade := scheduling.New(
		storage.NewAppointmentStore(),
		reporting.NewEngine(s.Rate, reporting.DefaultStaticStats()),
		cat,
		logger,
		scheduling.Config{Hours: s.Hours, Location: loc, WhatsAppNumber: s.WhatsApp},
		opts...,
	)

	if s.KafkaBrokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(s.KafkaBrokers)})

		writer := outbox.NewKafkaWriter(s.KafkaBrokers)
		defer writer.Close()
		go outbox.NewPublisher(events, writer, logger, outbox.PublisherConfig{}).Run(ctx)

		if s.KafkaSyncTopic != "" {
			in, err := inbox.New(inbox.DefaultSize)
			if err != nil {
				panic(err)
			}
			reader := consumer.NewKafkaReader(consumer.Config{Brokers: s.KafkaBrokers, GroupID: s.KafkaGroupID, Topic: s.KafkaSyncTopic})
			go consumer.New(reader, logger, in, consumer.SyncHandler(facade, logger)).Run(ctx)
			logger.Info("sync consumer started", "topic", s.KafkaSyncTopic, "group_id", s.KafkaGroupID)
		}
	}

	limiter, limiterCheck := rateLimit(s, logger)
	if limiterCheck.Check != nil {
		checks = append(checks, limiterCheck)
	}

	admin := handlers.NewAdminHandler(facade, logger, adminConfig(s, logger))
	mux := runtime.NewBaseMuxWithReady(checks...)
	handlers.Register(mux, s.Service, handlers.NewAppointmentHandler(facade, logger), handlers.NewCatalogHandler(cat), admin)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: s.CORSOrigins,
			AllowedHeaders: []string{"Authorization", "Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
		limiter,
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(s.RequestTimeout),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "scheduling")
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	stopGRPC := startGRPC(ctx, s, logger, checks)

	<-ctx.Done()
	_ = runtime.Shutdown(logger, 10*time.Second,
		runtime.Stopper{Name: "http", Stop: srv.Shutdown},
		runtime.Stopper{Name: "grpc", Stop: func(context.Context) error { stopGRPC(); return nil }},
		runtime.Stopper{Name: "otel", Stop: otelShutdown},
	)
	logger.Info("scheduling service stopped")
}

// openOutbox picks Postgres when DATABASE_URL is set. Without Kafka or a database no events are kept.
func openOutbox(ctx context.Context, s settings, logger *slog.Logger) (outbox.Store, *db.Pool) {
	if s.DatabaseURL != "" {
		pool, err := db.Open(ctx, s.DatabaseURL, db.Options{MaxConns: int32(s.DBMaxConns), ConnectTimeout: 5 * time.Second})
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		store := outbox.NewPgStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("outbox schema failed", "err", err)
			panic(err)
		}
		return store, pool
	}
	if s.KafkaBrokers != "" {
		return outbox.NewMemoryStore(), nil
	}
	logger.Warn("domain events disabled (no KAFKA_BROKERS or DATABASE_URL)")
	return nil, nil
}

func rateLimit(s settings, logger *slog.Logger) (httpx.Middleware, runtime.ReadyCheck) {
	if s.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		rl := httpx.NewRedisRateLimiter(rdb, s.RateLimitPerMinute, time.Minute, "")
		logger.Info("redis rate limiter enabled", "addr", s.RedisAddr, "limit", s.RateLimitPerMinute)
		return rl.Middleware(logger, true), runtime.ReadyCheck{Name: "redis", Check: rl.Ping}
	}
	return httpx.NewRateLimiter(s.RateLimitPerMinute, time.Minute).Middleware(), runtime.ReadyCheck{}
}

func adminConfig(s settings, logger *slog.Logger) handlers.AdminConfig {
	cfg := handlers.AdminConfig{
		Username:     s.AdminUsername,
		DisplayName:  "Brotas Beauty Administrator",
		PasswordHash: s.AdminPasswordHash,
		TokenSecret:  s.AdminTokenSecret,
		TokenTTL:     s.AdminTokenTTL,
	}
	if cfg.PasswordHash == "" && s.AdminPassword != "" {
		hash, err := auth.HashPassword(s.AdminPassword)
		if err != nil {
			panic(err)
		}
		cfg.PasswordHash = hash
	}
	if cfg.PasswordHash == "" {
		logger.Warn("admin login disabled (set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD)")
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = uuid.NewString() + uuid.NewString()
		logger.Warn("ADMIN_TOKEN_SECRET not set; admin tokens will not survive a restart")
	}
	return cfg
}

func startGRPC(ctx context.Context, s settings, logger *slog.Logger, checks []runtime.ReadyCheck) func() {
	if s.GRPCPort == "" {
		return func() {}
	}
	lis, err := net.Listen("tcp", ":"+s.GRPCPort)
	if err != nil {
		logger.Error("grpc listen failed", "err", err)
		return func() {}
	}
	health := grpcserver.NewHealth(logger, checks...)
	health.Refresh(ctx)
	go health.Watch(ctx, 10*time.Second)

	srv := grpcserver.NewServer(logger, health)
	go func() {
		logger.Info("grpc server starting", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc server error", "err", err)
		}
	}()
	return srv.GracefulStop
}

// healthcheck probes the local gRPC health service; used as a container health command.
func healthcheck() int {
	port := config.String("GRPC_PORT", "9090")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status, err := grpcserver.Probe(ctx, net.JoinHostPort("127.0.0.1", port))
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		return 1
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		fmt.Fprintln(os.Stderr, "healthcheck:", status.String())
		return 1
	}
	return 0
}
