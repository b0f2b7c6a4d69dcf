// Command server runs the AOI console API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	aoihandler "aoiconsole/internal/aoi/handler"
	aoiservice "aoiconsole/internal/aoi/service"
	aoistore "aoiconsole/internal/aoi/store"
	"aoiconsole/internal/aoi/visibility"
	"aoiconsole/internal/audit"
	dochandler "aoiconsole/internal/document/handler"
	docservice "aoiconsole/internal/document/service"
	docstore "aoiconsole/internal/document/store"
	identityhandler "aoiconsole/internal/identity/handler"
	identityservice "aoiconsole/internal/identity/service"
	identitystore "aoiconsole/internal/identity/store"
	"aoiconsole/internal/identity/token"
	orghandler "aoiconsole/internal/org/handler"
	orgservice "aoiconsole/internal/org/service"
	orgstore "aoiconsole/internal/org/store"
	"aoiconsole/internal/platform/config"
	"aoiconsole/internal/platform/health"
	"aoiconsole/internal/platform/httpserver"
	"aoiconsole/internal/platform/logger"
	"aoiconsole/internal/platform/metrics"
	"aoiconsole/internal/platform/middleware"
	platformredis "aoiconsole/internal/platform/redis"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires dependencies and supervises the server plus the audit worker.
// Business logic lives in the internal service packages.
func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	stores, sqlDB, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	auditSink, closeSink, err := openAuditSink(ctx, cfg, sqlDB, log)
	if err != nil {
		return err
	}
	defer closeSink()
	recorder := audit.NewRecorder(256, log)
	worker := audit.NewWorker(auditSink, recorder.Inbox(), log)

	tokens := token.NewManager(cfg.JWTSigningKey, cfg.TokenTTL)
	orgIndex := orgservice.NewIndex(stores.org, redisClient, log)
	filter := visibility.NewFilter(orgIndex, log, m)
	documents := docservice.New(stores.documents, log)
	aoi := aoiservice.New(stores.aoi, filter, documents, recorder, log, m)
	identity := identityservice.New(stores.users, tokens, cfg.BcryptCost, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.ClientMetadata,
		middleware.Latency(m),
		middleware.Timeout(30*time.Second),
		cors.AllowAll().Handler,
		middleware.SessionUser(tokens, log),
	)

	health.New(sqlDB, redisClient).Register(router)
	orghandler.New(orgIndex, log).Register(router)
	aoihandler.New(aoi, log).Register(router)
	dochandler.New(documents, log).Register(router)
	identityhandler.New(identity, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	ln, port, err := httpserver.Listen(cfg.Port, cfg.PortFallbackSpan)
	if err != nil {
		return err
	}
	srv := httpserver.New(router)

	log.Info("starting aoi console", "port", port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// storeSet collects the per-domain stores, all backed by the same engine.
type storeSet struct {
	org       orgstore.Store
	aoi       aoistore.Store
	documents docstore.Store
	users     identitystore.Store
}

func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (storeSet, *sql.DB, error) {
	if cfg.PostgresURL == "" {
		log.Warn("no postgres configured, using in-memory stores")
		return storeSet{
			org:       orgstore.NewMemory(),
			aoi:       aoistore.NewMemory(),
			documents: docstore.NewMemory(),
			users:     identitystore.NewMemory(),
		}, nil, nil
	}

	db, err := sql.Open("pgx", cfg.PostgresURL)
	if err != nil {
		return storeSet{}, nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return storeSet{}, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return storeSet{
		org:       orgstore.NewPostgres(db),
		aoi:       aoistore.NewPostgres(db),
		documents: docstore.NewPostgres(db),
		users:     identitystore.NewPostgres(db),
	}, db, nil
}

// openAuditSink picks the most durable configured sink: Kafka, then
// Postgres, then memory.
func openAuditSink(ctx context.Context, cfg config.Server, db *sql.DB, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafka(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka audit sink: %w", err)
		}
		return sink, sink.Close, nil
	}
	if db != nil {
		return audit.NewPostgres(db), func() {}, nil
	}
	log.Warn("no kafka or postgres configured, audit trail is in-memory only")
	return audit.NewMemory(), func() {}, nil
}
