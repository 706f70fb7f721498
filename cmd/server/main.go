package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"autoriza/internal/audit"
	"autoriza/internal/authorization"
	"autoriza/internal/authorization/handler"
	"autoriza/internal/authorization/identifier"
	"autoriza/internal/authorization/metrics"
	"autoriza/internal/authorization/notification"
	"autoriza/internal/authorization/policy"
	"autoriza/internal/authorization/ports"
	"autoriza/internal/authorization/store"
	"autoriza/internal/jwttoken"
	"autoriza/internal/platform/config"
	"autoriza/internal/platform/httpserver"
	"autoriza/internal/platform/kafka"
	"autoriza/internal/platform/logger"
	redisplatform "autoriza/internal/platform/redis"
	httptransport "autoriza/internal/transport/http"
	id "autoriza/pkg/domain"
)

// main wires the engine's dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	caseStore, dossierStore, auditStore, cleanupStores, err := buildStores(ctx, cfg.Postgres)
	if err != nil {
		fatal(log, "store setup failed", err)
	}
	defer cleanupStores()

	generator, cleanupRedis, err := buildGenerator(cfg.Redis)
	if err != nil {
		fatal(log, "identifier generator setup failed", err)
	}
	defer cleanupRedis()

	recorder := audit.NewRecorder(cfg.AuditBuffer, log)
	worker := audit.NewWorker(auditStore, recorder.Inbox(), log)
	go func() {
		if err := worker.Run(ctx); err != nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	opts := []authorization.Option{
		authorization.WithLogger(log),
		authorization.WithMetrics(metrics.New()),
		authorization.WithAuditRecorder(recorder),
		authorization.WithPolicy(buildPolicy(cfg.Policy)),
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := kafka.NewPublisher(ctx, cfg.Kafka)
		if err != nil {
			fatal(log, "kafka publisher setup failed", err)
		}
		defer publisher.Close()
		opts = append(opts, authorization.WithEventPublisher(publisher))
	} else {
		log.Warn("no kafka brokers configured, decision events will not be published")
	}

	service, err := authorization.NewService(caseStore, dossierStore, generator, notification.NewSelector(nil), opts...)
	if err != nil {
		fatal(log, "engine setup failed", err)
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "autoriza", "autoriza")
	router := httptransport.NewRouter(handler.New(service, caseStore, log), tokens, log)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting autoriza", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
}

// buildStores returns postgres-backed stores when a URL is configured and
// in-memory ones otherwise. The schema statements are idempotent.
func buildStores(ctx context.Context, cfg config.Postgres) (ports.CaseStore, ports.DossierStore, audit.Store, func(), error) {
	if cfg.URL == "" {
		return store.NewInMemoryCaseStore(), store.NewInMemoryDossierStore(), audit.NewInMemoryStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if _, err := pool.Exec(ctx, store.Schema); err != nil {
		pool.Close()
		return nil, nil, nil, nil, err
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, err
	}
	if _, err := db.ExecContext(ctx, audit.Schema); err != nil {
		pool.Close()
		db.Close()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = db.Close()
	}
	return store.NewPostgresCaseStore(pool), store.NewPostgresDossierStore(pool), audit.NewPostgresStore(db), cleanup, nil
}

// buildGenerator allocates authorization numbers from redis when configured,
// falling back to the in-process allocator for single-instance deployments.
func buildGenerator(cfg config.Redis) (*identifier.Generator, func(), error) {
	client, err := redisplatform.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		gen, err := identifier.NewGenerator(identifier.NewInMemorySequence(), identifier.NewInMemoryRegistry())
		return gen, func() {}, err
	}

	gen, err := identifier.NewGenerator(identifier.NewRedisSequence(client.Client), identifier.NewRedisRegistry(client.Client))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return gen, func() { _ = client.Close() }, nil
}

func buildPolicy(cfg config.Policy) policy.Config {
	pol := policy.Default()
	if cfg.AuditThresholdCents > 0 {
		pol.AuditThreshold = id.Cents(cfg.AuditThresholdCents)
	}
	if cfg.WaitingPeriodDays > 0 {
		period := time.Duration(cfg.WaitingPeriodDays) * policy.Day
		for t := range pol.WaitingPeriods {
			pol.WaitingPeriods[t] = period
		}
	}
	return pol
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
