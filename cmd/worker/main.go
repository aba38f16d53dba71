package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/jobs"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ipv/pkg/config"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name + "-worker"})

	// El almacén en memoria vive dentro del proceso de la API; el worker sólo tiene sentido con PostgreSQL.
	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("db_driver", cfg.DB.Driver).Msg("el worker requiere PostgreSQL")
	}
	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar redis")
		}
	}()

	txRunner := inventory.WithTimeout(postgres.NewTxRunner(pool), cfg.Inventory.TxTimeout)
	audit := inventory.NewLedgerAuditUseCase(txRunner, inventory.Options{
		Location:    loc,
		Logger:      log,
		Invalidator: cache.NewReportCache(redisClient, cfg.Redis.ReportTTL),
	})
	verifyJob := jobs.NewLedgerVerifyJob(audit, log)

	verifyTask, err := jobs.NewLedgerVerifyTask(cfg.Worker.LedgerAutoRepair)
	if err != nil {
		log.Fatal().Err(err).Msg("crear tarea ledger:verify")
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Concurrency: cfg.Worker.Concurrency,
		Location:    loc,
		Logger:      log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerVerify, Handler: verifyJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.LedgerVerifyCron, Task: verifyTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Worker.LedgerVerifyCron).Msg("iniciar worker")
	}

	log.Info().
		Str("cron", cfg.Worker.LedgerVerifyCron).
		Bool("auto_repair", cfg.Worker.LedgerAutoRepair).
		Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
