package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/application/report"
	"github.com/jhoicas/pos-ipv/internal/application/usecase"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ipv/internal/interfaces/http"
	"github.com/jhoicas/pos-ipv/pkg/config"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()

	var txRunner inventory.TxRunner
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		if cfg.DB.AutoMigrate {
			if err := migrate(cfg.DB, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
	default:
		log.Warn().Msg("sin base de datos configurada: los datos viven en memoria y se pierden al reiniciar")
		txRunner = memory.NewStore()
	}
	txRunner = inventory.WithTimeout(txRunner, cfg.Inventory.TxTimeout)

	opts := inventory.Options{
		Location:         loc,
		CheckStockOnSale: cfg.Inventory.CheckStockOnSale,
		Logger:           log,
	}
	// report.Cache nil = sin cache; no asignar un *ReportCache nil a la interfaz.
	var reportCache report.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar redis")
			}
		}()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; el cache fallará hasta que vuelva")
		}
		rc := cache.NewReportCache(client, cfg.Redis.ReportTTL)
		reportCache = rc
		opts.Invalidator = rc
	}

	jwtCfg := usecase.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}
	userUC := usecase.NewUserUseCase(txRunner, jwtCfg)
	if cfg.DB.Driver == config.DriverMemory {
		bootstrapDev(ctx, userUC, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleUC:       inventory.NewSaleUseCase(txRunner, opts),
		PurchaseUC:   inventory.NewPurchaseUseCase(txRunner, opts),
		AdjustmentUC: inventory.NewAdjustmentUseCase(txRunner, opts),
		TransferUC:   inventory.NewTransferUseCase(txRunner, opts),
		ShiftUC:      inventory.NewShiftUseCase(txRunner, opts),
		LedgerUC:     inventory.NewLedgerAuditUseCase(txRunner, opts),
		IPVUC:        report.NewIPVUseCase(txRunner, reportCache, loc, log),
		ProductUC:    usecase.NewProductUseCase(txRunner, opts.Invalidator, log),
		LocationUC:   usecase.NewLocationUseCase(txRunner),
		UserUC:       userUC,
		JWTSecret:    cfg.JWT.Secret,
		Logger:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrate(db config.DBConfig, log *logger.Logger) error {
	m, err := postgres.NewMigrator(db.ConnectionString(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()
	return m.Up()
}

// bootstrapDev crea una ubicación con un usuario por rol para probar la API en memoria.
func bootstrapDev(ctx context.Context, users *usecase.UserUseCase, log *logger.Logger) {
	tokens, err := users.Bootstrap(ctx, "Principal")
	if err != nil {
		log.Fatal().Err(err).Msg("datos de desarrollo")
	}
	for _, t := range tokens {
		log.Info().
			Str("user_id", t.User.ID).
			Str("role", t.User.Role).
			Str("location_id", t.User.StockLocationID).
			Str("token", t.AccessToken).
			Msg("usuario de desarrollo")
	}
}
