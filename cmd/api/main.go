package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/bodega-api/internal/interfaces/http"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas y cabeceras fuera de la unidad atómica)
	batchRepo := postgres.NewBatchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	employees := postgres.NewEmployeeDirectory(pool)
	txRunner := postgres.NewTxRunner(pool)

	maxRetries := cfg.Inventory.TxMaxRetries
	allocateUC := inventory.NewAllocateStockUseCase(txRunner, batchRepo, productRepo, locationRepo)
	receiveUC := inventory.NewReceiveStockUseCase(txRunner, productRepo, locationRepo, employees, log)
	consumeUC := inventory.NewConsumeStockUseCase(txRunner, productRepo, locationRepo, employees, maxRetries, log)
	transferUC := inventory.NewExecuteTransferUseCase(txRunner, transferRepo, productRepo, locationRepo, employees, maxRetries, log)
	reconcileUC := inventory.NewReconcileUseCase(txRunner, productRepo, locationRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, cfg.Inventory.UncategorizedName)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AllocateUC:  allocateUC,
		ReceiveUC:   receiveUC,
		ConsumeUC:   consumeUC,
		TransferUC:  transferUC,
		ReconcileUC: reconcileUC,
		ProductUC:   productUC,
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
