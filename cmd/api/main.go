package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/infrastructure/itempath"
	infrapdf "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/infrastructure/pdf"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/infrastructure/postgres"
	httpRouter "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/interfaces/http"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/pkg/config"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	orderRepo := postgres.NewCountOrderRepository(pool)
	runRepo := postgres.NewRunRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cliente ItemPath — fuente de inventario siempre; como submitter solo si
	// hay credenciales. Sin ellas el motor genera y persiste órdenes pero no
	// las envía (modo desarrollo).
	itemPathClient := itempath.NewClient(
		cfg.ItemPath.BaseURL,
		cfg.ItemPath.AccessToken,
		cfg.ItemPath.Timeout(),
		cfg.ItemPath.PageSize,
	)
	var submitter appcc.OrderSubmitter
	if cfg.ItemPath.AccessToken != "" {
		submitter = itemPathClient
	} else {
		log.Warn().Msg("sin ITEMPATH_API_KEY: las órdenes no se enviarán a ItemPath")
	}

	coordinator := appcc.NewCoordinator(
		itemPathClient, txRunner, orderRepo, runRepo, submitter,
		appcc.Options{
			DefaultMaxOrders: cfg.CycleCount.MaxOrders,
			Cooldown:         cfg.CycleCount.Cooldown(),
			Priority:         cfg.CycleCount.Priority,
		},
		log,
	)

	sheetGenerator := infrapdf.NewCountSheetGenerator()

	var scheduler *appcc.Scheduler
	if cfg.Schedule.Enabled {
		scheduler = appcc.NewScheduler(coordinator, cfg.Schedule.Hour, cfg.Schedule.Minute, 0, log)
		scheduler.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cycle Count API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator: coordinator,
		Runs:        runRepo,
		Orders:      orderRepo,
		Sheets:      sheetGenerator,
		JWTSecret:   cfg.Auth.JWTSecret,
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

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
