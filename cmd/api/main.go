package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/boutique-api/docs"
	"github.com/jhoicas/boutique-api/internal/application/auth"
	appdata "github.com/jhoicas/boutique-api/internal/application/data"
	"github.com/jhoicas/boutique-api/internal/application/inventory"
	infrakafka "github.com/jhoicas/boutique-api/internal/infrastructure/kafka"
	infrapdf "github.com/jhoicas/boutique-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/boutique-api/internal/infrastructure/redis"
	"github.com/jhoicas/boutique-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/boutique-api/internal/interfaces/http"
	"github.com/jhoicas/boutique-api/pkg/config"
	"github.com/jhoicas/boutique-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg.DB, true)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.DB.AdminUsername != "" {
		if err := authUC.EnsureAdmin(ctx, cfg.DB.AdminUsername, cfg.DB.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("crear usuario administrador")
		}
	}

	// Eventos de stock: Kafka es opcional; sin brokers el servicio no publica.
	stockOpts := []inventory.Option{
		inventory.WithLogger(log.Component("stock")),
		inventory.WithLockTimeout(cfg.Inventory.LockTimeout),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := infrakafka.NewStockPublisher(
			infrakafka.NewWriter(cfg.Kafka.Topic, cfg.Kafka.Brokers...),
			log.Component("kafka"),
		)
		defer publisher.Close()
		stockOpts = append(stockOpts, inventory.WithPublisher(publisher))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de eventos activa")
	}
	stockSvc := inventory.NewStockService(backend.Stock, stockOpts...)
	catalogUC := inventory.NewCatalogUseCase(backend.Products, backend.Stock, infrapdf.NewStockReportGenerator(cfg.App.Name))
	dataUC := appdata.NewDataUseCase(backend.Data)

	deps := httpRouter.RouterDeps{
		Stock:               stockSvc,
		Catalog:             catalogUC,
		AuthUC:              authUC,
		DataUC:              dataUC,
		JWTSecret:           cfg.JWT.Secret,
		HealthCheck:         backend.Ping,
		AuthRateLimitMax:    cfg.HTTP.AuthRateLimitMax,
		AuthRateLimitWindow: cfg.HTTP.AuthRateLimitWindow,
		Logger:              log.Component("http"),
	}

	// Idempotency-Key: Redis es opcional.
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		deps.Idempotency = infraredis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
	}

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:     cfg.App.Name,
		BodyLimit:   cfg.HTTP.BodyLimit,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		docs.SwaggerInfo.Host = cfg.HTTP.Addr()
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")

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
