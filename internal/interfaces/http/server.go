package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServerConfig opciones de la aplicación Fiber.
type ServerConfig struct {
	AppName     string
	BodyLimit   int      // bytes; 0 = 10 KB
	CORSOrigins []string // además de *.onrender.com
	Logger      zerolog.Logger
}

// NewApp crea la aplicación Fiber con el stack de middlewares común
// (recover, request id, log de peticiones, helmet y CORS).
func NewApp(cfg ServerConfig) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 10 * 1024
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    bodyLimit,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: ErrorHandler(cfg.Logger),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(cfg.Logger))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowOriginsFunc: allowRenderOrigin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: true,
	}))
	return app
}

// allowRenderOrigin acepta los despliegues en *.onrender.com.
func allowRenderOrigin(origin string) bool {
	return strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, ".onrender.com")
}
