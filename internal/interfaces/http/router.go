package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"

	appauth "github.com/jhoicas/boutique-api/internal/application/auth"
	appdata "github.com/jhoicas/boutique-api/internal/application/data"
	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/inventory"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stock     inventory.StockAdjuster
	Catalog   *inventory.CatalogUseCase
	AuthUC    *appauth.AuthUseCase
	DataUC    *appdata.DataUseCase
	JWTSecret string
	// Idempotency es opcional; sin Redis las peticiones con Idempotency-Key no se deduplican.
	Idempotency idempotencyStore
	// HealthCheck es opcional (ej. ping a la base de datos).
	HealthCheck         func(ctx context.Context) error
	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration
	Logger              zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.HealthCheck).Health)

	api := app.Group("/api")

	// Auth (público, con rate limit)
	authGroup := api.Group("/auth", authRateLimiter(deps.AuthRateLimitMax, deps.AuthRateLimitWindow))
	authHandler := NewAuthHandler(deps.AuthUC, deps.Logger)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventory (protegido); export.csv y report.pdf antes de /:id
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Stock, deps.Catalog, deps.Logger)
	inv.Get("/", invHandler.List)
	inv.Get("/export.csv", invHandler.ExportCSV)
	inv.Get("/report.pdf", invHandler.Report)
	inv.Get("/:id", invHandler.GetByID)
	inv.Post("/", RequireRole(entity.RoleAdmin), invHandler.Create)
	if deps.Idempotency != nil {
		inv.Post("/:id/stock", Idempotency(deps.Idempotency, deps.Logger), invHandler.AdjustStock)
	} else {
		inv.Post("/:id/stock", invHandler.AdjustStock)
	}

	// Data (protegido, solo lectura)
	data := protected.Group("/data")
	dataHandler := NewDataHandler(deps.DataUC, deps.Logger)
	data.Get("/customers", dataHandler.Customers)
	data.Get("/orders", dataHandler.Orders)
	data.Get("/invoices", dataHandler.Invoices)
	data.Get("/raw-materials", dataHandler.RawMaterials)
	data.Get("/staff", dataHandler.Staff)
	data.Get("/job-cards", dataHandler.JobCards)
	data.Get("/expenses", dataHandler.Expenses)
}

func authRateLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados intentos, intente más tarde"})
		},
	})
}
