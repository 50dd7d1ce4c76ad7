package http

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/inventory"
	"github.com/jhoicas/boutique-api/internal/domain"
)

// InventoryHandler expone el catálogo y el ajuste de stock.
type InventoryHandler struct {
	stock   inventory.StockAdjuster
	catalog *inventory.CatalogUseCase
	log     zerolog.Logger
	printer *message.Printer
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock inventory.StockAdjuster, catalog *inventory.CatalogUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		stock:   stock,
		catalog: catalog,
		log:     log,
		printer: message.NewPrinter(language.Spanish),
	}
}

// AdjustStock godoc
// @Summary      Ajustar stock de un producto
// @Description  Suma quantityChange (negativo = venta, positivo = reposición) de forma atómica.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                  true   "ID del producto"
// @Param        Idempotency-Key  header  string                  false  "Clave para deduplicar reintentos"
// @Param        body             body    dto.AdjustStockRequest  true   "quantityChange entero"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.InsufficientStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ConflictResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/stock [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	delta, err := in.ParseQuantityChange()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	err = h.stock.AdjustStock(c.UserContext(), id, delta)
	if err == nil {
		return c.JSON(dto.MessageResponse{Success: true, Message: "stock actualizado correctamente"})
	}

	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusBadRequest).JSON(dto.InsufficientStockResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: h.printer.Sprintf("stock insuficiente para %s (solo quedan %d)",
				insufficient.ProductID, insufficient.Available),
			Available: insufficient.Available,
			Requested: insufficient.Requested,
		})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ConflictResponse{
			Code: "CONCURRENCY_CONFLICT", Message: domain.ErrConcurrencyConflict.Error(), Retryable: true,
		})
	case errors.Is(err, domain.ErrLockTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOCK_TIMEOUT", Message: domain.ErrLockTimeout.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return internalError(c, h.log, err)
	}
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.catalog.List(c.UserContext())
	if err != nil {
		return internalError(c, h.log, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
		}
		return internalError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.catalog.Create(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id, sku, name y category son requeridos; stock y precio no pueden ser negativos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "id o SKU ya existe"})
		}
		return internalError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar inventario a CSV
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/inventory/export.csv [get]
func (h *InventoryHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.catalog.ExportCSV(c.UserContext(), &buf); err != nil {
		return internalError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("inventario.csv")
	return c.Send(buf.Bytes())
}

// Report godoc
// @Summary      Reporte PDF de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	doc, err := h.catalog.Report(c.UserContext())
	if err != nil {
		if errors.Is(err, inventory.ErrReportUnavailable) {
			return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "REPORT_UNAVAILABLE", Message: err.Error()})
		}
		return internalError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment("inventario.pdf")
	return c.Send(doc)
}
