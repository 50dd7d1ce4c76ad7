package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appdata "github.com/jhoicas/boutique-api/internal/application/data"
)

// DataHandler expone las lecturas del panel (clientes, pedidos, facturas, producción y gastos).
type DataHandler struct {
	uc  *appdata.DataUseCase
	log zerolog.Logger
}

// NewDataHandler construye el handler.
func NewDataHandler(uc *appdata.DataUseCase, log zerolog.Logger) *DataHandler {
	return &DataHandler{uc: uc, log: log}
}

func listJSON[T any](c *fiber.Ctx, log zerolog.Logger, fn func(context.Context) ([]T, error)) error {
	list, err := fn(c.UserContext())
	if err != nil {
		return internalError(c, log, err)
	}
	if list == nil {
		list = []T{}
	}
	return c.JSON(list)
}

// Customers godoc
// @Summary      Listar clientes
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/data/customers [get]
func (h *DataHandler) Customers(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.Customers) }

// Orders godoc
// @Summary      Listar pedidos con sus líneas
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/data/orders [get]
func (h *DataHandler) Orders(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.Orders) }

// Invoices godoc
// @Summary      Listar facturas con desglose GST
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/data/invoices [get]
func (h *DataHandler) Invoices(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.Invoices) }

// RawMaterials godoc
// @Summary      Listar materias primas
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RawMaterialResponse
// @Router       /api/data/raw-materials [get]
func (h *DataHandler) RawMaterials(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.RawMaterials) }

// Staff godoc
// @Summary      Listar personal
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StaffResponse
// @Router       /api/data/staff [get]
func (h *DataHandler) Staff(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.Staff) }

// JobCards godoc
// @Summary      Listar órdenes de producción
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.JobCardResponse
// @Router       /api/data/job-cards [get]
func (h *DataHandler) JobCards(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.JobCards) }

// Expenses godoc
// @Summary      Listar gastos
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpenseResponse
// @Router       /api/data/expenses [get]
func (h *DataHandler) Expenses(c *fiber.Ctx) error { return listJSON(c, h.log, h.uc.Expenses) }
