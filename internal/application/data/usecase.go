// Package data expone las lecturas de los tableros (clientes, pedidos, facturación,
// producción y gastos) ya mapeadas a DTO.
package data

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// DataUseCase casos de uso de solo lectura.
type DataUseCase struct {
	repo repository.DataRepository
}

// NewDataUseCase construye el caso de uso.
func NewDataUseCase(repo repository.DataRepository) *DataUseCase {
	return &DataUseCase{repo: repo}
}

func mapAll[E any, D any](list []*E, fn func(*E) D) []D {
	out := make([]D, 0, len(list))
	for _, e := range list {
		out = append(out, fn(e))
	}
	return out
}

func (uc *DataUseCase) Customers(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(c *entity.Customer) dto.CustomerResponse {
		return dto.CustomerResponse{
			ID:            c.ID,
			Name:          c.Name,
			Email:         c.Email,
			Phone:         c.Phone,
			BranchID:      c.BranchID,
			VIPStatus:     c.VIPStatus,
			LoyaltyPoints: c.LoyaltyPoints,
			JoinDate:      c.CreatedAt,
		}
	}), nil
}

func (uc *DataUseCase) Orders(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(o *entity.Order) dto.OrderResponse {
		items := make([]dto.OrderItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, dto.OrderItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return dto.OrderResponse{
			ID:          o.ID,
			CustomerID:  o.CustomerID,
			BranchID:    o.BranchID,
			OrderDate:   o.OrderDate,
			Status:      o.Status,
			TotalAmount: o.TotalAmount,
			Items:       items,
		}
	}), nil
}

// Invoices incluye el desglose de GST calculado sobre el monto.
func (uc *DataUseCase) Invoices(ctx context.Context) ([]dto.InvoiceResponse, error) {
	list, err := uc.repo.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(i *entity.Invoice) dto.InvoiceResponse {
		return dto.InvoiceResponse{
			ID:            i.ID,
			OrderID:       i.OrderID,
			CustomerID:    i.CustomerID,
			BranchID:      i.BranchID,
			TotalAmount:   i.Amount,
			PaymentStatus: i.Status,
			InvoiceDate:   i.CreatedAt,
			DueDate:       i.DueDate,
			TaxBreakdown:  dto.TaxBreakdown{GST: i.GST()},
		}
	}), nil
}

func (uc *DataUseCase) RawMaterials(ctx context.Context) ([]dto.RawMaterialResponse, error) {
	list, err := uc.repo.ListRawMaterials(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(m *entity.RawMaterial) dto.RawMaterialResponse {
		return dto.RawMaterialResponse{
			ID:           m.ID,
			Name:         m.Name,
			Type:         m.Type,
			StockLevel:   m.StockLevel,
			Unit:         m.Unit,
			ReorderLevel: m.ReorderLevel,
			CostPerUnit:  m.CostPerUnit,
			Supplier:     m.Supplier,
			NeedsReorder: m.BelowReorderLevel(),
		}
	}), nil
}

func (uc *DataUseCase) Staff(ctx context.Context) ([]dto.StaffResponse, error) {
	list, err := uc.repo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(s *entity.Staff) dto.StaffResponse {
		return dto.StaffResponse{
			ID:                s.ID,
			Name:              s.Name,
			Role:              s.Role,
			BranchID:          s.BranchID,
			Contact:           s.Contact,
			Status:            s.Status,
			PerformanceRating: s.PerformanceRating,
		}
	}), nil
}

func (uc *DataUseCase) JobCards(ctx context.Context) ([]dto.JobCardResponse, error) {
	list, err := uc.repo.ListJobCards(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(c *entity.JobCard) dto.JobCardResponse {
		return dto.JobCardResponse{
			ID:               c.ID,
			OrderID:          c.OrderID,
			AssignedTailorID: c.AssignedTailorID,
			Status:           c.Status,
			Stage:            c.Stage,
			StartDate:        c.StartDate,
			DueDate:          c.DueDate,
			Notes:            c.Notes,
		}
	}), nil
}

func (uc *DataUseCase) Expenses(ctx context.Context) ([]dto.ExpenseResponse, error) {
	list, err := uc.repo.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(list, func(e *entity.Expense) dto.ExpenseResponse {
		return dto.ExpenseResponse{
			ID:             e.ID,
			Category:       e.Category,
			Amount:         e.Amount,
			Date:           e.Date,
			Description:    e.Description,
			BranchID:       e.BranchID,
			GSTInputCredit: e.GSTInputCredit,
		}
	}), nil
}
