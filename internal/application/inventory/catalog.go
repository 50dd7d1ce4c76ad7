package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// CatalogUseCase lecturas y alta de productos. El stock de un producto existente solo cambia
// vía StockService.
type CatalogUseCase struct {
	products repository.ProductRepository
	stock    repository.StockRepository
	report   StockReportGenerator
}

// NewCatalogUseCase construye el caso de uso. report puede ser nil si no se expone el PDF.
func NewCatalogUseCase(products repository.ProductRepository, stock repository.StockRepository, report StockReportGenerator) *CatalogUseCase {
	return &CatalogUseCase{products: products, stock: stock, report: report}
}

// List devuelve todos los productos ordenados por id.
func (uc *CatalogUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Get devuelve un producto o domain.ErrProductNotFound.
func (uc *CatalogUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.stock.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	res := toProductResponse(p)
	return &res, nil
}

// Create da de alta un producto con version 0.
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.ID == "" || in.SKU == "" || in.Name == "" || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockLevel < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:         in.ID,
		SKU:        in.SKU,
		Name:       in.Name,
		Category:   in.Category,
		StockLevel: in.StockLevel,
		Price:      in.Price,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	res := toProductResponse(p)
	return &res, nil
}

var csvHeader = []string{"id", "sku", "name", "category", "stock_level", "price", "version"}

// ExportCSV escribe el inventario completo en formato CSV.
func (uc *CatalogUseCase) ExportCSV(ctx context.Context, w io.Writer) error {
	list, err := uc.products.ListAll(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range list {
		row := []string{
			p.ID,
			p.SKU,
			p.Name,
			p.Category,
			strconv.FormatInt(p.StockLevel, 10),
			p.Price.StringFixed(2),
			strconv.FormatInt(p.Version, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ErrReportUnavailable el servidor no tiene generador de reportes configurado.
var ErrReportUnavailable = errors.New("generador de reportes no configurado")

// Report genera el PDF de valorización del inventario.
func (uc *CatalogUseCase) Report(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, ErrReportUnavailable
	}
	list, err := uc.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateStockReport(ctx, list)
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		Category:   p.Category,
		StockLevel: p.StockLevel,
		Price:      p.Price,
		Version:    p.Version,
		UpdatedAt:  p.UpdatedAt,
	}
}
