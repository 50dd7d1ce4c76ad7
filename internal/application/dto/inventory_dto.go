package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantityChange magnitud máxima aceptada para un ajuste individual.
const MaxQuantityChange = 1_000_000_000

var maxQuantityChange = decimal.NewFromInt(MaxQuantityChange)

// AdjustStockRequest body para POST /api/inventory/:id/stock.
// QuantityChange se conserva crudo para rechazar textos, nulos y decimales antes de
// entrar a la sección crítica (ver ParseQuantityChange).
type AdjustStockRequest struct {
	QuantityChange json.RawMessage `json:"quantityChange" swaggertype:"integer"`
}

// ParseQuantityChange valida que quantityChange sea un entero con |valor| <= MaxQuantityChange.
// Acepta notaciones equivalentes a un entero (5.0, 1e2) y rechaza strings ("5"), null,
// fracciones y valores fuera de rango.
func (r AdjustStockRequest) ParseQuantityChange() (int64, error) {
	raw := bytes.TrimSpace(r.QuantityChange)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("quantityChange es requerido")
	}
	if raw[0] == '"' {
		return 0, errors.New("quantityChange debe ser numérico")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.New("quantityChange debe ser numérico")
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, errors.New("quantityChange debe ser numérico")
	}
	if !d.IsInteger() {
		return 0, errors.New("quantityChange debe ser un entero")
	}
	if d.Abs().GreaterThan(maxQuantityChange) {
		return 0, fmt.Errorf("quantityChange fuera de rango (máximo %d)", MaxQuantityChange)
	}
	return d.IntPart(), nil
}

// InsufficientStockResponse error 400 con el detalle del stock disponible.
type InsufficientStockResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available int64  `json:"available"`
	Requested int64  `json:"requested"`
}

// ConflictResponse error 409 de concurrencia; el cliente puede reintentar el mismo cambio.
type ConflictResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// CreateProductRequest entrada para crear un producto (version inicia en 0).
type CreateProductRequest struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	StockLevel int64           `json:"stockLevel"`
	Price      decimal.Decimal `json:"price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	StockLevel int64           `json:"stockLevel"`
	Price      decimal.Decimal `json:"price"`
	Version    int64           `json:"version"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
