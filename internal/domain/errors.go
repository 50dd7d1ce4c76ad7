package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrUsernameTaken       = errors.New("el usuario ya existe")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia: el stock fue modificado por otra transacción, reintente")
	ErrLockTimeout         = errors.New("tiempo de espera agotado para ajustar el stock")
)

// InsufficientStockError detalla un ajuste rechazado porque el stock quedaría negativo.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s (disponible %d, cambio solicitado %d)",
		ErrInsufficientStock.Error(), e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
