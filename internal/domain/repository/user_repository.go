package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create devuelve domain.ErrUsernameTaken si el username ya existe.
	Create(ctx context.Context, user *entity.User) error
	// FindByUsername devuelve (nil, nil) si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
