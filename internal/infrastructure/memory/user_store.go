package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// UserStore usuarios en memoria indexados por username.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

// NewUserStore crea un UserStore vacío.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]entity.User)}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	s.users[user.Username] = *user
	return nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
