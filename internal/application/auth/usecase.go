package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/pkg/jwt"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	cost     int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithBcryptCost ajusta el costo de bcrypt (las pruebas usan bcrypt.MinCost).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

func validateCredentials(in dto.CredentialsRequest) (dto.CredentialsRequest, error) {
	in.Username = strings.TrimSpace(in.Username)
	if len(in.Username) < minUsernameLen || len(in.Password) < minPasswordLen {
		return in, domain.ErrInvalidInput
	}
	return in, nil
}

// Register crea un usuario con rol "user": hashea password con bcrypt y persiste.
// Devuelve ErrUsernameTaken si el username ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.CredentialsRequest) (*dto.UserResponse, error) {
	in, err := validateCredentials(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	return uc.create(ctx, in, entity.RoleUser)
}

// EnsureAdmin crea el usuario administrador si todavía no existe.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, username, password string) error {
	in, err := validateCredentials(dto.CredentialsRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	existing, err := uc.userRepo.FindByUsername(ctx, in.Username)
	if err != nil || existing != nil {
		return err
	}
	_, err = uc.create(ctx, in, entity.RoleAdmin)
	return err
}

func (uc *AuthUseCase) create(ctx context.Context, in dto.CredentialsRequest, role string) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.CredentialsRequest) (*dto.LoginResponse, error) {
	in, err := validateCredentials(in)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}
