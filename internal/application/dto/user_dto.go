package dto

// CredentialsRequest entrada para registro y login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterResponse salida de POST /api/auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}
