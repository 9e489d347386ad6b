package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type signUpRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
	Role     string `json:"role"     validate:"required,oneof=user admin"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=6,max=20"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=20"`
}

// userResponse is the password-free record view shared by auth and user
// endpoints. Intentionally separate from the domain type so the JSON
// contract is not coupled to internal changes.
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}
