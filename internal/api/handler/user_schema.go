package handler

import "github.com/conectar/admin-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// --- Users ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=admin user"`
}

// updateUserRequest carries optional field changes; absent fields are left
// untouched.
type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type listUsersResponse struct {
	Data       []domain.User      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
