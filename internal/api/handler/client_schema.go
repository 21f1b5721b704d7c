package handler

import (
	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

// --- Clients ---

type createClientRequest struct {
	CorporateReason string `json:"corporateReason" validate:"required"`
	CNPJ            string `json:"cnpj"            validate:"required"`
	Name            string `json:"name"            validate:"required"`
	Status          string `json:"status"          validate:"omitempty,oneof=active inactive"`
	ConectarPlus    bool   `json:"conectarPlus"`
	AdminUserID     string `json:"adminUserId"     validate:"required"`
}

type updateClientRequest struct {
	CorporateReason *string `json:"corporateReason" validate:"omitempty,min=1"`
	CNPJ            *string `json:"cnpj"            validate:"omitempty,min=1"`
	Name            *string `json:"name"            validate:"omitempty,min=1"`
	Status          *string `json:"status"          validate:"omitempty,oneof=active inactive"`
	ConectarPlus    *bool   `json:"conectarPlus"`
}

type listClientsResponse struct {
	Data       []domain.Client    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type userOptionsResponse struct {
	Data []ports.UserOption `json:"data"`
}
