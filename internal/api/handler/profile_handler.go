package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/core/ports"
)

type ProfileHandler struct {
	userService    ports.UserService
	profileService ports.ProfileService
}

func NewProfileHandler(userService ports.UserService, profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{userService: userService, profileService: profileService}
}

type updateProfileRequest struct {
	CurrentPassword string  `json:"currentPassword" validate:"required"`
	Name            *string `json:"name"            validate:"omitempty,min=1"`
	Email           *string `json:"email"           validate:"omitempty,email"`
	NewPassword     *string `json:"newPassword"     validate:"omitempty,min=6"`
}

// Get handles GET /profile — the authenticated account's own record.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /profile. The current password must verify before any
// change is applied; the role can never be changed here.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile changes"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.profileService.Update(c.Request().Context(), actor.ID, ports.ProfileUpdateInput{
		CurrentPassword: req.CurrentPassword,
		Name:            req.Name,
		Email:           req.Email,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
