package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/api/metrics"
	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /users — admin-created account, any valid role.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), ports.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		RawPassword: req.Password,
		Role:        domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("admin").Inc()
	return c.JSON(http.StatusCreated, user)
}

// List handles GET /users — paged listing with role/search filters.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role     query     string  false  "Filter by role"          Enums(admin, user)
// @Param        search   query     string  false  "Match against name or email"
// @Param        orderBy  query     string  false  "Sort field"              Enums(name, createdAt)
// @Param        order    query     string  false  "Sort direction"          Enums(asc, desc)
// @Param        page     query     int     false  "Page number (1-based)"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  listUsersResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.ListUsersFilter{
		Role:    domain.Role(c.QueryParam("role")),
		Search:  c.QueryParam("search"),
		OrderBy: c.QueryParam("orderBy"),
		Order:   c.QueryParam("order"),
		Page:    queryInt(c, "page"),
		Limit:   queryInt(c, "limit"),
	}

	page, err := h.userService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data: page.Users,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /users/:id. Non-admin callers may only fetch themselves.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateUserInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Email:       req.Email,
		RawPassword: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.userService.Update(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id. Deleting your own account is refused.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryInt parses an integer query parameter, returning 0 when absent or
// unparsable so services apply their own defaults.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
