package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

type ClientHandler struct {
	clientService ports.ClientService
}

func NewClientHandler(clientService ports.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create handles POST /clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.clientService.Create(c.Request().Context(), ports.CreateClientInput{
		CorporateReason: req.CorporateReason,
		CNPJ:            req.CNPJ,
		Name:            req.Name,
		Status:          domain.ClientStatus(req.Status),
		ConectarPlus:    req.ConectarPlus,
		AdminUserID:     req.AdminUserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// List handles GET /clients. Non-admin callers only see clients they own or
// belong to; the scoping is applied by the service.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search        query     string  false  "Match against name or CNPJ"
// @Param        status        query     string  false  "Filter by status"  Enums(active, inactive)
// @Param        conectarPlus  query     bool    false  "Filter by Conectar Plus flag"
// @Param        orderBy       query     string  false  "Sort field"        Enums(name, corporateReason, createdAt)
// @Param        order         query     string  false  "Sort direction"    Enums(asc, desc)
// @Param        page          query     int     false  "Page number (1-based)"
// @Param        limit         query     int     false  "Page size"
// @Success      200           {object}  listClientsResponse
// @Failure      401           {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.ListClientsFilter{
		Search:  c.QueryParam("search"),
		Status:  domain.ClientStatus(c.QueryParam("status")),
		OrderBy: c.QueryParam("orderBy"),
		Order:   c.QueryParam("order"),
		Page:    queryInt(c, "page"),
		Limit:   queryInt(c, "limit"),
	}
	if raw := c.QueryParam("conectarPlus"); raw != "" {
		if v, perr := strconv.ParseBool(raw); perr == nil {
			filter.ConectarPlus = &v
		}
	}

	page, err := h.clientService.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listClientsResponse{
		Data: page.Clients,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// UserOptions handles GET /clients/users-options — the admin-user dropdown
// source for the client form.
//
// @Summary      List admin users for client assignment
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userOptionsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /clients/users-options [get]
func (h *ClientHandler) UserOptions(c echo.Context) error {
	options, err := h.clientService.UserOptions(c.Request().Context(), ports.ListUsersFilter{
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userOptionsResponse{Data: options})
}

// Get handles GET /clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  domain.Client
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	client, err := h.clientService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Update handles PATCH /clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateClientInput{
		ID:              c.Param("id"),
		CorporateReason: req.CorporateReason,
		CNPJ:            req.CNPJ,
		Name:            req.Name,
		ConectarPlus:    req.ConectarPlus,
	}
	if req.Status != nil {
		status := domain.ClientStatus(*req.Status)
		in.Status = &status
	}

	client, err := h.clientService.Update(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  string  true  "Client ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clientService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddUser handles POST /clients/:id/users/:userId — associates an account
// with the client.
//
// @Summary      Add a user to a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id      path  string  true  "Client ID"
// @Param        userId  path  string  true  "User ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /clients/{id}/users/{userId} [post]
func (h *ClientHandler) AddUser(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.clientService.AddUser(c.Request().Context(), actor, c.Param("id"), c.Param("userId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveUser handles DELETE /clients/:id/users/:userId. The designated
// admin-owner can never be removed.
//
// @Summary      Remove a user from a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id      path  string  true  "Client ID"
// @Param        userId  path  string  true  "User ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /clients/{id}/users/{userId} [delete]
func (h *ClientHandler) RemoveUser(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.clientService.RemoveUser(c.Request().Context(), actor, c.Param("id"), c.Param("userId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
