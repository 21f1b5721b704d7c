package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/core/domain"
)

// Operation names a protected API action. Every authenticated route is
// registered under exactly one operation.
type Operation string

const (
	OpUserCreate Operation = "user:create"
	OpUserList   Operation = "user:list"
	OpUserGet    Operation = "user:get"
	OpUserUpdate Operation = "user:update"
	OpUserDelete Operation = "user:delete"

	OpClientCreate       Operation = "client:create"
	OpClientList         Operation = "client:list"
	OpClientGet          Operation = "client:get"
	OpClientUpdate       Operation = "client:update"
	OpClientDelete       Operation = "client:delete"
	OpClientMemberAdd    Operation = "client:member_add"
	OpClientMemberRemove Operation = "client:member_remove"
	OpClientUserOptions  Operation = "client:user_options"

	OpProfileGet    Operation = "profile:get"
	OpProfileUpdate Operation = "profile:update"
)

// policy is the single authorization table: which roles may perform each
// operation. Routes absent from the table are denied, so forgetting to
// register a new operation fails closed instead of open.
//
// Finer-than-role checks (own record only, membership scoping) live in the
// services; this table gates the coarse role requirement.
var policy = map[Operation][]domain.Role{
	OpUserCreate: {domain.RoleAdmin},
	OpUserList:   {domain.RoleAdmin},
	OpUserGet:    {domain.RoleAdmin, domain.RoleUser},
	OpUserUpdate: {domain.RoleAdmin, domain.RoleUser},
	OpUserDelete: {domain.RoleAdmin},

	OpClientCreate:       {domain.RoleAdmin},
	OpClientList:         {domain.RoleAdmin, domain.RoleUser},
	OpClientGet:          {domain.RoleAdmin, domain.RoleUser},
	OpClientUpdate:       {domain.RoleAdmin, domain.RoleUser},
	OpClientDelete:       {domain.RoleAdmin},
	OpClientMemberAdd:    {domain.RoleAdmin},
	OpClientMemberRemove: {domain.RoleAdmin},
	OpClientUserOptions:  {domain.RoleAdmin},

	OpProfileGet:    {domain.RoleAdmin, domain.RoleUser},
	OpProfileUpdate: {domain.RoleAdmin, domain.RoleUser},
}

// Authorize enforces the policy table for one operation. It expects the Auth
// middleware to have run first and populated the "role" context key.
func Authorize(op Operation) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{})
	for _, r := range policy[op] {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
