package domain

import (
	"errors"
	"time"
)

// ClientStatus represents the commercial state of a client record.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

var ErrClientNotFound = errors.New("client not found")
var ErrCNPJTaken = errors.New("cnpj already in use")
var ErrOwnerNotAdmin = errors.New("admin user must have admin role")
var ErrAlreadyMember = errors.New("user is already associated with this client")
var ErrClientOwner = errors.New("cannot remove admin user from client")

// Client is a tenant record. AdminUserID is the designated admin-owner;
// UserIDs is the associated-users relation. A non-admin caller may only see
// clients where they appear in one of the two.
type Client struct {
	ID              string       `json:"id"`
	CorporateReason string       `json:"corporate_reason"`
	CNPJ            string       `json:"cnpj"`
	Name            string       `json:"name"`
	Status          ClientStatus `json:"status"`
	ConectarPlus    bool         `json:"conectar_plus"`
	AdminUserID     string       `json:"admin_user_id"`
	UserIDs         []string     `json:"user_ids"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// HasMember reports whether userID appears in the associated-users relation.
func (c *Client) HasMember(userID string) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
