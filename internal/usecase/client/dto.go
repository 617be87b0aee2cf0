package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainClient "transport-manager/internal/domain/client"
)

type CreateClientRequest struct {
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Address   string `json:"address" validate:"omitempty,max=500"`
}

type UpdateClientRequest struct {
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

type ClientResponse struct {
	ID        uuid.UUID       `json:"id"`
	LastName  string          `json:"last_name"`
	FirstName string          `json:"first_name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Balance   decimal.Decimal `json:"balance"`

	RegisteredAt time.Time `json:"registered_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToClientResponse(c *domainClient.Client) *ClientResponse {
	return &ClientResponse{
		ID:           c.ID,
		LastName:     c.LastName,
		FirstName:    c.FirstName,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		Balance:      c.Balance,
		RegisteredAt: c.RegisteredAt,
		CreatedAt:    c.CreatedAt,
	}
}
