package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainClient "transport-manager/internal/domain/client"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// Service implements client use cases
type Service struct {
	repo domainClient.Repository
}

func NewService(repo domainClient.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateClientRequest) (*ClientResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	c := &domainClient.Client{
		LastName:     utils.SanitizeString(req.LastName),
		FirstName:    utils.SanitizeString(req.FirstName),
		Email:        utils.SanitizeEmail(req.Email),
		Phone:        utils.SanitizePhone(req.Phone),
		Address:      utils.SanitizeText(req.Address),
		Balance:      decimal.Zero,
		RegisteredAt: time.Now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return ToClientResponse(c), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateClientRequest) (*ClientResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LastName != nil {
		c.LastName = utils.SanitizeString(*req.LastName)
	}
	if req.FirstName != nil {
		c.FirstName = utils.SanitizeString(*req.FirstName)
	}
	if req.Email != nil {
		c.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Phone != nil {
		c.Phone = utils.SanitizePhone(*req.Phone)
	}
	if req.Address != nil {
		c.Address = utils.SanitizeText(*req.Address)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return ToClientResponse(c), nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) ([]ClientResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	clients, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *ToClientResponse(c))
	}
	return out, total, nil
}
