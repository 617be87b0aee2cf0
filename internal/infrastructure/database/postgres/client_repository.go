package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"transport-manager/internal/domain/client"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type ClientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	if c.RegisteredAt.IsZero() {
		c.RegisteredAt = time.Now()
	}

	dbModel := toClientModel(c)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return client.ErrClientAlreadyExists
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	c.CreatedAt = dbModel.CreatedAt
	c.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var dbModel models.ClientModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, client.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return toClientEntity(&dbModel), nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	c.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"last_name":  c.LastName,
			"first_name": c.FirstName,
			"email":      c.Email,
			"phone":      c.Phone,
			"address":    c.Address,
			"updated_at": c.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return client.ErrClientNotFound
	}

	return nil
}

func (r *ClientRepository) List(ctx context.Context, page, pageSize int) ([]*client.Client, int64, error) {
	var dbModels []models.ClientModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.ClientModel{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("last_name ASC, first_name ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*client.Client, len(dbModels))
	for i := range dbModels {
		clients[i] = toClientEntity(&dbModels[i])
	}

	return clients, total, nil
}

func (r *ClientRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to adjust client balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return client.ErrClientNotFound
	}

	return nil
}

func (r *ClientRepository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set client balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return client.ErrClientNotFound
	}

	return nil
}

// Helper functions to convert between domain entities and database models
func toClientModel(c *client.Client) *models.ClientModel {
	return &models.ClientModel{
		ID:           c.ID,
		LastName:     c.LastName,
		FirstName:    c.FirstName,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		Balance:      c.Balance,
		RegisteredAt: c.RegisteredAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toClientEntity(m *models.ClientModel) *client.Client {
	return &client.Client{
		ID:           m.ID,
		LastName:     m.LastName,
		FirstName:    m.FirstName,
		Email:        m.Email,
		Phone:        m.Phone,
		Address:      m.Address,
		Balance:      m.Balance,
		RegisteredAt: m.RegisteredAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
