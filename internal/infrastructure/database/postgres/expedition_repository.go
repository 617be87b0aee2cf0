package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"transport-manager/internal/domain/expedition"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type ExpeditionRepository struct {
	db *DB
}

func NewExpeditionRepository(db *DB) *ExpeditionRepository {
	return &ExpeditionRepository{db: db}
}

func (r *ExpeditionRepository) Create(ctx context.Context, e *expedition.Expedition) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	if e.Status == "" {
		e.Status = expedition.StatusCreated
	}

	dbModel := toExpeditionModel(e)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return expedition.ErrDuplicateNumero
		}
		return fmt.Errorf("failed to create expedition: %w", err)
	}

	e.ID = dbModel.ID
	e.CreatedAt = dbModel.CreatedAt
	e.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *ExpeditionRepository) GetByID(ctx context.Context, id uuid.UUID) (*expedition.Expedition, error) {
	var dbModel models.ExpeditionModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, expedition.ErrExpeditionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expedition: %w", err)
	}

	return toExpeditionEntity(&dbModel), nil
}

func (r *ExpeditionRepository) GetByNumero(ctx context.Context, numero string) (*expedition.Expedition, error) {
	var dbModel models.ExpeditionModel
	err := r.db.DB.WithContext(ctx).
		Where("numero = ?", numero).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, expedition.ErrExpeditionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expedition by numero: %w", err)
	}

	return toExpeditionEntity(&dbModel), nil
}

func (r *ExpeditionRepository) Update(ctx context.Context, e *expedition.Expedition) error {
	e.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ExpeditionModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"weight":      e.Weight,
			"volume":      e.Volume,
			"description": e.Description,
			"amount":      e.Amount,
			"agent_id":    e.AgentID,
			"updated_at":  e.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update expedition: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return expedition.ErrExpeditionNotFound
	}

	return nil
}

func (r *ExpeditionRepository) List(ctx context.Context, filter *expedition.Filter, scope *expedition.Scope) ([]*expedition.Expedition, int64, error) {
	var dbModels []models.ExpeditionModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.ExpeditionModel{})

	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.ClientID != nil {
		db = db.Where("client_id = ?", *filter.ClientID)
	}
	if filter.TourID != nil {
		db = db.Where("tour_id = ?", *filter.TourID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", filter.CreatedBefore)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("numero ILIKE ? OR description ILIKE ?", search, search)
	}

	// Authorization scope, applied after user filters so it can never be
	// widened by them.
	if scope != nil {
		if scope.AgentID != nil {
			db = db.Where("agent_id = ?", *scope.AgentID)
		}
		if scope.DriverID != nil {
			db = db.Where("tour_id IN (SELECT id FROM tours WHERE driver_id = ?)", *scope.DriverID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count expeditions: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expeditions: %w", err)
	}

	expeditions := make([]*expedition.Expedition, len(dbModels))
	for i := range dbModels {
		expeditions[i] = toExpeditionEntity(&dbModels[i])
	}

	return expeditions, total, nil
}

func (r *ExpeditionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status expedition.Status, deliveredAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.ExpeditionModel{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update expedition status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return expedition.ErrExpeditionNotFound
	}

	return nil
}

func (r *ExpeditionRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ExpeditionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount":     amount,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update expedition amount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return expedition.ErrExpeditionNotFound
	}

	return nil
}

func (r *ExpeditionRepository) SetPredictedDelivery(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ExpeditionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"predicted_delivery_at": at,
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set predicted delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return expedition.ErrExpeditionNotFound
	}

	return nil
}

func (r *ExpeditionRepository) AssignTour(ctx context.Context, id uuid.UUID, tourID *uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ExpeditionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tour_id":    tourID,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to assign tour: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return expedition.ErrExpeditionNotFound
	}

	return nil
}

func (r *ExpeditionRepository) NextSequence(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.DB.WithContext(ctx).
		Raw("SELECT nextval('expedition_numero_seq')").
		Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance numero sequence: %w", err)
	}
	return next, nil
}

func (r *ExpeditionRepository) ListStale(ctx context.Context, status expedition.Status, createdBefore time.Time) ([]*expedition.Expedition, error) {
	var dbModels []models.ExpeditionModel
	err := r.db.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(status), createdBefore).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale expeditions: %w", err)
	}

	expeditions := make([]*expedition.Expedition, len(dbModels))
	for i := range dbModels {
		expeditions[i] = toExpeditionEntity(&dbModels[i])
	}
	return expeditions, nil
}

func (r *ExpeditionRepository) ListUnpriced(ctx context.Context) ([]*expedition.Expedition, error) {
	var dbModels []models.ExpeditionModel
	err := r.db.DB.WithContext(ctx).
		Where("amount = 0 AND status NOT IN ?", []string{
			string(expedition.StatusDelivered),
			string(expedition.StatusFailed),
		}).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unpriced expeditions: %w", err)
	}

	expeditions := make([]*expedition.Expedition, len(dbModels))
	for i := range dbModels {
		expeditions[i] = toExpeditionEntity(&dbModels[i])
	}
	return expeditions, nil
}

func (r *ExpeditionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*expedition.Expedition, error) {
	var dbModels []models.ExpeditionModel
	err := r.db.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expeditions by ids: %w", err)
	}

	expeditions := make([]*expedition.Expedition, len(dbModels))
	for i := range dbModels {
		expeditions[i] = toExpeditionEntity(&dbModels[i])
	}
	return expeditions, nil
}

func (r *ExpeditionRepository) ListByTour(ctx context.Context, tourID uuid.UUID) ([]*expedition.Expedition, error) {
	var dbModels []models.ExpeditionModel
	err := r.db.DB.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expeditions by tour: %w", err)
	}

	expeditions := make([]*expedition.Expedition, len(dbModels))
	for i := range dbModels {
		expeditions[i] = toExpeditionEntity(&dbModels[i])
	}
	return expeditions, nil
}

func (r *ExpeditionRepository) CreateStatusChange(ctx context.Context, sc *expedition.StatusChange) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	if sc.ChangedAt.IsZero() {
		sc.ChangedAt = time.Now()
	}

	dbModel := &models.StatusChangeModel{
		ID:           sc.ID,
		ExpeditionID: sc.ExpeditionID,
		OldStatus:    string(sc.OldStatus),
		NewStatus:    string(sc.NewStatus),
		Actor:        sc.Actor,
		Notes:        sc.Notes,
		ChangedAt:    sc.ChangedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create status change: %w", err)
	}

	return nil
}

func (r *ExpeditionRepository) ListStatusChanges(ctx context.Context, expeditionID uuid.UUID) ([]*expedition.StatusChange, error) {
	var dbModels []models.StatusChangeModel
	err := r.db.DB.WithContext(ctx).
		Where("expedition_id = ?", expeditionID).
		Order("changed_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status changes: %w", err)
	}

	changes := make([]*expedition.StatusChange, len(dbModels))
	for i, m := range dbModels {
		changes[i] = &expedition.StatusChange{
			ID:           m.ID,
			ExpeditionID: m.ExpeditionID,
			OldStatus:    expedition.Status(m.OldStatus),
			NewStatus:    expedition.Status(m.NewStatus),
			Actor:        m.Actor,
			Notes:        m.Notes,
			ChangedAt:    m.ChangedAt,
		}
	}
	return changes, nil
}

// Helper functions to convert between domain entities and database models
func toExpeditionModel(e *expedition.Expedition) *models.ExpeditionModel {
	return &models.ExpeditionModel{
		ID:                  e.ID,
		Numero:              e.Numero,
		ClientID:            e.ClientID,
		ServiceTypeID:       e.ServiceTypeID,
		DestinationID:       e.DestinationID,
		AgentID:             e.AgentID,
		Weight:              e.Weight,
		Volume:              e.Volume,
		Description:         e.Description,
		Amount:              e.Amount,
		Status:              string(e.Status),
		TourID:              e.TourID,
		PredictedDeliveryAt: e.PredictedDeliveryAt,
		DeliveredAt:         e.DeliveredAt,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func toExpeditionEntity(m *models.ExpeditionModel) *expedition.Expedition {
	return &expedition.Expedition{
		ID:                  m.ID,
		Numero:              m.Numero,
		ClientID:            m.ClientID,
		ServiceTypeID:       m.ServiceTypeID,
		DestinationID:       m.DestinationID,
		AgentID:             m.AgentID,
		Weight:              m.Weight,
		Volume:              m.Volume,
		Description:         m.Description,
		Amount:              m.Amount,
		Status:              expedition.Status(m.Status),
		TourID:              m.TourID,
		PredictedDeliveryAt: m.PredictedDeliveryAt,
		DeliveredAt:         m.DeliveredAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
