package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-manager/internal/domain/incident"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type IncidentRepository struct {
	db *DB
}

func NewIncidentRepository(db *DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) Create(ctx context.Context, i *incident.Incident) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	if i.ReportedAt.IsZero() {
		i.ReportedAt = time.Now()
	}

	dbModel := toIncidentModel(i)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	i.CreatedAt = dbModel.CreatedAt
	i.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	var dbModel models.IncidentModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, incident.ErrIncidentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	return toIncidentEntity(&dbModel), nil
}

func (r *IncidentRepository) Update(ctx context.Context, i *incident.Incident) error {
	i.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.IncidentModel{}).
		Where("id = ?", i.ID).
		Updates(map[string]interface{}{
			"priority":           string(i.Priority),
			"comment":            i.Comment,
			"resolution_details": i.ResolutionDetails,
			"resolved_at":        i.ResolvedAt,
			"updated_at":         i.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update incident: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return incident.ErrIncidentNotFound
	}

	return nil
}

func (r *IncidentRepository) List(ctx context.Context, expeditionID, tourID *uuid.UUID, unresolvedOnly bool, page, pageSize int) ([]*incident.Incident, int64, error) {
	var dbModels []models.IncidentModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.IncidentModel{})

	if expeditionID != nil {
		db = db.Where("expedition_id = ?", *expeditionID)
	}
	if tourID != nil {
		db = db.Where("tour_id = ?", *tourID)
	}
	if unresolvedOnly {
		db = db.Where("resolved_at IS NULL")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("reported_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list incidents: %w", err)
	}

	incidents := make([]*incident.Incident, len(dbModels))
	for i := range dbModels {
		incidents[i] = toIncidentEntity(&dbModels[i])
	}

	return incidents, total, nil
}

// Helper functions to convert between domain entities and database models
func toIncidentModel(i *incident.Incident) *models.IncidentModel {
	return &models.IncidentModel{
		ID:                i.ID,
		Type:              string(i.Type),
		Severity:          string(i.Severity),
		Priority:          string(i.Priority),
		ExpeditionID:      i.ExpeditionID,
		TourID:            i.TourID,
		Comment:           i.Comment,
		ResolutionDetails: i.ResolutionDetails,
		ResolvedAt:        i.ResolvedAt,
		ReportedAt:        i.ReportedAt,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func toIncidentEntity(m *models.IncidentModel) *incident.Incident {
	return &incident.Incident{
		ID:                m.ID,
		Type:              incident.Type(m.Type),
		Severity:          incident.Severity(m.Severity),
		Priority:          incident.Priority(m.Priority),
		ExpeditionID:      m.ExpeditionID,
		TourID:            m.TourID,
		Comment:           m.Comment,
		ResolutionDetails: m.ResolutionDetails,
		ResolvedAt:        m.ResolvedAt,
		ReportedAt:        m.ReportedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
