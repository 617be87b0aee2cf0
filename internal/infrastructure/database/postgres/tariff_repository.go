package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-manager/internal/domain/tariff"
	"transport-manager/internal/infrastructure/database/postgres/models"
	appErrors "transport-manager/pkg/errors"
)

type TariffRepository struct {
	db *DB
}

func NewTariffRepository(db *DB) *TariffRepository {
	return &TariffRepository{db: db}
}

func (r *TariffRepository) CreateTariff(ctx context.Context, t *tariff.Tariff) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	dbModel := toTariffModel(t)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return tariff.ErrTariffAlreadyExists
		}
		return fmt.Errorf("failed to create tariff: %w", err)
	}

	t.CreatedAt = dbModel.CreatedAt
	t.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *TariffRepository) UpdateTariff(ctx context.Context, t *tariff.Tariff) error {
	t.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.TariffModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"per_kg":     t.PerKg,
			"per_m3":     t.PerM3,
			"updated_at": t.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update tariff: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return tariff.ErrTariffNotFound
	}

	return nil
}

func (r *TariffRepository) GetTariffByID(ctx context.Context, id uuid.UUID) (*tariff.Tariff, error) {
	var dbModel models.TariffModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tariff.ErrTariffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tariff: %w", err)
	}

	return toTariffEntity(&dbModel), nil
}

func (r *TariffRepository) ListTariffs(ctx context.Context) ([]*tariff.Tariff, error) {
	var dbModels []models.TariffModel
	err := r.db.DB.WithContext(ctx).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}

	tariffs := make([]*tariff.Tariff, len(dbModels))
	for i := range dbModels {
		tariffs[i] = toTariffEntity(&dbModels[i])
	}
	return tariffs, nil
}

// RateFor joins the tariff to its destination in one query. The pricing
// engine treats a miss as a hard error, so not-found maps to the sentinel.
func (r *TariffRepository) RateFor(ctx context.Context, serviceTypeID, destinationID uuid.UUID) (*tariff.Rate, error) {
	var rate tariff.Rate
	err := r.db.DB.WithContext(ctx).
		Model(&models.TariffModel{}).
		Select("tariffs.per_kg, tariffs.per_m3, destinations.base_fee").
		Joins("JOIN destinations ON destinations.id = tariffs.destination_id").
		Where("tariffs.service_type_id = ? AND tariffs.destination_id = ?", serviceTypeID, destinationID).
		Take(&rate).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tariff.ErrTariffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rate: %w", err)
	}

	return &rate, nil
}

func (r *TariffRepository) CreateDestination(ctx context.Context, d *tariff.Destination) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	dbModel := &models.DestinationModel{
		ID:        d.ID,
		City:      d.City,
		Country:   d.Country,
		Zone:      d.Zone,
		BaseFee:   d.BaseFee,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	return nil
}

func (r *TariffRepository) GetDestinationByID(ctx context.Context, id uuid.UUID) (*tariff.Destination, error) {
	var dbModel models.DestinationModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tariff.ErrDestinationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}

	return toDestinationEntity(&dbModel), nil
}

func (r *TariffRepository) ListDestinations(ctx context.Context) ([]*tariff.Destination, error) {
	var dbModels []models.DestinationModel
	err := r.db.DB.WithContext(ctx).
		Order("country ASC, city ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}

	destinations := make([]*tariff.Destination, len(dbModels))
	for i := range dbModels {
		destinations[i] = toDestinationEntity(&dbModels[i])
	}
	return destinations, nil
}

func (r *TariffRepository) CreateServiceType(ctx context.Context, st *tariff.ServiceType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	st.CreatedAt = time.Now()
	st.UpdatedAt = time.Now()

	dbModel := &models.ServiceTypeModel{
		ID:          st.ID,
		Name:        st.Name,
		Description: st.Description,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErrors.ErrDuplicateIdentifier
		}
		return fmt.Errorf("failed to create service type: %w", err)
	}

	return nil
}

func (r *TariffRepository) GetServiceTypeByID(ctx context.Context, id uuid.UUID) (*tariff.ServiceType, error) {
	var dbModel models.ServiceTypeModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tariff.ErrServiceTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service type: %w", err)
	}

	return toServiceTypeEntity(&dbModel), nil
}

func (r *TariffRepository) ListServiceTypes(ctx context.Context) ([]*tariff.ServiceType, error) {
	var dbModels []models.ServiceTypeModel
	err := r.db.DB.WithContext(ctx).
		Order("name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list service types: %w", err)
	}

	serviceTypes := make([]*tariff.ServiceType, len(dbModels))
	for i := range dbModels {
		serviceTypes[i] = toServiceTypeEntity(&dbModels[i])
	}
	return serviceTypes, nil
}

// Helper functions to convert between domain entities and database models
func toTariffModel(t *tariff.Tariff) *models.TariffModel {
	return &models.TariffModel{
		ID:            t.ID,
		ServiceTypeID: t.ServiceTypeID,
		DestinationID: t.DestinationID,
		PerKg:         t.PerKg,
		PerM3:         t.PerM3,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTariffEntity(m *models.TariffModel) *tariff.Tariff {
	return &tariff.Tariff{
		ID:            m.ID,
		ServiceTypeID: m.ServiceTypeID,
		DestinationID: m.DestinationID,
		PerKg:         m.PerKg,
		PerM3:         m.PerM3,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toDestinationEntity(m *models.DestinationModel) *tariff.Destination {
	return &tariff.Destination{
		ID:        m.ID,
		City:      m.City,
		Country:   m.Country,
		Zone:      m.Zone,
		BaseFee:   m.BaseFee,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toServiceTypeEntity(m *models.ServiceTypeModel) *tariff.ServiceType {
	return &tariff.ServiceType{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
