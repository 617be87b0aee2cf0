package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-manager/internal/domain/fleet"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type FleetRepository struct {
	db *DB
}

func NewFleetRepository(db *DB) *FleetRepository {
	return &FleetRepository{db: db}
}

func (r *FleetRepository) CreateDriver(ctx context.Context, d *fleet.Driver) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	dbModel := toDriverModel(d)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fleet.ErrDuplicateLicense
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}

	d.CreatedAt = dbModel.CreatedAt
	d.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *FleetRepository) GetDriverByID(ctx context.Context, id uuid.UUID) (*fleet.Driver, error) {
	var dbModel models.DriverModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fleet.ErrDriverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return toDriverEntity(&dbModel), nil
}

func (r *FleetRepository) UpdateDriver(ctx context.Context, d *fleet.Driver) error {
	d.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.DriverModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"last_name":  d.LastName,
			"first_name": d.FirstName,
			"phone":      d.Phone,
			"available":  d.Available,
			"updated_at": d.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update driver: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fleet.ErrDriverNotFound
	}

	return nil
}

func (r *FleetRepository) ListDrivers(ctx context.Context, availableOnly bool) ([]*fleet.Driver, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.DriverModel{})
	if availableOnly {
		db = db.Where("available = true")
	}

	var dbModels []models.DriverModel
	if err := db.Order("last_name ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	drivers := make([]*fleet.Driver, len(dbModels))
	for i := range dbModels {
		drivers[i] = toDriverEntity(&dbModels[i])
	}
	return drivers, nil
}

func (r *FleetRepository) CreateVehicle(ctx context.Context, v *fleet.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()
	if v.State == "" {
		v.State = fleet.VehicleAvailable
	}

	dbModel := toVehicleModel(v)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fleet.ErrDuplicateRegistration
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	v.CreatedAt = dbModel.CreatedAt
	v.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *FleetRepository) GetVehicleByID(ctx context.Context, id uuid.UUID) (*fleet.Vehicle, error) {
	var dbModel models.VehicleModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fleet.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return toVehicleEntity(&dbModel), nil
}

func (r *FleetRepository) UpdateVehicle(ctx context.Context, v *fleet.Vehicle) error {
	v.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.VehicleModel{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"type":        v.Type,
			"capacity_kg": v.CapacityKg,
			"consumption": v.Consumption,
			"state":       string(v.State),
			"updated_at":  v.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fleet.ErrVehicleNotFound
	}

	return nil
}

func (r *FleetRepository) ListVehicles(ctx context.Context, state *fleet.VehicleState) ([]*fleet.Vehicle, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.VehicleModel{})
	if state != nil {
		db = db.Where("state = ?", string(*state))
	}

	var dbModels []models.VehicleModel
	if err := db.Order("registration ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*fleet.Vehicle, len(dbModels))
	for i := range dbModels {
		vehicles[i] = toVehicleEntity(&dbModels[i])
	}
	return vehicles, nil
}

// Helper functions to convert between domain entities and database models
func toDriverModel(d *fleet.Driver) *models.DriverModel {
	return &models.DriverModel{
		ID:            d.ID,
		LastName:      d.LastName,
		FirstName:     d.FirstName,
		LicenseNumber: d.LicenseNumber,
		Phone:         d.Phone,
		Available:     d.Available,
		HiredAt:       d.HiredAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDriverEntity(m *models.DriverModel) *fleet.Driver {
	return &fleet.Driver{
		ID:            m.ID,
		LastName:      m.LastName,
		FirstName:     m.FirstName,
		LicenseNumber: m.LicenseNumber,
		Phone:         m.Phone,
		Available:     m.Available,
		HiredAt:       m.HiredAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toVehicleModel(v *fleet.Vehicle) *models.VehicleModel {
	return &models.VehicleModel{
		ID:           v.ID,
		Registration: v.Registration,
		Type:         v.Type,
		CapacityKg:   v.CapacityKg,
		Consumption:  v.Consumption,
		State:        string(v.State),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toVehicleEntity(m *models.VehicleModel) *fleet.Vehicle {
	return &fleet.Vehicle{
		ID:           m.ID,
		Registration: m.Registration,
		Type:         m.Type,
		CapacityKg:   m.CapacityKg,
		Consumption:  m.Consumption,
		State:        fleet.VehicleState(m.State),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
