package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transport-manager/internal/domain/tour"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type TourRepository struct {
	db *DB
}

func NewTourRepository(db *DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) Create(ctx context.Context, t *tour.Tour) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	dbModel := toTourModel(t)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	t.ID = dbModel.ID
	t.CreatedAt = dbModel.CreatedAt
	t.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *TourRepository) GetByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	var dbModel models.TourModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tour.ErrTourNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}

	return toTourEntity(&dbModel), nil
}

func (r *TourRepository) Update(ctx context.Context, t *tour.Tour) error {
	t.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.TourModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"date":             t.Date,
			"driver_id":        t.DriverID,
			"vehicle_id":       t.VehicleID,
			"duration_minutes": int64(t.Duration / time.Minute),
			"notes":            t.Notes,
			"updated_at":       t.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update tour: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return tour.ErrTourNotFound
	}

	return nil
}

func (r *TourRepository) List(ctx context.Context, date *time.Time, driverID *uuid.UUID, page, pageSize int) ([]*tour.Tour, int64, error) {
	var dbModels []models.TourModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.TourModel{})

	if date != nil {
		db = db.Where("date = ?", date.Format("2006-01-02"))
	}
	if driverID != nil {
		db = db.Where("driver_id = ?", *driverID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tours: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("date DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tours: %w", err)
	}

	tours := make([]*tour.Tour, len(dbModels))
	for i := range dbModels {
		tours[i] = toTourEntity(&dbModels[i])
	}

	return tours, total, nil
}

// InTourLock loads the tour with a row-level lock and runs fn inside the same
// transaction, so a recomputation never straddles a concurrent membership
// mutation.
func (r *TourRepository) InTourLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, t *tour.Tour) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbModel models.TourModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dbModel).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tour.ErrTourNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock tour: %w", err)
		}

		txRepo := &TourRepository{db: &DB{DB: tx}}
		lockCtx := context.WithValue(ctx, tourLockKey{}, txRepo)
		return fn(lockCtx, toTourEntity(&dbModel))
	})
}

type tourLockKey struct{}

// lockedRepo returns the transactional repository when called inside
// InTourLock, the receiver otherwise.
func (r *TourRepository) lockedRepo(ctx context.Context) *TourRepository {
	if txRepo, ok := ctx.Value(tourLockKey{}).(*TourRepository); ok {
		return txRepo
	}
	return r
}

func (r *TourRepository) UpdateTotals(ctx context.Context, id uuid.UUID, distanceKm, fuelLiters decimal.Decimal) error {
	result := r.lockedRepo(ctx).db.DB.WithContext(ctx).
		Model(&models.TourModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"distance_km": distanceKm,
			"fuel_liters": fuelLiters,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update tour totals: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return tour.ErrTourNotFound
	}

	return nil
}

func (r *TourRepository) SetOverrides(ctx context.Context, id uuid.UUID, distance, fuel *decimal.Decimal) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.TourModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"distance_override": distance,
			"fuel_override":     fuel,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set tour overrides: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return tour.ErrTourNotFound
	}

	return nil
}

// Helper functions to convert between domain entities and database models
func toTourModel(t *tour.Tour) *models.TourModel {
	return &models.TourModel{
		ID:               t.ID,
		Date:             t.Date,
		DriverID:         t.DriverID,
		VehicleID:        t.VehicleID,
		DistanceKm:       t.DistanceKm,
		FuelLiters:       t.FuelLiters,
		DistanceOverride: t.DistanceOverride,
		FuelOverride:     t.FuelOverride,
		DurationMinutes:  int64(t.Duration / time.Minute),
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toTourEntity(m *models.TourModel) *tour.Tour {
	return &tour.Tour{
		ID:               m.ID,
		Date:             m.Date,
		DriverID:         m.DriverID,
		VehicleID:        m.VehicleID,
		DistanceKm:       m.DistanceKm,
		FuelLiters:       m.FuelLiters,
		DistanceOverride: m.DistanceOverride,
		FuelOverride:     m.FuelOverride,
		Duration:         time.Duration(m.DurationMinutes) * time.Minute,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
