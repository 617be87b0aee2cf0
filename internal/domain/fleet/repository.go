package fleet

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for driver and vehicle repository operations
type Repository interface {
	CreateDriver(ctx context.Context, d *Driver) error
	GetDriverByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	UpdateDriver(ctx context.Context, d *Driver) error
	ListDrivers(ctx context.Context, availableOnly bool) ([]*Driver, error)

	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicleByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	ListVehicles(ctx context.Context, state *VehicleState) ([]*Vehicle, error)
}
