package tariff

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for tariff repository operations
type Repository interface {
	CreateTariff(ctx context.Context, t *Tariff) error
	UpdateTariff(ctx context.Context, t *Tariff) error
	GetTariffByID(ctx context.Context, id uuid.UUID) (*Tariff, error)
	ListTariffs(ctx context.Context) ([]*Tariff, error)

	// RateFor resolves the (service type, destination) pair to the rates plus
	// the destination base fee. Pure read; returns ErrTariffNotFound when no
	// active tariff exists for the pair.
	RateFor(ctx context.Context, serviceTypeID, destinationID uuid.UUID) (*Rate, error)

	CreateDestination(ctx context.Context, d *Destination) error
	GetDestinationByID(ctx context.Context, id uuid.UUID) (*Destination, error)
	ListDestinations(ctx context.Context) ([]*Destination, error)

	CreateServiceType(ctx context.Context, st *ServiceType) error
	GetServiceTypeByID(ctx context.Context, id uuid.UUID) (*ServiceType, error)
	ListServiceTypes(ctx context.Context) ([]*ServiceType, error)
}
