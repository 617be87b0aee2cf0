package tariff

import "errors"

var (
	ErrTariffNotFound      = errors.New("tariff not found")
	ErrDestinationNotFound = errors.New("destination not found")
	ErrServiceTypeNotFound = errors.New("service type not found")
	ErrTariffAlreadyExists = errors.New("tariff already exists for service type and destination")
)
