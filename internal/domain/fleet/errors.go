package fleet

import "errors"

var (
	ErrDriverNotFound        = errors.New("driver not found")
	ErrVehicleNotFound       = errors.New("vehicle not found")
	ErrDriverUnavailable     = errors.New("driver is unavailable")
	ErrVehicleUnavailable    = errors.New("vehicle is unavailable")
	ErrDuplicateLicense      = errors.New("license number already registered")
	ErrDuplicateRegistration = errors.New("vehicle registration already exists")
)
