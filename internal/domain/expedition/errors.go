package expedition

import "errors"

var (
	ErrExpeditionNotFound = errors.New("expedition not found")
	ErrDuplicateNumero    = errors.New("expedition numero already exists")
	ErrAlreadyOnTour      = errors.New("expedition already assigned to a tour")
	ErrNotOnTour          = errors.New("expedition is not assigned to a tour")
	ErrAlreadyDelivered   = errors.New("expedition already has a delivery timestamp")
)
