package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTariffNotFound  = errors.New("no tariff for service type and destination")
	ErrPricingRequired = errors.New("no tariff available and no amount supplied")

	ErrUnknownStatus     = errors.New("unknown expedition status")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvoiceAlreadyPaid   = errors.New("invoice is already fully paid")
	ErrAmountExceedsBalance = errors.New("payment amount exceeds remaining balance")
	ErrDuplicateIdentifier  = errors.New("identifier already in use")

	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidToken            = errors.New("invalid or expired token")

	ErrInvalidInput = errors.New("invalid input data")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
