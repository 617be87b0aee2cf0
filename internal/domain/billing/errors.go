package billing

import "errors"

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNoExpeditions   = errors.New("invoice requires at least one expedition")
)
