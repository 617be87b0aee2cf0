package tour

import "errors"

var (
	ErrTourNotFound = errors.New("tour not found")
)
