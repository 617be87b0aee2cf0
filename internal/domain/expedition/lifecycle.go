package expedition

import (
	"fmt"

	appErrors "transport-manager/pkg/errors"
)

// State machine for expedition status transitions. Only forward progression
// along the happy path is allowed; failed is reachable from every non-terminal
// state.
var validTransitions = map[Status][]Status{
	StatusCreated: {
		StatusInTransit,
		StatusFailed,
	},
	StatusInTransit: {
		StatusSorting,
		StatusFailed,
	},
	StatusSorting: {
		StatusOutForDelivery,
		StatusFailed,
	},
	StatusOutForDelivery: {
		StatusDelivered,
		StatusFailed,
	},
	StatusDelivered: {
		// Terminal state - no transitions
	},
	StatusFailed: {
		// Terminal state - no transitions
	},
}

// ValidateTransition checks if a status transition is allowed. An unknown
// target value yields UNKNOWN_STATUS, a disallowed move (including any move
// out of a terminal state) yields INVALID_TRANSITION. Never silently ignored.
func ValidateTransition(current, next Status) error {
	if _, known := validTransitions[next]; !known {
		return appErrors.NewAppError(
			"UNKNOWN_STATUS",
			fmt.Sprintf("unknown target status: %s", next),
			appErrors.ErrUnknownStatus,
		)
	}

	allowed, exists := validTransitions[current]
	if !exists {
		return appErrors.NewAppError(
			"UNKNOWN_STATUS",
			fmt.Sprintf("unknown current status: %s", current),
			appErrors.ErrUnknownStatus,
		)
	}

	for _, s := range allowed {
		if next == s {
			return nil
		}
	}

	return appErrors.NewAppError(
		"INVALID_TRANSITION",
		fmt.Sprintf("cannot transition from %s to %s", current, next),
		appErrors.ErrInvalidTransition,
	)
}

// AllowedTransitions returns allowed next statuses
func AllowedTransitions(current Status) []Status {
	return validTransitions[current]
}
