package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainBilling "transport-manager/internal/domain/billing"
	domainClient "transport-manager/internal/domain/client"
	domainExpedition "transport-manager/internal/domain/expedition"
	domainFleet "transport-manager/internal/domain/fleet"
	domainIncident "transport-manager/internal/domain/incident"
	domainTariff "transport-manager/internal/domain/tariff"
	domainTour "transport-manager/internal/domain/tour"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// handleError translates domain sentinels and coded AppErrors into HTTP
// statuses. Anything unrecognized is a 500 with a generic message so internal
// details never leak to the client.
func handleError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR", "PRICING_REQUIRED":
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
		case "TARIFF_NOT_FOUND":
			utils.ErrorResponse(c, http.StatusNotFound, appErr.Message)
		case "INVALID_TRANSITION", "UNKNOWN_STATUS", "INVOICE_ALREADY_PAID", "AMOUNT_EXCEEDS_BALANCE", "DUPLICATE_IDENTIFIER":
			utils.ErrorResponse(c, http.StatusConflict, appErr.Message)
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, domainExpedition.ErrExpeditionNotFound),
		errors.Is(err, domainTour.ErrTourNotFound),
		errors.Is(err, domainClient.ErrClientNotFound),
		errors.Is(err, domainFleet.ErrDriverNotFound),
		errors.Is(err, domainFleet.ErrVehicleNotFound),
		errors.Is(err, domainTariff.ErrTariffNotFound),
		errors.Is(err, domainTariff.ErrDestinationNotFound),
		errors.Is(err, domainTariff.ErrServiceTypeNotFound),
		errors.Is(err, domainBilling.ErrInvoiceNotFound),
		errors.Is(err, domainBilling.ErrPaymentNotFound),
		errors.Is(err, domainIncident.ErrIncidentNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())

	case errors.Is(err, domainExpedition.ErrAlreadyOnTour),
		errors.Is(err, domainExpedition.ErrNotOnTour),
		errors.Is(err, domainExpedition.ErrAlreadyDelivered),
		errors.Is(err, domainExpedition.ErrDuplicateNumero),
		errors.Is(err, domainClient.ErrClientAlreadyExists),
		errors.Is(err, domainFleet.ErrDuplicateLicense),
		errors.Is(err, domainFleet.ErrDuplicateRegistration),
		errors.Is(err, domainTariff.ErrTariffAlreadyExists),
		errors.Is(err, domainIncident.ErrAlreadyResolved):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())

	case errors.Is(err, domainFleet.ErrDriverUnavailable),
		errors.Is(err, domainFleet.ErrVehicleUnavailable),
		errors.Is(err, domainBilling.ErrNoExpeditions),
		errors.Is(err, appErrors.ErrInvalidInput):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, appErrors.ErrUnauthorized),
		errors.Is(err, appErrors.ErrInvalidToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())

	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// userIDFromContext resolves the acting user id set by the auth middleware.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}
