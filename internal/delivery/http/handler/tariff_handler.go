package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"transport-manager/internal/usecase/tariff"
	"transport-manager/pkg/utils"
)

type TariffHandler struct {
	service *tariff.Service
}

func NewTariffHandler(service *tariff.Service) *TariffHandler {
	return &TariffHandler{service: service}
}

func (h *TariffHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/destinations", h.ListDestinations)
	router.GET("/service-types", h.ListServiceTypes)
	router.GET("/tariffs", h.ListTariffs)
	router.GET("/tariffs/quote", h.Quote)
}

func (h *TariffHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/destinations", h.CreateDestination)
	router.POST("/service-types", h.CreateServiceType)
	router.POST("/tariffs", h.CreateTariff)
	router.PUT("/tariffs/:id", h.UpdateTariff)
}

func (h *TariffHandler) CreateDestination(c *gin.Context) {
	var req tariff.CreateDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateDestination(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Destination created successfully", result)
}

func (h *TariffHandler) ListDestinations(c *gin.Context) {
	result, err := h.service.ListDestinations(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Destinations retrieved successfully", result)
}

func (h *TariffHandler) CreateServiceType(c *gin.Context) {
	var req tariff.CreateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateServiceType(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Service type created successfully", result)
}

func (h *TariffHandler) ListServiceTypes(c *gin.Context) {
	result, err := h.service.ListServiceTypes(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service types retrieved successfully", result)
}

func (h *TariffHandler) CreateTariff(c *gin.Context) {
	var req tariff.CreateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateTariff(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Tariff created successfully", result)
}

func (h *TariffHandler) UpdateTariff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tariff ID")
		return
	}

	var req tariff.UpdateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateTariff(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tariff updated successfully", result)
}

func (h *TariffHandler) ListTariffs(c *gin.Context) {
	result, err := h.service.ListTariffs(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tariffs retrieved successfully", result)
}

func (h *TariffHandler) Quote(c *gin.Context) {
	var req tariff.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.service.Quote(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote computed successfully", result)
}
