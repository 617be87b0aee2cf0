package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainFleet "transport-manager/internal/domain/fleet"
	"transport-manager/internal/usecase/fleet"
	"transport-manager/pkg/utils"
)

type FleetHandler struct {
	service *fleet.Service
}

func NewFleetHandler(service *fleet.Service) *FleetHandler {
	return &FleetHandler{service: service}
}

func (h *FleetHandler) RegisterRoutes(router *gin.RouterGroup) {
	drivers := router.Group("/drivers")
	{
		drivers.GET("", h.ListDrivers)
		drivers.GET("/:id", h.GetDriver)
	}

	vehicles := router.Group("/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)
	}
}

func (h *FleetHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	drivers := router.Group("/drivers")
	{
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
	}

	vehicles := router.Group("/vehicles")
	{
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
	}
}

func (h *FleetHandler) CreateDriver(c *gin.Context) {
	var req fleet.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateDriver(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Driver created successfully", result)
}

func (h *FleetHandler) GetDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver ID")
		return
	}

	result, err := h.service.GetDriver(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver retrieved successfully", result)
}

func (h *FleetHandler) UpdateDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver ID")
		return
	}

	var req fleet.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateDriver(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver updated successfully", result)
}

func (h *FleetHandler) ListDrivers(c *gin.Context) {
	availableOnly := c.Query("available") == "true"

	result, err := h.service.ListDrivers(c.Request.Context(), availableOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", result)
}

func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req fleet.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle created successfully", result)
}

func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	result, err := h.service.GetVehicle(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", result)
}

func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	var req fleet.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateVehicle(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle updated successfully", result)
}

func (h *FleetHandler) ListVehicles(c *gin.Context) {
	var state *domainFleet.VehicleState
	if raw := c.Query("state"); raw != "" {
		s := domainFleet.VehicleState(raw)
		state = &s
	}

	result, err := h.service.ListVehicles(c.Request.Context(), state)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", result)
}
