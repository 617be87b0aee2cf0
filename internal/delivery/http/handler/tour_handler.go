package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"transport-manager/internal/usecase/tour"
	"transport-manager/pkg/utils"
)

type TourHandler struct {
	service *tour.Service
}

func NewTourHandler(service *tour.Service) *TourHandler {
	return &TourHandler{service: service}
}

func (h *TourHandler) RegisterRoutes(router *gin.RouterGroup) {
	tours := router.Group("/tours")
	{
		tours.GET("", h.ListTours)
		tours.GET("/:id", h.GetTour)
		tours.GET("/:id/report", h.GetReport)
	}
}

func (h *TourHandler) RegisterAgentRoutes(router *gin.RouterGroup) {
	tours := router.Group("/tours")
	{
		tours.POST("", h.CreateTour)
		tours.POST("/:id/recompute", h.Recompute)
		tours.PUT("/:id/overrides", h.SetOverrides)
	}
}

func (h *TourHandler) CreateTour(c *gin.Context) {
	var req tour.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Tour created successfully", result)
}

func (h *TourHandler) GetTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tour ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tour retrieved successfully", result)
}

func (h *TourHandler) ListTours(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var driverID *uuid.UUID
	if raw := c.Query("driver_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver ID")
			return
		}
		driverID = &id
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	tours, total, err := h.service.List(c.Request.Context(), date, driverID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tours retrieved successfully", gin.H{
		"tours": tours,
		"total": total,
	})
}

func (h *TourHandler) Recompute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tour ID")
		return
	}

	if err := h.service.Recompute(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tour totals recomputed successfully", result)
}

func (h *TourHandler) SetOverrides(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tour ID")
		return
	}

	var req tour.SetOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SetOverrides(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tour overrides updated successfully", result)
}

func (h *TourHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tour ID")
		return
	}

	result, err := h.service.Report(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tour report generated successfully", result)
}
