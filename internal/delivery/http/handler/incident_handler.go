package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"transport-manager/internal/usecase/incident"
	"transport-manager/pkg/utils"
)

type IncidentHandler struct {
	service *incident.Service
}

func NewIncidentHandler(service *incident.Service) *IncidentHandler {
	return &IncidentHandler{service: service}
}

func (h *IncidentHandler) RegisterRoutes(router *gin.RouterGroup) {
	incidents := router.Group("/incidents")
	{
		incidents.GET("", h.ListIncidents)
		incidents.GET("/:id", h.GetIncident)
		incidents.POST("", h.CreateIncident)
	}
}

func (h *IncidentHandler) RegisterAgentRoutes(router *gin.RouterGroup) {
	incidents := router.Group("/incidents")
	{
		incidents.POST("/:id/resolve", h.ResolveIncident)
	}
}

func (h *IncidentHandler) CreateIncident(c *gin.Context) {
	var req incident.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Incident reported successfully", result)
}

func (h *IncidentHandler) GetIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid incident ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Incident retrieved successfully", result)
}

func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	var expeditionID, tourID *uuid.UUID
	if raw := c.Query("expedition_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid expedition ID")
			return
		}
		expeditionID = &id
	}
	if raw := c.Query("tour_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tour ID")
			return
		}
		tourID = &id
	}

	unresolvedOnly := c.Query("unresolved") == "true"
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	incidents, total, err := h.service.List(c.Request.Context(), expeditionID, tourID, unresolvedOnly, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Incidents retrieved successfully", gin.H{
		"incidents": incidents,
		"total":     total,
	})
}

func (h *IncidentHandler) ResolveIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid incident ID")
		return
	}

	var req incident.ResolveIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Incident resolved successfully", result)
}
