package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainExpedition "transport-manager/internal/domain/expedition"
	"transport-manager/internal/usecase/expedition"
	"transport-manager/pkg/utils"
)

type ExpeditionHandler struct {
	service *expedition.Service
}

func NewExpeditionHandler(service *expedition.Service) *ExpeditionHandler {
	return &ExpeditionHandler{service: service}
}

// RegisterRoutes wires read endpoints shared by all authenticated roles. The
// list query is restricted by the caller's scope.
func (h *ExpeditionHandler) RegisterRoutes(router *gin.RouterGroup) {
	expeditions := router.Group("/expeditions")
	{
		expeditions.GET("", h.ListExpeditions)
		expeditions.GET("/:id", h.GetExpedition)
		expeditions.GET("/:id/history", h.GetHistory)
	}
}

// RegisterAgentRoutes wires the mutating endpoints available to agents and
// admins.
func (h *ExpeditionHandler) RegisterAgentRoutes(router *gin.RouterGroup) {
	expeditions := router.Group("/expeditions")
	{
		expeditions.POST("", h.CreateExpedition)
		expeditions.PATCH("/:id/status", h.UpdateStatus)
		expeditions.POST("/:id/assign-tour", h.AssignTour)
		expeditions.POST("/:id/remove-tour", h.RemoveTour)
	}
}

func (h *ExpeditionHandler) CreateExpedition(c *gin.Context) {
	var req expedition.CreateExpeditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	agentID, ok := userIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &agentID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Expedition created successfully", result)
}

func (h *ExpeditionHandler) GetExpedition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid expedition ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expedition retrieved successfully", result)
}

func (h *ExpeditionHandler) ListExpeditions(c *gin.Context) {
	var req expedition.ListExpeditionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	filter := &domainExpedition.Filter{
		ClientID:      req.ClientID,
		TourID:        req.TourID,
		CreatedAfter:  req.CreatedAfter,
		CreatedBefore: req.CreatedBefore,
		Search:        req.Search,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.Status != nil {
		status := domainExpedition.Status(*req.Status)
		filter.Status = &status
	}

	result, err := h.service.List(c.Request.Context(), filter, scopeFromContext(c))
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expeditions retrieved successfully", result)
}

func (h *ExpeditionHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid expedition ID")
		return
	}

	result, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status history retrieved successfully", result)
}

func (h *ExpeditionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid expedition ID")
		return
	}

	var req expedition.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	actorID, ok := userIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), id, domainExpedition.Status(req.Status), actorID.String(), req.Notes)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expedition status updated successfully", result)
}

func (h *ExpeditionHandler) AssignTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid expedition ID")
		return
	}

	var req expedition.AssignTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.AssignToTour(c.Request.Context(), id, req.TourID); err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expedition assigned to tour successfully", nil)
}

func (h *ExpeditionHandler) RemoveTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid expedition ID")
		return
	}

	if err := h.service.RemoveFromTour(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expedition removed from tour successfully", nil)
}

// scopeFromContext builds the authorization predicate for list queries from
// the authenticated role: admins see everything, agents their own
// expeditions, drivers those on their tours.
func scopeFromContext(c *gin.Context) *domainExpedition.Scope {
	scope := &domainExpedition.Scope{}

	role, _ := c.Get("role")
	userID, ok := userIDFromContext(c)
	if !ok {
		return scope
	}

	switch role {
	case "agent":
		scope.AgentID = &userID
	case "driver":
		scope.DriverID = &userID
	}

	return scope
}

// parseDateParam is shared by handlers taking an optional ?date=YYYY-MM-DD.
func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
