package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainBilling "transport-manager/internal/domain/billing"
	"transport-manager/internal/usecase/billing"
	"transport-manager/pkg/utils"
)

type BillingHandler struct {
	service *billing.Service
}

func NewBillingHandler(service *billing.Service) *BillingHandler {
	return &BillingHandler{service: service}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.GET("/:id/payments", h.ListPayments)
		invoices.GET("/:id/balance", h.GetRemainingBalance)
	}
}

func (h *BillingHandler) RegisterAgentRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
	}

	payments := router.Group("/payments")
	{
		payments.POST("", h.CreatePayment)
		payments.DELETE("/:id", h.DeletePayment)
	}
}

func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req billing.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Invoice created successfully", result)
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	result, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Invoice retrieved successfully", result)
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	var clientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid client ID")
			return
		}
		clientID = &id
	}

	var status *domainBilling.PaymentStatus
	if raw := c.Query("status"); raw != "" {
		s := domainBilling.PaymentStatus(raw)
		status = &s
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	invoices, total, err := h.service.ListInvoices(c.Request.Context(), clientID, status, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Invoices retrieved successfully", gin.H{
		"invoices": invoices,
		"total":    total,
	})
}

func (h *BillingHandler) CreatePayment(c *gin.Context) {
	var req billing.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Payment recorded successfully", result)
}

func (h *BillingHandler) DeletePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	if err := h.service.DeletePayment(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment deleted successfully", nil)
}

func (h *BillingHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	result, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payments retrieved successfully", result)
}

func (h *BillingHandler) GetRemainingBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	remaining, err := h.service.RemainingBalance(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Remaining balance computed successfully", gin.H{
		"remaining_balance": remaining,
	})
}
