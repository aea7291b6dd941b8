package handlers

import (
	"net/http"

	"github.com/abonos-app/abonos-api/internal/middleware"
	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	auditService   *services.AuditService
}

func NewPaymentHandler(paymentService *services.PaymentService, auditService *services.AuditService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, auditService: auditService}
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := listQuery(c, "client_id")

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"payments": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Payment
// @Description Get a payment with its allocations
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	payment, allocations, err := h.paymentService.Get(c.Request.Context(), parseID(c, "payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var allocationResponses []models.AllocationResponse
	for i := range allocations {
		allocationResponses = append(allocationResponses, allocations[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payment":     payment.ToResponse(),
		"allocations": allocationResponses,
	})
}

// @Summary Record Payment
// @Description Record a payment, optionally allocating it immediately (mode automatic, manual or none)
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body services.RecordPaymentInput true "Payment Data"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var input services.RecordPaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, allocation, err := h.paymentService.RecordPayment(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment":    payment.ToResponse(),
		"allocation": allocation,
	})
}

type AllocateRequest struct {
	Mode       string                     `json:"mode" binding:"required"`
	Directives []services.ManualDirective `json:"directives"`
}

// @Summary Allocate Payment
// @Description Apply a payment's unallocated amount to accruals, automatically (oldest first) or per operator directives
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param request body AllocateRequest true "Allocation Mode"
// @Success 200 {object} services.AllocationResult
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/allocations [post]
func (h *PaymentHandler) Allocate(c *gin.Context) {
	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentID := parseID(c, "payment_id")

	var result *services.AllocationResult
	var err error
	switch req.Mode {
	case services.AllocationModeAutomatic:
		result, err = h.paymentService.AllocateAutomatic(c.Request.Context(), paymentID)
	case services.AllocationModeManual:
		result, err = h.paymentService.AllocateManual(c.Request.Context(), paymentID, req.Directives)
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "modo de imputación desconocido: " + req.Mode})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetUserID(c), "ALLOCATE", "Payment", paymentID, req.Mode)
	c.JSON(http.StatusOK, result)
}

// @Summary Delete Payment
// @Description Delete a payment without allocations
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.paymentService.Delete(c.Request.Context(), middleware.GetUserID(c), parseID(c, "payment_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cobro eliminado"})
}
