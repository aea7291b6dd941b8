package handlers

import (
	"net/http"

	"github.com/abonos-app/abonos-api/internal/middleware"
	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AdjustmentHandler struct {
	adjustmentService *services.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService *services.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

// @Summary List Adjustments
// @Description Get a paginated list of adjustments
// @Tags Adjustments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param category query string false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /adjustments [get]
func (h *AdjustmentHandler) Index(c *gin.Context) {
	query := listQuery(c, "client_id", "category")

	adjustments, total, err := h.adjustmentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range adjustments {
		responses = append(responses, adjustments[i].ToResponse(false))
	}

	c.JSON(http.StatusOK, gin.H{"adjustments": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Adjustment
// @Description Get an adjustment by ID
// @Tags Adjustments
// @Produce json
// @Param adjustment_id path int true "Adjustment ID"
// @Success 200 {object} models.AdjustmentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /adjustments/{adjustment_id} [get]
func (h *AdjustmentHandler) Show(c *gin.Context) {
	adjustment, err := h.adjustmentService.Get(c.Request.Context(), parseID(c, "adjustment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjustment": adjustment.ToResponse(false)})
}

// @Summary Record Adjustment
// @Description Record a manual correction on a client's balance. A reference to a missing accrual is cleared and reported, not rejected.
// @Tags Adjustments
// @Accept json
// @Produce json
// @Param request body services.RecordAdjustmentInput true "Adjustment Data"
// @Success 201 {object} models.AdjustmentResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /adjustments [post]
func (h *AdjustmentHandler) Create(c *gin.Context) {
	var input services.RecordAdjustmentInput
	if err := BindNestedOrFlat(c, "adjustment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adjustment, referenceCleared, err := h.adjustmentService.Record(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"adjustment": adjustment.ToResponse(referenceCleared)})
}

// @Summary Delete Adjustment
// @Description Delete an adjustment
// @Tags Adjustments
// @Produce json
// @Param adjustment_id path int true "Adjustment ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /adjustments/{adjustment_id} [delete]
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	if err := h.adjustmentService.Delete(c.Request.Context(), middleware.GetUserID(c), parseID(c, "adjustment_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ajuste eliminado"})
}
