package handlers

import (
	"net/http"

	"github.com/abonos-app/abonos-api/internal/middleware"
	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AccrualHandler struct {
	accrualService *services.AccrualService
	auditService   *services.AuditService
}

func NewAccrualHandler(accrualService *services.AccrualService, auditService *services.AuditService) *AccrualHandler {
	return &AccrualHandler{accrualService: accrualService, auditService: auditService}
}

// @Summary List Accruals
// @Description Get a paginated list of accruals
// @Tags Accruals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param plan_id query int false "Filter by plan"
// @Param year query int false "Filter by period year"
// @Param month query int false "Filter by period month"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accruals [get]
func (h *AccrualHandler) Index(c *gin.Context) {
	query := listQuery(c, "client_id", "plan_id", "year", "month")

	accruals, total, err := h.accrualService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accruals": accruals, "pagination": gin.H{"total": total}})
}

// @Summary Get Accrual
// @Description Get an accrual with its outstanding balance
// @Tags Accruals
// @Produce json
// @Param accrual_id path int true "Accrual ID"
// @Success 200 {object} models.AccrualResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /accruals/{accrual_id} [get]
func (h *AccrualHandler) Show(c *gin.Context) {
	accrual, balance, err := h.accrualService.Get(c.Request.Context(), parseID(c, "accrual_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accrual": accrual.ToResponse(balance)})
}

type GenerateRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// @Summary Generate Accruals
// @Description Generate the monthly accruals for every billable plan. Already generated periods are skipped, so the operation can be retried.
// @Tags Accruals
// @Accept json
// @Produce json
// @Param request body GenerateRequest false "Period (defaults to the current month)"
// @Success 200 {object} services.GenerationResult
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /accruals/generate [post]
func (h *AccrualHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	_ = c.ShouldBindJSON(&req)

	period := models.Period{Year: req.Year, Month: req.Month}
	result, err := h.accrualService.GeneratePeriod(c.Request.Context(), period)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetUserID(c), "GENERATE", "Accrual", 0, result.Period.String())
	c.JSON(http.StatusOK, result)
}

// @Summary Delete Accrual
// @Description Delete an accrual without allocations or adjustment references
// @Tags Accruals
// @Produce json
// @Param accrual_id path int true "Accrual ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /accruals/{accrual_id} [delete]
func (h *AccrualHandler) Delete(c *gin.Context) {
	if err := h.accrualService.Delete(c.Request.Context(), middleware.GetUserID(c), parseID(c, "accrual_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Devengamiento eliminado"})
}
