package handlers

import (
	"net/http"
	"time"

	"github.com/abonos-app/abonos-api/internal/middleware"
	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// @Summary List Plans
// @Description Get a paginated list of subscription plans
// @Tags Plans
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /plans [get]
func (h *PlanHandler) Index(c *gin.Context) {
	query := listQuery(c, "client_id", "active")

	plans, total, err := h.planService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range plans {
		responses = append(responses, plans[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"plans": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Plan
// @Description Get a plan by ID
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} models.PlanResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id} [get]
func (h *PlanHandler) Show(c *gin.Context) {
	plan, err := h.planService.Get(c.Request.Context(), parseID(c, "plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan.ToResponse()})
}

// @Summary Create Plan
// @Description Register a new subscription plan for a client
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body services.PlanInput true "Plan Data"
// @Success 201 {object} models.PlanResponse
// @Security BearerAuth
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var input services.PlanInput
	if err := BindNestedOrFlat(c, "plan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": plan.ToResponse()})
}

// @Summary Update Plan
// @Description Update an existing plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param request body services.PlanInput true "Plan Data"
// @Success 200 {object} models.PlanResponse
// @Security BearerAuth
// @Router /plans/{plan_id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	var input services.PlanInput
	if err := BindNestedOrFlat(c, "plan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), middleware.GetUserID(c), parseID(c, "plan_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan.ToResponse()})
}

// @Summary Activate Plan
// @Description Reactivate a suspended plan
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} models.PlanResponse
// @Security BearerAuth
// @Router /plans/{plan_id}/activate [post]
func (h *PlanHandler) Activate(c *gin.Context) {
	plan, err := h.planService.Activate(c.Request.Context(), middleware.GetUserID(c), parseID(c, "plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan.ToResponse()})
}

// @Summary Deactivate Plan
// @Description Suspend a plan; generation skips it until reactivated
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} models.PlanResponse
// @Security BearerAuth
// @Router /plans/{plan_id}/deactivate [post]
func (h *PlanHandler) Deactivate(c *gin.Context) {
	plan, err := h.planService.Deactivate(c.Request.Context(), middleware.GetUserID(c), parseID(c, "plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan.ToResponse()})
}

type EndPlanRequest struct {
	EndDate time.Time `json:"end_date"`
}

// @Summary End Plan
// @Description Terminate a plan as of a date (today when omitted)
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param request body EndPlanRequest false "End Date"
// @Success 200 {object} models.PlanResponse
// @Security BearerAuth
// @Router /plans/{plan_id}/end [post]
func (h *PlanHandler) End(c *gin.Context) {
	var req EndPlanRequest
	_ = c.ShouldBindJSON(&req)

	plan, err := h.planService.End(c.Request.Context(), middleware.GetUserID(c), parseID(c, "plan_id"), req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan.ToResponse()})
}

// @Summary Delete Plan
// @Description Delete a plan without generated accruals
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.planService.Delete(c.Request.Context(), middleware.GetUserID(c), parseID(c, "plan_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Abono eliminado"})
}
