package handlers

import (
	"net/http"

	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Entries
// @Description Get a paginated list of audit entries (admin)
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param entity query string false "Filter by entity"
// @Param action query string false "Filter by action"
// @Param user_id query int false "Filter by user"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := listQuery(c, "entity", "action", "user_id")

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": entries, "pagination": gin.H{"total": total}})
}
