package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Donor Logs
// @Description Paginated audit trail of donor-facing mutations, newest first
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param action query string false "Filter by action, e.g. PAYMENT_RECORDED"
// @Param target_type query string false "Filter by target type"
// @Param target_id query string false "Filter by target ID"
// @Param donor_id query string false "Filter by donor"
// @Param actor_id query string false "Filter by operator"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donor-logs [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := listQuery(c, "action", "target_type", "target_id", "donor_id", "actor_id")
	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor_logs": logs, "pagination": pagination(query, total)})
}
