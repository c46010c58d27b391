package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
)

type InstallmentHandler struct {
	installmentService *services.InstallmentService
}

func NewInstallmentHandler(installmentService *services.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

type DefaultInstallmentRequest struct {
	Reason string `json:"reason"`
}

// @Summary List Installments
// @Description Installments with their effective status, earliest due first
// @Tags Installments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by effective status (Pending, Paid, Overdue, Defaulted, Cancelled)"
// @Param donation_id query string false "Filter by donation"
// @Param donor_id query string false "Filter by donor"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /installments [get]
func (h *InstallmentHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "donation_id", "donor_id")
	installments, total, err := h.installmentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installments": installments, "pagination": pagination(query, total)})
}

// @Summary Get Installment
// @Tags Installments
// @Produce json
// @Param installment_id path string true "Installment ID"
// @Success 200 {object} models.InstallmentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id} [get]
func (h *InstallmentHandler) Show(c *gin.Context) {
	installment, err := h.installmentService.Get(c.Request.Context(), c.Param("installment_id"))
	h.respondInstallment(c, installment, err)
}

// @Summary Mark Installment Paid
// @Description Settles the installment and posts its amount onto the donation
// @Tags Installments
// @Accept json
// @Produce json
// @Param installment_id path string true "Installment ID"
// @Param body body services.MarkPaidInput false "Payment details"
// @Success 200 {object} models.InstallmentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id}/pay [post]
func (h *InstallmentHandler) Pay(c *gin.Context) {
	var input services.MarkPaidInput
	if c.Request.ContentLength != 0 {
		if err := BindNestedOrFlat(c, "payment", &input); err != nil {
			badRequest(c, err)
			return
		}
	}
	installment, err := h.installmentService.MarkPaid(c.Request.Context(), c.Param("installment_id"), input, actorFrom(c))
	h.respondInstallment(c, installment, err)
}

// @Summary Default Installment
// @Description Marks an overdue installment as defaulted
// @Tags Installments
// @Accept json
// @Produce json
// @Param installment_id path string true "Installment ID"
// @Param body body DefaultInstallmentRequest false "Reason"
// @Success 200 {object} models.InstallmentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id}/default [post]
func (h *InstallmentHandler) Default(c *gin.Context) {
	var req DefaultInstallmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	installment, err := h.installmentService.DefaultInstallment(c.Request.Context(), c.Param("installment_id"), req.Reason, actorFrom(c))
	h.respondInstallment(c, installment, err)
}

func (h *InstallmentHandler) respondInstallment(c *gin.Context, installment any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installment": installment})
}
