package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
)

type DonationHandler struct {
	donationService    *services.DonationService
	installmentService *services.InstallmentService
	receiptService     *services.ReceiptService
}

func NewDonationHandler(donationService *services.DonationService, installmentService *services.InstallmentService, receiptService *services.ReceiptService) *DonationHandler {
	return &DonationHandler{
		donationService:    donationService,
		installmentService: installmentService,
		receiptService:     receiptService,
	}
}

type CancelDonationRequest struct {
	Reason string `json:"reason"`
}

type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

type AdjustAmountsRequest struct {
	Installments []services.AmountChange `json:"installments"`
}

// @Summary List Donations
// @Tags Donations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by donation ID, donor ID or notes"
// @Param status query string false "Filter by status"
// @Param donation_type query string false "Filter by donation type"
// @Param allocation_category query string false "Filter by allocation category"
// @Param payment_mode query string false "Filter by payment mode"
// @Param donor_id query string false "Filter by donor"
// @Param hijri_year query int false "Filter by Hijri year"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations [get]
func (h *DonationHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "donation_type", "allocation_category", "payment_mode", "donor_id", "hijri_year")
	donations, total, err := h.donationService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations, "pagination": pagination(query, total)})
}

// @Summary Get Donation
// @Description Returns the donation with its installments and payments
// @Tags Donations
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Success 200 {object} models.Donation
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /donations/{donation_id} [get]
func (h *DonationHandler) Show(c *gin.Context) {
	donation, err := h.donationService.Get(c.Request.Context(), c.Param("donation_id"))
	h.respondDonation(c, http.StatusOK, donation, err)
}

// @Summary Create Donation
// @Description Books a donation. Installment mode generates the schedule unless defer_schedule is set.
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation body services.DonationInput true "Donation"
// @Success 201 {object} models.Donation
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations [post]
func (h *DonationHandler) Create(c *gin.Context) {
	var input services.DonationInput
	if err := BindNestedOrFlat(c, "donation", &input); err != nil {
		badRequest(c, err)
		return
	}
	donation, err := h.donationService.Create(c.Request.Context(), input, actorFrom(c))
	h.respondDonation(c, http.StatusCreated, donation, err)
}

// @Summary Update Donation Notes
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Param body body UpdateNotesRequest true "Notes"
// @Success 200 {object} models.Donation
// @Security BearerAuth
// @Router /donations/{donation_id}/notes [patch]
func (h *DonationHandler) UpdateNotes(c *gin.Context) {
	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	donation, err := h.donationService.UpdateNotes(c.Request.Context(), c.Param("donation_id"), req.Notes, actorFrom(c))
	h.respondDonation(c, http.StatusOK, donation, err)
}

// @Summary Record Payment
// @Description Posts a payment directly against a donation
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Param payment body services.PaymentInput true "Payment"
// @Success 201 {object} models.Donation
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations/{donation_id}/payments [post]
func (h *DonationHandler) RecordPayment(c *gin.Context) {
	var input services.PaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		badRequest(c, err)
		return
	}
	donation, err := h.donationService.RecordPayment(c.Request.Context(), c.Param("donation_id"), input, actorFrom(c))
	h.respondDonation(c, http.StatusCreated, donation, err)
}

// @Summary List Donation Payments
// @Tags Donations
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations/{donation_id}/payments [get]
func (h *DonationHandler) Payments(c *gin.Context) {
	payments, err := h.donationService.Payments(c.Request.Context(), c.Param("donation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// @Summary Cancel Donation
// @Description Cancels a Pledged or Partial donation and all of its open installments
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Param body body CancelDonationRequest true "Reason"
// @Success 200 {object} models.Donation
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /donations/{donation_id}/cancel [post]
func (h *DonationHandler) Cancel(c *gin.Context) {
	var req CancelDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	donation, err := h.donationService.Cancel(c.Request.Context(), c.Param("donation_id"), req.Reason, actorFrom(c))
	h.respondDonation(c, http.StatusOK, donation, err)
}

// @Summary List Donation Installments
// @Tags Donations
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations/{donation_id}/installments [get]
func (h *DonationHandler) Installments(c *gin.Context) {
	installments, err := h.installmentService.ListByDonation(c.Request.Context(), c.Param("donation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installments": installments})
}

// @Summary Create Installment Schedule
// @Description Generates the schedule of an installment-mode donation created with defer_schedule
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Param schedule body services.ScheduleInput true "Schedule options"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations/{donation_id}/installments [post]
func (h *DonationHandler) CreateSchedule(c *gin.Context) {
	var input services.ScheduleInput
	if err := BindNestedOrFlat(c, "schedule", &input); err != nil {
		badRequest(c, err)
		return
	}
	installments, err := h.installmentService.CreateSchedule(c.Request.Context(), c.Param("donation_id"), input, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"installments": installments})
}

// @Summary Adjust Installment Amounts
// @Description Re-splits open installments; the schedule must still sum to the donation total
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Param body body AdjustAmountsRequest true "New amounts"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donations/{donation_id}/installments/amounts [put]
func (h *DonationHandler) AdjustAmounts(c *gin.Context) {
	var req AdjustAmountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	installments, err := h.installmentService.AdjustAmounts(c.Request.Context(), c.Param("donation_id"), req.Installments, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installments": installments})
}

// @Summary Issue Tax Receipt
// @Description Generates the PDF receipt of a completed donation that requested one
// @Tags Donations
// @Produce json
// @Param donation_id path string true "Donation ID"
// @Success 201 {object} models.Donation
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /donations/{donation_id}/receipt [post]
func (h *DonationHandler) IssueReceipt(c *gin.Context) {
	donation, err := h.receiptService.Generate(c.Request.Context(), c.Param("donation_id"), actorFrom(c))
	h.respondDonation(c, http.StatusCreated, donation, err)
}

// @Summary Download Tax Receipt
// @Tags Donations
// @Produce application/pdf
// @Param donation_id path string true "Donation ID"
// @Success 200 {file} file "receipt.pdf"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /donations/{donation_id}/receipt [get]
func (h *DonationHandler) DownloadReceipt(c *gin.Context) {
	file, filename, err := h.receiptService.Open(c.Request.Context(), c.Param("donation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	c.DataFromReader(http.StatusOK, -1, "application/pdf", file, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%s", filename),
	})
}

func (h *DonationHandler) respondDonation(c *gin.Context, status int, donation any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"donation": donation})
}
