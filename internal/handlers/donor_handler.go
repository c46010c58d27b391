package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
)

type DonorHandler struct {
	donorService *services.DonorService
}

func NewDonorHandler(donorService *services.DonorService) *DonorHandler {
	return &DonorHandler{donorService: donorService}
}

// @Summary List Donors
// @Description Get a paginated list of donors, newest first
// @Tags Donors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name, phone, email or ID"
// @Param status query string false "Filter by status (Active, Disabled, Deleted)"
// @Param donor_type query string false "Filter by donor type"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donors [get]
func (h *DonorHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "donor_type")
	donors, total, err := h.donorService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donors": donors, "pagination": pagination(query, total)})
}

// @Summary Get Donor
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} models.Donor
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /donors/{donor_id} [get]
func (h *DonorHandler) Show(c *gin.Context) {
	donor, err := h.donorService.Get(c.Request.Context(), c.Param("donor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// @Summary Find Donor by Phone
// @Tags Donors
// @Produce json
// @Param phone query string true "Phone number"
// @Success 200 {object} models.Donor
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /donors/lookup [get]
func (h *DonorHandler) Lookup(c *gin.Context) {
	donor, err := h.donorService.FindByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// @Summary Register Donor
// @Description Accepts the donor either flat or nested under "donor"
// @Tags Donors
// @Accept json
// @Produce json
// @Param donor body services.DonorInput true "Donor"
// @Success 201 {object} models.Donor
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donors [post]
func (h *DonorHandler) Create(c *gin.Context) {
	var input services.DonorInput
	if err := BindNestedOrFlat(c, "donor", &input); err != nil {
		badRequest(c, err)
		return
	}
	donor, err := h.donorService.Create(c.Request.Context(), input, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"donor": donor})
}

// @Summary Update Donor
// @Description Changes only the fields present in the body
// @Tags Donors
// @Accept json
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Param donor body services.DonorUpdateInput true "Changed fields"
// @Success 200 {object} models.Donor
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donors/{donor_id} [put]
func (h *DonorHandler) Update(c *gin.Context) {
	var input services.DonorUpdateInput
	if err := BindNestedOrFlat(c, "donor", &input); err != nil {
		badRequest(c, err)
		return
	}
	donor, err := h.donorService.Update(c.Request.Context(), c.Param("donor_id"), input, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// @Summary Disable Donor
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} models.Donor
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /donors/{donor_id}/disable [post]
func (h *DonorHandler) Disable(c *gin.Context) {
	donor, err := h.donorService.Disable(c.Request.Context(), c.Param("donor_id"), actorFrom(c))
	h.respondDonor(c, donor, err)
}

// @Summary Enable Donor
// @Description Re-activates a disabled donor
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} models.Donor
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /donors/{donor_id}/enable [post]
func (h *DonorHandler) Enable(c *gin.Context) {
	donor, err := h.donorService.Enable(c.Request.Context(), c.Param("donor_id"), actorFrom(c))
	h.respondDonor(c, donor, err)
}

// @Summary Delete Donor
// @Description Soft delete; linked donations and installments are kept
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} models.Donor
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /donors/{donor_id} [delete]
func (h *DonorHandler) Delete(c *gin.Context) {
	donor, err := h.donorService.Delete(c.Request.Context(), c.Param("donor_id"), actorFrom(c))
	h.respondDonor(c, donor, err)
}

// @Summary Restore Donor
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} models.Donor
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /donors/{donor_id}/restore [post]
func (h *DonorHandler) Restore(c *gin.Context) {
	donor, err := h.donorService.Restore(c.Request.Context(), c.Param("donor_id"), actorFrom(c))
	h.respondDonor(c, donor, err)
}

// @Summary Reconcile Donor Statistics
// @Description Recomputes lifetime totals from completed donations
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} models.Donor
// @Security BearerAuth
// @Router /donors/{donor_id}/reconcile [post]
func (h *DonorHandler) Reconcile(c *gin.Context) {
	donor, err := h.donorService.ReconcileStats(c.Request.Context(), c.Param("donor_id"), actorFrom(c))
	h.respondDonor(c, donor, err)
}

// @Summary List Donor Donations
// @Tags Donors
// @Produce json
// @Param donor_id path string true "Donor ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /donors/{donor_id}/donations [get]
func (h *DonorHandler) Donations(c *gin.Context) {
	donations, err := h.donorService.ListDonations(c.Request.Context(), c.Param("donor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

func (h *DonorHandler) respondDonor(c *gin.Context, donor any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": donor})
}
