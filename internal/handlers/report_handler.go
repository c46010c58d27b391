package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// @Summary Donation Totals
// @Description Pledged, paid and pending totals overall and per status
// @Tags Reports
// @Produce json
// @Success 200 {object} models.DonationTotals
// @Security BearerAuth
// @Router /reports/donations/totals [get]
func (h *ReportHandler) DonationTotals(c *gin.Context) {
	totals, err := h.reportService.DonationTotals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// @Summary Donation Breakdown
// @Description Totals grouped by category, type, Hijri year or payment method
// @Tags Reports
// @Produce json
// @Param by query string false "category, type, hijri_year or method" default(category)
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/donations/breakdown [get]
func (h *ReportHandler) DonationBreakdown(c *gin.Context) {
	by := c.DefaultQuery("by", "category")
	rows, err := h.reportService.DonationBreakdown(c.Request.Context(), by)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"by": by, "rows": rows})
}

// @Summary Installment Totals
// @Description Count and amount per effective installment status
// @Tags Reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/installments/totals [get]
func (h *ReportHandler) InstallmentTotals(c *gin.Context) {
	totals, err := h.reportService.InstallmentTotals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": totals})
}

// @Summary Donor Ranking
// @Description Donors ordered by lifetime completed amount
// @Tags Reports
// @Produce json
// @Param limit query int false "Number of donors" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/donors/ranking [get]
func (h *ReportHandler) DonorRanking(c *gin.Context) {
	limit := services.DefaultRankingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, &services.ValidationError{Fields: []services.FieldError{{Field: "limit", Rule: "numeric", Message: "must be a number"}}})
			return
		}
		limit = n
	}
	ranking, err := h.reportService.DonorRanking(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donors": ranking})
}

// @Summary Export Donations
// @Description Download donations with summary sheets as XLSX, or the flat list as CSV
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file "donations.xlsx"
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/donations/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)

	switch format := c.DefaultQuery("format", "xlsx"); format {
	case "xlsx":
		data, filename, err = h.exportService.ExportDonationsXLSX(c.Request.Context())
		contentType = xlsxContentType
	case "csv":
		data, filename, err = h.exportService.ExportDonationsCSV(c.Request.Context())
		contentType = "text/csv"
	default:
		respondError(c, &services.ValidationError{Fields: []services.FieldError{{Field: "format", Rule: "oneof", Message: "must be xlsx or csv"}}})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
