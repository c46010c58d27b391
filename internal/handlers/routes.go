package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/middleware"
)

// Register mounts the API on v1. Everything except health and prayer times
// requires an admin token.
func Register(v1 *gin.RouterGroup, h *Handlers, jwtSecret string) {
	// Public
	v1.GET("/health", h.Health.Index)
	v1.GET("/prayer-times", h.Prayer.Index)

	admin := v1.Group("")
	admin.Use(middleware.Auth(jwtSecret), middleware.RequireAdmin())

	// Donors. Static routes first so "lookup" is not matched as :donor_id
	donors := admin.Group("/donors")
	{
		donors.GET("", h.Donor.Index)
		donors.POST("", h.Donor.Create)
		donors.GET("/lookup", h.Donor.Lookup)
		donors.GET("/:donor_id", h.Donor.Show)
		donors.PUT("/:donor_id", h.Donor.Update)
		donors.DELETE("/:donor_id", h.Donor.Delete)
		donors.POST("/:donor_id/disable", h.Donor.Disable)
		donors.POST("/:donor_id/enable", h.Donor.Enable)
		donors.POST("/:donor_id/restore", h.Donor.Restore)
		donors.POST("/:donor_id/reconcile", h.Donor.Reconcile)
		donors.GET("/:donor_id/donations", h.Donor.Donations)
	}

	donations := admin.Group("/donations")
	{
		donations.GET("", h.Donation.Index)
		donations.POST("", h.Donation.Create)
		donations.GET("/:donation_id", h.Donation.Show)
		donations.PATCH("/:donation_id/notes", h.Donation.UpdateNotes)
		donations.GET("/:donation_id/payments", h.Donation.Payments)
		donations.POST("/:donation_id/payments", h.Donation.RecordPayment)
		donations.POST("/:donation_id/cancel", h.Donation.Cancel)
		donations.GET("/:donation_id/installments", h.Donation.Installments)
		donations.POST("/:donation_id/installments", h.Donation.CreateSchedule)
		donations.PUT("/:donation_id/installments/amounts", h.Donation.AdjustAmounts)
		donations.POST("/:donation_id/receipt", h.Donation.IssueReceipt)
		donations.GET("/:donation_id/receipt", h.Donation.DownloadReceipt)
	}

	installments := admin.Group("/installments")
	{
		installments.GET("", h.Installment.Index)
		installments.GET("/:installment_id", h.Installment.Show)
		installments.POST("/:installment_id/pay", h.Installment.Pay)
		installments.POST("/:installment_id/default", h.Installment.Default)
	}

	reports := admin.Group("/reports")
	{
		reports.GET("/donations/totals", h.Report.DonationTotals)
		reports.GET("/donations/breakdown", h.Report.DonationBreakdown)
		reports.GET("/donations/export", h.Report.Export)
		reports.GET("/installments/totals", h.Report.InstallmentTotals)
		reports.GET("/donors/ranking", h.Report.DonorRanking)
	}

	admin.GET("/donor-logs", h.Audit.Index)

	admin.GET("/jobs/status", h.Job.Status)
	admin.POST("/jobs/:name/run", h.Job.Run)
}
