package handlers

import (
	"context"

	"github.com/hikmahsphere/hikmah-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Donor       *DonorHandler
	Donation    *DonationHandler
	Installment *InstallmentHandler
	Report      *ReportHandler
	Prayer      *PrayerHandler
	Audit       *AuditHandler
	Job         *JobHandler
}

// NewHandlers creates all handler instances. ping checks the database for /health.
func NewHandlers(svcs *services.Services, ping func(ctx context.Context) error) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(ping),
		Donor:       NewDonorHandler(svcs.Donor),
		Donation:    NewDonationHandler(svcs.Donation, svcs.Installment, svcs.Receipt),
		Installment: NewInstallmentHandler(svcs.Installment),
		Report:      NewReportHandler(svcs.Report, svcs.Export),
		Prayer:      NewPrayerHandler(svcs.Prayer),
		Audit:       NewAuditHandler(svcs.Audit),
		Job:         NewJobHandler(svcs.Job),
	}
}
