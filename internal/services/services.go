package services

import (
	"github.com/hikmahsphere/hikmah-api/internal/cache"
	"github.com/hikmahsphere/hikmah-api/internal/clients"
	"github.com/hikmahsphere/hikmah-api/internal/config"
	"github.com/hikmahsphere/hikmah-api/internal/jobs"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth        *AuthService
	Audit       *AuditService
	Donor       *DonorService
	Donation    *DonationService
	Schedule    *ScheduleService
	Installment *InstallmentService
	Receipt     *ReceiptService
	Report      *ReportService
	Export      *ExportService
	Email       *EmailService
	Prayer      *PrayerTimeService
	Job         *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store storage.Store, responseCache *cache.Cache, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos)
	emailSvc := NewEmailService(cfg)
	scheduleSvc := NewScheduleService(cfg.DefaultGracePeriodDays)
	donorSvc := NewDonorService(repos, auditSvc, cfg.IdentityProofThreshold)
	donationSvc := NewDonationService(repos, donorSvc, scheduleSvc, auditSvc)
	installmentSvc := NewInstallmentService(repos, donationSvc, auditSvc, emailSvc, cfg.ReminderLeadDays)
	reportSvc := NewReportService(repos.Report)
	prayerClient := clients.NewPrayerTimesClient(cfg.PrayerAPIBaseURL, cfg.UpstreamTimeout)

	return &Services{
		Auth:        NewAuthService(cfg.JWTSecret),
		Audit:       auditSvc,
		Donor:       donorSvc,
		Donation:    donationSvc,
		Schedule:    scheduleSvc,
		Installment: installmentSvc,
		Receipt:     NewReceiptService(repos, store, auditSvc),
		Report:      reportSvc,
		Export:      NewExportService(reportSvc, repos.Donation),
		Email:       emailSvc,
		Prayer:      NewPrayerTimeService(prayerClient, responseCache, cfg.PrayerTimesTTL),
		Job:         NewJobService(worker, installmentSvc, auditSvc),
	}
}
