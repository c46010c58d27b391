package services

import (
	"fmt"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// ScheduleOptions controls how an installment schedule is laid out
type ScheduleOptions struct {
	Frequency       string     `json:"frequency" validate:"omitempty,frequency"`
	StartDate       *time.Time `json:"start_date"`
	IntervalDays    int        `json:"interval_days" validate:"omitempty,min=1,max=366"`
	GracePeriodDays *int       `json:"grace_period_days" validate:"omitempty,min=0,max=90"`
}

// ScheduleService handles installment schedule generation
type ScheduleService struct {
	defaultGraceDays int
}

// NewScheduleService creates a new schedule service
func NewScheduleService(defaultGraceDays int) *ScheduleService {
	return &ScheduleService{defaultGraceDays: defaultGraceDays}
}

// GenerateSchedule splits a donation into exactly n installments. Every installment
// gets total/n rounded down to the paisa and the last one absorbs the remainder, so
// the amounts always add up to the total. Installment i (0-based) falls due i periods
// after the start date. IDs are left empty for the caller to assign.
func (s *ScheduleService) GenerateSchedule(donation *models.Donation, n int, opts ScheduleOptions, today time.Time) ([]models.Installment, error) {
	if n < models.MinInstallments || n > models.MaxInstallments {
		return nil, fieldError("number_of_installments", "range",
			fmt.Sprintf("must be between %d and %d", models.MinInstallments, models.MaxInstallments))
	}
	if !donation.TotalAmount.IsPositive() {
		return nil, fieldError("total_amount", "gt", "must be greater than 0")
	}

	frequency := opts.Frequency
	if frequency == "" {
		frequency = models.FrequencyMonthly
	}
	if !models.IsValidFrequency(frequency) {
		return nil, fieldError("installment_frequency", "frequency", "is not an accepted value")
	}
	if frequency == models.FrequencyCustom && opts.IntervalDays < 1 {
		return nil, fieldError("interval_days", "required_with_custom", "must be at least 1 for a Custom frequency")
	}

	grace := s.defaultGraceDays
	if opts.GracePeriodDays != nil {
		grace = *opts.GracePeriodDays
	}
	if grace < 0 {
		return nil, fieldError("grace_period_days", "gte", "must not be negative")
	}

	start := startOfDay(today)
	if opts.StartDate != nil {
		start = startOfDay(*opts.StartDate)
	}

	count := decimal.NewFromInt(int64(n))
	base := donation.TotalAmount.Div(count).RoundDown(2)
	if !base.IsPositive() {
		return nil, fieldError("total_amount", "too_small",
			fmt.Sprintf("is too small to split into %d installments", n))
	}
	last := donation.TotalAmount.Sub(base.Mul(decimal.NewFromInt(int64(n - 1))))

	installments := make([]models.Installment, 0, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == n-1 {
			amount = last
		}
		due := dueDate(start, frequency, opts.IntervalDays, i)

		installments = append(installments, models.Installment{
			DonationID:        donation.ID,
			DonorID:           donation.DonorID,
			InstallmentNumber: i + 1,
			TotalInstallments: n,
			Amount:            amount,
			DueDate:           due,
			Frequency:         frequency,
			Status:            models.InstallmentStatusPending,
			GracePeriodDays:   grace,
			GraceEndDate:      models.GraceEnd(due, grace),
		})
	}
	return installments, nil
}

// dueDate returns the due date of the i-th installment (0-based).
// Monthly schedules keep the start day, clamped to the end of shorter months.
func dueDate(start time.Time, frequency string, intervalDays, i int) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return start.AddDate(0, 0, 7*i)
	case models.FrequencyCustom:
		return start.AddDate(0, 0, intervalDays*i)
	default:
		firstOfMonth := time.Date(start.Year(), start.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		lastDay := now.With(firstOfMonth).EndOfMonth().Day()
		day := start.Day()
		if day > lastDay {
			day = lastDay
		}
		return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, time.UTC)
	}
}

// startOfDay truncates t to midnight UTC of its calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
