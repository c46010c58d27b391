package repository

import (
	"context"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DonationPaymentRepository defines the interface for the donation payment ledger
type DonationPaymentRepository interface {
	Create(ctx context.Context, payment *models.DonationPayment) error
	FindByDonationID(ctx context.Context, donationID string) ([]models.DonationPayment, error)
	SumByDonation(ctx context.Context, donationID string) (decimal.Decimal, error)
}

type donationPaymentRepository struct {
	db *gorm.DB
}

// NewDonationPaymentRepository creates a new payment ledger repository
func NewDonationPaymentRepository(db *gorm.DB) DonationPaymentRepository {
	return &donationPaymentRepository{db: db}
}

// Create appends a ledger row
func (r *donationPaymentRepository) Create(ctx context.Context, payment *models.DonationPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindByDonationID retrieves all postings for a donation, oldest first
func (r *donationPaymentRepository) FindByDonationID(ctx context.Context, donationID string) ([]models.DonationPayment, error) {
	var payments []models.DonationPayment
	err := r.db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		Order("paid_at ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// SumByDonation is the ledger balance that amount_paid must always equal
func (r *donationPaymentRepository) SumByDonation(ctx context.Context, donationID string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.DonationPayment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("donation_id = ?", donationID).
		Scan(&result).Error

	return result.Total, err
}
