package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/internal/storage"
	"github.com/hikmahsphere/hikmah-api/pkg/hijri"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const receiptDir = "receipts"

// ReceiptService issues tax receipts for completed donations
type ReceiptService struct {
	repos *repository.Repositories
	store storage.Store
	audit *AuditService
}

// NewReceiptService creates a new receipt service
func NewReceiptService(repos *repository.Repositories, store storage.Store, audit *AuditService) *ReceiptService {
	return &ReceiptService{repos: repos, store: store, audit: audit}
}

// ReceiptNumber is derived from the Hijri year and the donation ID, e.g. RCPT-1446-HKS-T-00012.
func ReceiptNumber(donation *models.Donation) string {
	return fmt.Sprintf("RCPT-%d-%s", donation.HijriYear, donation.ID)
}

// Generate renders the receipt PDF, stores it and marks the receipt as issued.
// A donation gets one receipt.
func (s *ReceiptService) Generate(ctx context.Context, donationID string, actor Actor) (*models.Donation, error) {
	donation, err := s.repos.Donation.FindWithDetails(ctx, donationID)
	if err != nil {
		return nil, notFound(err, "donation "+donationID)
	}
	if err := checkReceiptable(donation); err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	number := ReceiptNumber(donation)
	pdf, err := renderReceipt(donation, number, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	path, err := s.store.Save(ctx, pdf, number+".pdf", receiptDir, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		locked, err := tx.Donation.FindByIDForUpdate(ctx, donationID)
		if err != nil {
			return notFound(err, "donation "+donationID)
		}
		if err := checkReceiptable(locked); err != nil {
			return err
		}
		locked.TaxReceiptIssued = true
		locked.ReceiptNumber = &number
		locked.ReceiptPath = &path
		if err := tx.Donation.Update(ctx, locked); err != nil {
			return err
		}
		donation = locked
		return nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.Warn("[ReceiptService] orphaned receipt file", "path", path, "error", delErr)
		}
		return nil, err
	}

	logger.Info("[ReceiptService] receipt issued", "donation_id", donation.ID, "receipt_number", number)
	s.audit.Record(ctx, actor, models.ActionReceiptIssued, models.TargetDonation, donation.ID, &donation.DonorID,
		map[string]any{"receipt_number": number})
	return donation, nil
}

// Open returns the stored receipt of a donation
func (s *ReceiptService) Open(ctx context.Context, donationID string) (io.ReadCloser, string, error) {
	donation, err := s.repos.Donation.FindByID(ctx, donationID)
	if err != nil {
		return nil, "", notFound(err, "donation "+donationID)
	}
	if !donation.TaxReceiptIssued || donation.ReceiptPath == nil {
		return nil, "", fmt.Errorf("%w: no receipt issued for donation %s", ErrNotFound, donationID)
	}

	rc, err := s.store.Open(ctx, *donation.ReceiptPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: receipt file of donation %s", ErrNotFound, donationID)
		}
		return nil, "", err
	}
	return rc, *donation.ReceiptNumber + ".pdf", nil
}

func checkReceiptable(donation *models.Donation) error {
	if donation.TaxReceiptIssued {
		return invalidState("receipt for donation %s was already issued", donation.ID)
	}
	if !donation.TaxReceiptRequested {
		return invalidState("donation %s did not request a tax receipt", donation.ID)
	}
	if !donation.MayIssueReceipt() {
		return invalidState("donation %s is %s, receipts need a completed donation", donation.ID, donation.Status)
	}
	return nil
}

// rupees formats an amount for the PDF core fonts, which have no rupee sign.
func rupees(amount decimal.Decimal) string {
	return "Rs. " + strings.TrimPrefix(FormatINR(amount), "₹")
}

func renderReceipt(donation *models.Donation, number string, issuedAt time.Time) ([]byte, error) {
	donorName := donation.DonorID
	if donation.Donor != nil {
		donorName = donation.Donor.FullName
	}
	h := hijri.FromTime(issuedAt)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Donation Receipt "+number, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "HikmahSphere", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Donation Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(55, 8, label)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 8, value)
		pdf.Ln(7)
	}

	line("Receipt number:", number)
	line("Issued on:", fmt.Sprintf("%s (%d-%02d-%02d AH)", issuedAt.Format("02 Jan 2006"), h.Year, h.Month, h.Day))
	line("Donor:", donorName)
	line("Donor ID:", donation.DonorID)
	line("Donation ID:", donation.ID)
	line("Donation type:", strings.ReplaceAll(donation.DonationType, "_", " "))
	line("Allocation:", strings.ReplaceAll(donation.AllocationCategory, "_", " "))
	line("Amount received:", rupees(donation.AmountPaid))
	if donation.CompletedAt != nil {
		line("Completed on:", donation.CompletedAt.Format("02 Jan 2006"))
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 6, AmountToWords(donation.AmountPaid), "", "L", false)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, "This receipt acknowledges a voluntary contribution. Keep it for your tax records.", "", "L", false)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
