package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	reportSvc    *ReportService
	donationRepo repository.DonationRepository
}

func NewExportService(reportSvc *ReportService, donationRepo repository.DonationRepository) *ExportService {
	return &ExportService{reportSvc: reportSvc, donationRepo: donationRepo}
}

var donationExportHeader = []string{
	"Donation ID", "Donor ID", "Donor", "Type", "Category", "Mode", "Method",
	"Status", "Total", "Paid", "Pending", "Hijri Year", "Created",
}

func donationExportRow(d models.Donation) []any {
	donor := ""
	if d.Donor != nil {
		donor = d.Donor.FullName
	}
	return []any{
		d.ID, d.DonorID, donor, d.DonationType, d.AllocationCategory, d.PaymentMode, d.PaymentMethod,
		d.Status, d.TotalAmount.InexactFloat64(), d.AmountPaid.InexactFloat64(), d.PendingAmount.InexactFloat64(),
		d.HijriYear, d.CreatedAt.Format("2006-01-02"),
	}
}

// ExportDonationsCSV writes every non-cancelled donation as one CSV row
func (s *ExportService) ExportDonationsCSV(ctx context.Context) ([]byte, string, error) {
	donations, err := s.donationRepo.ListForExport(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	_ = writer.Write(donationExportHeader)

	for _, d := range donations {
		row := donationExportRow(d)
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		// Money columns keep their exact two-decimal text.
		record[8] = d.TotalAmount.StringFixed(2)
		record[9] = d.AmountPaid.StringFixed(2)
		record[10] = d.PendingAmount.StringFixed(2)
		_ = writer.Write(record)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("donations_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportDonationsXLSX builds a workbook with a summary sheet, one sheet per breakdown
// and the donation list.
func (s *ExportService) ExportDonationsXLSX(ctx context.Context) ([]byte, string, error) {
	totals, err := s.reportSvc.DonationTotals(ctx)
	if err != nil {
		return nil, "", err
	}
	donations, err := s.donationRepo.ListForExport(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	// Summary
	sheet := "Summary"
	_ = f.SetSheetName("Sheet1", sheet)
	_ = f.SetCellValue(sheet, "A1", "Donation Report")
	_ = f.SetCellValue(sheet, "B1", time.Now().UTC().Format("2006-01-02 15:04"))
	_ = f.SetSheetRow(sheet, "A3", &[]any{"Status", "Count", "Total", "Paid", "Pending"})
	_ = f.SetCellStyle(sheet, "A3", "E3", headerStyle)

	row := 4
	for _, st := range totals.ByStatus {
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{
			st.Status, st.Count, st.TotalAmount.InexactFloat64(), st.AmountPaid.InexactFloat64(), st.PendingAmount.InexactFloat64(),
		})
		row++
	}
	_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", row+1), &[]any{
		"Total (excl. cancelled)", totals.Count, totals.TotalPledged.InexactFloat64(),
		totals.TotalPaid.InexactFloat64(), totals.TotalPending.InexactFloat64(),
	})

	// Breakdowns
	for _, by := range models.BreakdownDimensions {
		rows, err := s.reportSvc.DonationBreakdown(ctx, by)
		if err != nil {
			return nil, "", err
		}
		name := "By " + by
		if _, err := f.NewSheet(name); err != nil {
			return nil, "", err
		}
		_ = f.SetSheetRow(name, "A1", &[]any{by, "Count", "Total", "Paid"})
		_ = f.SetCellStyle(name, "A1", "D1", headerStyle)
		for i, r := range rows {
			_ = f.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &[]any{
				r.Key, r.Count, r.TotalAmount.InexactFloat64(), r.AmountPaid.InexactFloat64(),
			})
		}
	}

	// Donations
	list := "Donations"
	if _, err := f.NewSheet(list); err != nil {
		return nil, "", err
	}
	header := make([]any, len(donationExportHeader))
	for i, h := range donationExportHeader {
		header[i] = h
	}
	_ = f.SetSheetRow(list, "A1", &header)
	_ = f.SetCellStyle(list, "A1", "M1", headerStyle)
	for i, d := range donations {
		values := donationExportRow(d)
		_ = f.SetSheetRow(list, fmt.Sprintf("A%d", i+2), &values)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("donations_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
