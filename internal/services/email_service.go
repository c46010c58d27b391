package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/config"
	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendInstallmentReminder emails a donor about an upcoming or overdue installment
func (s *EmailService) SendInstallmentReminder(ctx context.Context, donor *models.Donor, installment *models.Installment, overdue bool) error {
	ok, err := s.checkEmailPreconditions(donor)
	if !ok {
		return err
	}

	now := time.Now().UTC()
	data := struct {
		Name        string
		DonationID  string
		Number      int
		Total       int
		Amount      string
		DueDate     string
		Overdue     bool
		DaysOverdue int
	}{
		Name:        donor.FullName,
		DonationID:  installment.DonationID,
		Number:      installment.InstallmentNumber,
		Total:       installment.TotalInstallments,
		Amount:      FormatINR(installment.Amount),
		DueDate:     installment.DueDate.Format("02 Jan 2006"),
		Overdue:     overdue,
		DaysOverdue: installment.DaysOverdue(now),
	}

	body, err := s.renderTemplate("installment_reminder.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Installment %d of %d is due", installment.InstallmentNumber, installment.TotalInstallments)
	if overdue {
		subject = fmt.Sprintf("Installment %d of %d is overdue", installment.InstallmentNumber, installment.TotalInstallments)
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*donor.Email},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.SendWithContext(ctx, params); err != nil {
		logger.Error("[EmailService] failed to send reminder", "email", *donor.Email, "error", err)
		return err
	}

	logger.Info("[EmailService] reminder sent", "email", *donor.Email, "installment_id", installment.ID, "overdue", overdue)
	return nil
}

// checkEmailPreconditions reports whether a donor can be emailed. A donor who did not
// opt in is skipped without an error.
func (s *EmailService) checkEmailPreconditions(donor *models.Donor) (bool, error) {
	if s.config.ResendAPIKey == "" {
		return false, errors.New("RESEND_API_KEY is not set")
	}
	if donor.Email == nil || *donor.Email == "" {
		return false, errors.New("email address is empty")
	}
	if !donor.Preferences.Data().Email {
		return false, nil
	}
	return true, nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
