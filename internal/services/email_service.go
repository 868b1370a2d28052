package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends transactional email through Resend
type EmailService struct {
	client    *resend.Client
	fromEmail string
	templates *template.Template
}

// NewEmailService creates an email service. With no API key configured the
// service logs instead of sending, which keeps local development working.
func NewEmailService(cfg *config.Config) *EmailService {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}

	templates, err := template.ParseFS(emailTemplates, "templates/email/*.html")
	if err != nil {
		logger.Log.Error("failed to parse email templates", "error", err)
	}

	return &EmailService{
		client:    client,
		fromEmail: cfg.FromEmail,
		templates: templates,
	}
}

func (s *EmailService) send(to, subject, templateName string, data any) error {
	if s.templates == nil {
		return fmt.Errorf("email templates not loaded")
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("rendering %s: %w", templateName, err)
	}

	if s.client == nil {
		logger.Log.Info("email sending disabled, skipping",
			"to", to,
			"subject", subject,
		)
		return nil
	}

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

// SendWelcome sends the post-registration welcome email
func (s *EmailService) SendWelcome(to, name string) error {
	return s.send(to, "歡迎加入毛孩之家", "welcome.html", map[string]any{
		"Name": name,
	})
}

// SendRecoveryCode sends a password recovery code
func (s *EmailService) SendRecoveryCode(to, name, code string) error {
	return s.send(to, "毛孩之家密碼重設驗證碼", "recovery_code.html", map[string]any{
		"Name": name,
		"Code": code,
	})
}

// SendAdoptionDecision notifies an applicant of the review outcome
func (s *EmailService) SendAdoptionDecision(to, name, petName string, approved bool, reason string) error {
	subject := "您的領養申請已通過"
	if !approved {
		subject = "您的領養申請未通過"
	}
	return s.send(to, subject, "adoption_decision.html", map[string]any{
		"Name":     name,
		"PetName":  petName,
		"Approved": approved,
		"Reason":   reason,
	})
}
