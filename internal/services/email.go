package services

import (
	"context"
	"fmt"
	"log/slog"

	"studyenrollment/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger.With("component", "email_service")}
}

// SendEnrollmentNotice sends the "enrollment_<outcome>" template to the account.
func (s *emailService) SendEnrollmentNotice(ctx context.Context, data *domain.EnrollmentEmailData) error {
	if data == nil {
		return fmt.Errorf("enrollment email data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("enrollment email has no recipient")
	}
	name := "enrollment_" + string(data.Outcome)
	subject, htmlBody, textBody, err := s.renderer.Render(name, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", name, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", name, err)
	}
	s.logger.Info("enrollment email sent", "to", data.Email, "event_id", data.EventID, "outcome", data.Outcome)
	return nil
}
