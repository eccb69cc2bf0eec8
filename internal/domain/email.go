package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EnrollmentEmailData holds data for the enrollment status emails.
type EnrollmentEmailData struct {
	Email      string
	Nickname   string
	EventID    string
	EventTitle string
	Outcome    EnrollmentOutcome
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendEnrollmentNotice(ctx context.Context, data *EnrollmentEmailData) error
}
