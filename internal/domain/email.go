package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds data for the registration confirmation email.
// OnWaitingList selects the waiting-list variant of the template.
type RegistrationEmailData struct {
	FirstName        string
	LastName         string
	Email            string
	Experience       string
	RegistrationDate string
	OnWaitingList    bool
	EventName        string
	EventDate        string
	Venue            string
	Address          string
	Price            float64
}

// PaymentEmailData holds data for the payment confirmation email.
// DoorCode is included in the email body only, never in any API response.
type PaymentEmailData struct {
	FirstName  string
	LastName   string
	Email      string
	Experience string
	EventName  string
	EventDate  string
	Venue      string
	Address    string
	DoorCode   string
}

// EmailService defines the contract for sending domain-level emails.
// Callers on the registration and status-update paths must treat
// failures as non-fatal.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
	SendPaymentConfirmation(ctx context.Context, data *PaymentEmailData) error
}
