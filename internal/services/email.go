package services

import (
	"context"
	"fmt"
	"log"

	"danceregistry/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	doorCode string
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer. doorCode is embedded in payment confirmation emails.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, doorCode string) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, doorCode: doorCode}
}

// SendRegistrationConfirmation sends the registration confirmation using the
// "registration_confirmation" template. The waiting-list variant is chosen by
// data.OnWaitingList.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("registration_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render registration_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send registration confirmation: %w", err)
	}
	log.Printf("[EMAIL] Registration confirmation sent to %s (waiting list: %t)", data.Email, data.OnWaitingList)
	return nil
}

// SendPaymentConfirmation sends the payment confirmation using the
// "payment_confirmation" template, filling in the configured door code.
func (s *emailService) SendPaymentConfirmation(ctx context.Context, data *domain.PaymentEmailData) error {
	if data == nil {
		return fmt.Errorf("payment confirmation data is nil")
	}
	if data.DoorCode == "" {
		data.DoorCode = s.doorCode
	}
	subject, htmlBody, textBody, err := s.renderer.Render("payment_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render payment_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send payment confirmation: %w", err)
	}
	log.Printf("[EMAIL] Payment confirmation sent to %s", data.Email)
	return nil
}
