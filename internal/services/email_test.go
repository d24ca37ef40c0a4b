package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"danceregistry/internal/domain"
)

// fakeMailer records the last sent message.
type fakeMailer struct {
	sendErr     error
	lastTo      string
	lastSubject string
	sent        int
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.lastTo = to
	f.lastSubject = subject
	f.sent++
	return nil
}

// fakeRenderer returns a canned subject and echoes the data it saw.
type fakeRenderer struct {
	renderErr error
	lastName  string
	lastData  any
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if f.renderErr != nil {
		return "", "", "", f.renderErr
	}
	f.lastName = name
	f.lastData = data
	return "subject", "<p>html</p>", "text", nil
}

func TestEmailService_SendRegistrationConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mailer := &fakeMailer{}
		renderer := &fakeRenderer{}
		svc := NewEmailService(mailer, renderer, "4321")

		err := svc.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "registration_confirmation", renderer.lastName)
		assert.Equal(t, "ada@example.com", mailer.lastTo)
		assert.Equal(t, 1, mailer.sent)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{}, "")
		require.Error(t, svc.SendRegistrationConfirmation(ctx, nil))
	})

	t.Run("render error", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{renderErr: errors.New("bad template")}, "")
		require.Error(t, svc.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{Email: "a@b.co"}))
	})

	t.Run("send error", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{sendErr: errors.New("smtp down")}, &fakeRenderer{}, "")
		require.Error(t, svc.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{Email: "a@b.co"}))
	})
}

func TestEmailService_SendPaymentConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("fills configured door code", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := NewEmailService(&fakeMailer{}, renderer, "4321")

		err := svc.SendPaymentConfirmation(ctx, &domain.PaymentEmailData{Email: "ada@example.com"})
		require.NoError(t, err)
		data, ok := renderer.lastData.(*domain.PaymentEmailData)
		require.True(t, ok)
		assert.Equal(t, "4321", data.DoorCode)
	})

	t.Run("keeps explicit door code", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := NewEmailService(&fakeMailer{}, renderer, "4321")

		err := svc.SendPaymentConfirmation(ctx, &domain.PaymentEmailData{Email: "ada@example.com", DoorCode: "9999"})
		require.NoError(t, err)
		data := renderer.lastData.(*domain.PaymentEmailData)
		assert.Equal(t, "9999", data.DoorCode)
	})

	t.Run("no configured code leaves it empty", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := NewEmailService(&fakeMailer{}, renderer, "")

		err := svc.SendPaymentConfirmation(ctx, &domain.PaymentEmailData{Email: "ada@example.com"})
		require.NoError(t, err)
		data := renderer.lastData.(*domain.PaymentEmailData)
		assert.Empty(t, data.DoorCode)
	})
}
