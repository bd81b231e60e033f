package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/oarouay/sayara-sub000/internal/logger"
)

type sendGridService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridService) SendReservationRequested(ctx context.Context, email, name, vehicle string, start, end time.Time, totalCents int64) error {
	subject := "Your rental request was received"
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your rental request for %s from %s to %s.\nEstimated total: %s MAD.\n\nWe will notify you once payment is confirmed.",
		name, vehicle, start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), formatMoney(totalCents),
	)
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridService) SendReservationActivated(ctx context.Context, email, name, vehicle string) error {
	subject := "Your rental is confirmed"
	body := fmt.Sprintf("Hi %s,\n\nPayment received. Your rental of %s is now active. Safe travels!", name, vehicle)
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridService) SendReservationCancelled(ctx context.Context, email, name, vehicle string) error {
	subject := "Your rental was cancelled"
	body := fmt.Sprintf("Hi %s,\n\nYour rental of %s has been cancelled. If this was unexpected, please contact support.", name, vehicle)
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridService) SendReservationCompleted(ctx context.Context, email, name, vehicle string, totalCents int64) error {
	subject := "Thanks for renting with us"
	body := fmt.Sprintf("Hi %s,\n\nYour rental of %s is complete. Final total: %s MAD.\nWe hope to see you again.", name, vehicle, formatMoney(totalCents))
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridService) SendPickupReminder(ctx context.Context, email, name, vehicle, pickup string, start time.Time) error {
	subject := "Your rental starts tomorrow"
	body := fmt.Sprintf("Hi %s,\n\nA reminder that your rental of %s starts on %s.\nPickup location: %s.", name, vehicle, start.Format("Jan 2, 2006"), pickup)
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridService) send(ctx context.Context, email, name, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	logger.Debug("email sent", "to", email, "subject", subject)
	return nil
}

// formatMoney renders cents as a decimal amount, e.g. 30000 -> "300.00".
func formatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
