package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"wheelhouse-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService builds a SendGrid-backed email service. An empty apiKey
// disables sending; every call becomes a logged no-op.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(toEmail, toName, subject, plainText string) error {
	if s.apiKey == "" {
		logger.Debug("email delivery disabled, dropping message", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, plainText)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, toEmail, customerName, plateNumber, reference string, startTime time.Time) error {
	subject := "Your rental booking is confirmed"
	body := fmt.Sprintf("Hi %s,\n\nYour rental of vehicle %s starts at %s.\nBooking reference: %s\n",
		customerName, plateNumber, startTime.Format("2006-01-02 15:04"), reference)
	return s.send(toEmail, customerName, subject, body)
}

func (s *emailService) SendBookingReceipt(ctx context.Context, toEmail, customerName, plateNumber, reference string, amountCents int64) error {
	subject := "Your rental receipt"
	body := fmt.Sprintf("Hi %s,\n\nYour rental of vehicle %s is complete.\nTotal charged: %d.%02d\nBooking reference: %s\n",
		customerName, plateNumber, amountCents/100, amountCents%100, reference)
	return s.send(toEmail, customerName, subject, body)
}

func (s *emailService) SendBookingCancellation(ctx context.Context, toEmail, customerName, plateNumber, reason string) error {
	subject := "Your rental booking was cancelled"
	body := fmt.Sprintf("Hi %s,\n\nYour booking for vehicle %s was cancelled.\nReason: %s\n",
		customerName, plateNumber, reason)
	return s.send(toEmail, customerName, subject, body)
}
