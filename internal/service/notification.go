package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"

	"rentndrive/internal/config"
	"rentndrive/internal/domain"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one email.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LogMailer logs mail instead of sending it. Used when SMTP is disabled.
type LogMailer struct {
	log *logrus.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the email.
func (m *LogMailer) Send(to, subject, body string) error {
	m.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail (smtp disabled)")
	return nil
}

// NotificationService sends reservation lifecycle emails. Delivery is
// best-effort: failures are logged and never surfaced as operation errors.
type NotificationService struct {
	mailer Mailer
	log    *logrus.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(mailer Mailer, log *logrus.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, log: log}
}

func (s *NotificationService) send(to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	if err := s.mailer.Send(to, subject, body); err != nil {
		s.log.WithError(err).WithField("to", to).Warn("notification delivery failed")
	}
}

// NotifyReservationConfirmed emails the customer and, if the car belongs to
// an owner account, the owner.
func (s *NotificationService) NotifyReservationConfirmed(ctx context.Context, reservation *domain.Reservation, car *domain.Car, customer, owner *domain.User) {
	if customer != nil && customer.Role == domain.RoleCustomer {
		subject := fmt.Sprintf("Your reservation for %q has been confirmed", car.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\nYour reservation for the car %q from %s to %s has been confirmed.\n\nWe look forward to your ride!\n\nThank you for booking with us.\nRent N Drive",
			customer.Name, car.Name, reservation.StartDate.Format("2006-01-02"), reservation.EndDate.Format("2006-01-02"),
		)
		s.send(customer.Email, subject, body)
	}

	if owner != nil && owner.Role == domain.RoleOwner {
		subject := fmt.Sprintf("A new reservation for your car %q has been confirmed", car.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\nA customer has confirmed a reservation for your car %q from %s to %s.\n\nCar Status: Reserved\n\nPlease make necessary arrangements for the reservation.\n\nThank you for listing your car with us.\nRent N Drive",
			owner.Name, car.Name, reservation.StartDate.Format("2006-01-02"), reservation.EndDate.Format("2006-01-02"),
		)
		s.send(owner.Email, subject, body)
	}
}

// NotifyReservationCancelled emails the customer and owner about a
// cancellation.
func (s *NotificationService) NotifyReservationCancelled(ctx context.Context, reservation *domain.Reservation, car *domain.Car, customer, owner *domain.User) {
	if customer != nil && customer.Role == domain.RoleCustomer {
		subject := fmt.Sprintf("Your reservation for %q has been cancelled", car.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\nWe regret to inform you that your reservation for the car %q has been cancelled.\n\nCar Status: Available\n\nWe apologize for any inconvenience caused.\n\nThank you for your understanding.\nRent N Drive",
			customer.Name, car.Name,
		)
		s.send(customer.Email, subject, body)
	}

	if owner != nil && owner.Role == domain.RoleOwner {
		subject := fmt.Sprintf("A reservation for your car %q has been cancelled", car.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\nA reservation for your car %q has been cancelled. Please note that the car is now available.\n\nThank you for listing your car with us.\nRent N Drive",
			owner.Name, car.Name,
		)
		s.send(owner.Email, subject, body)
	}
}

// NotifyReservationUpdated emails both parties about a date change.
func (s *NotificationService) NotifyReservationUpdated(ctx context.Context, reservation *domain.Reservation, car *domain.Car, customer, owner *domain.User) {
	start := reservation.StartDate.Format("2006-01-02")
	end := reservation.EndDate.Format("2006-01-02")

	if customer != nil && customer.Role == domain.RoleCustomer {
		subject := fmt.Sprintf("Your reservation for %q has been updated", car.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\nYour reservation for the car %q has been updated. The new reservation details are as follows:\n\nStart Date: %s\nEnd Date: %s\n\nWe look forward to your updated ride!\n\nThank you for booking with us.\nRent N Drive",
			customer.Name, car.Name, start, end,
		)
		s.send(customer.Email, subject, body)
	}

	if owner != nil && owner.Role == domain.RoleOwner {
		subject := fmt.Sprintf("A reservation for your car %q has been updated", car.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\nA customer has updated their reservation for your car %q. The new reservation details are as follows:\n\nStart Date: %s\nEnd Date: %s\n\nPlease make necessary arrangements for the updated reservation.\n\nThank you for listing your car with us.\nRent N Drive",
			owner.Name, car.Name, start, end,
		)
		s.send(owner.Email, subject, body)
	}
}

// NotifyReservationCompleted emails the customer after a car return.
func (s *NotificationService) NotifyReservationCompleted(ctx context.Context, reservation *domain.Reservation, car *domain.Car, customer *domain.User) {
	if customer == nil {
		return
	}
	subject := fmt.Sprintf("Your ride with %q has been completed", car.Name)
	body := fmt.Sprintf(
		"Dear %s,\n\nWe are pleased to inform you that your ride with the car %q has been successfully completed.\n\nThank you for choosing our service. We hope to see you again soon!\n\nBest regards,\nRent N Drive",
		customer.Name, car.Name,
	)
	s.send(customer.Email, subject, body)
}
