// Package mailer sends best-effort patient notifications over SMTP.
// Delivery failures are for the caller to log; nothing here retries.
package mailer

import (
	"fmt"
	"time"

	"github.com/go-gomail/gomail"

	"github.com/cureconnect/cureconnect/internal/config"
)

type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) AppointmentRescheduled(to, patientName, doctorName string, date time.Time, timeSlot string) error {
	subject := "Your appointment has been rescheduled"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment with Dr. %s has been moved to %s at %s.\n\nIf this time does not work for you, please cancel and rebook.\n\nCureConnect",
		patientName, doctorName, date.Format("Monday, 2 January 2006"), timeSlot,
	)
	return m.send(to, subject, body)
}

func (m *Mailer) AppointmentStatusChanged(to, patientName, doctorName, status string, date time.Time, timeSlot string) error {
	subject := fmt.Sprintf("Your appointment is now %s", status)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment with Dr. %s on %s at %s is now %s.\n\nCureConnect",
		patientName, doctorName, date.Format("Monday, 2 January 2006"), timeSlot, status,
	)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
