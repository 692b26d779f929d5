// Package mail sends transactional booking emails over SMTP.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	const op = "mail.send"

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// SendBookingConfirmation notifies the guest that their booking went through.
func (m *Mailer) SendBookingConfirmation(to, guestName, activityTitle, date, slotLabel string, guests int) error {
	subject := "Booking Confirmed: " + activityTitle
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your booking for <b>%s</b> is confirmed.</p>
<p>Date: %s<br>Time: %s<br>Guests: %d</p>
<p>We hope you have a great experience!</p>`,
		guestName, activityTitle, date, slotLabel, guests,
	)
	return m.send(to, subject, body)
}

// SendHostBookingNotice notifies the host about a new booking on their activity.
func (m *Mailer) SendHostBookingNotice(to, hostName, activityTitle, date, slotLabel string, guests int) error {
	subject := "New Booking: " + activityTitle
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You have a new booking for <b>%s</b>.</p>
<p>Date: %s<br>Time: %s<br>Guests: %d</p>
<p>Please be ready to welcome your guests.</p>`,
		hostName, activityTitle, date, slotLabel, guests,
	)
	return m.send(to, subject, body)
}

// SendFeedbackReminder asks a guest to review an activity they attended.
func (m *Mailer) SendFeedbackReminder(to, guestName, activityTitle, date, slotLabel string) error {
	subject := "How was " + activityTitle + "?"
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You recently attended <b>%s</b> on %s (%s).</p>
<p>Your feedback helps other travellers and your host. It only takes a minute!</p>`,
		guestName, activityTitle, date, slotLabel,
	)
	return m.send(to, subject, body)
}
