package email

import (
	"fmt"

	"timebridge_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Sender отправляет почту через SMTP. Используется для связи с автором
// объявления без раскрытия его адреса отправителю.
type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Email.FromEmail, s.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUsername,
		s.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// SendContact relays a message about a post to its owner.
func (s *Sender) SendContact(ownerEmail, postID, fromName, fromEmail, message string) error {
	subject := fmt.Sprintf("Сообщение по объявлению %s", postID)
	body := fmt.Sprintf(
		"<p>Вам написали по объявлению <b>%s</b>.</p><p>От: %s (%s)</p><p>%s</p>",
		postID, fromName, fromEmail, message,
	)
	return s.Send(ownerEmail, subject, body)
}
