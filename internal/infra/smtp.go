package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"printmonitor/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending reports.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *Mailer) Configurado() bool { return m.host != "" }

// EnviarRelatorio mails a PDF report as an in-memory attachment.
func (m *Mailer) EnviarRelatorio(to, subject, body, nomeArquivo string, pdf []byte) error {
	if !m.Configurado() {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	e := m.montarEmail(to, subject, body)
	if len(pdf) > 0 {
		if _, err := e.Attach(bytes.NewReader(pdf), nomeArquivo, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

func (m *Mailer) montarEmail(to, subject, body string) *email.Email {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	return e
}
