package mail

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 5 * time.Second

type Email struct {
	Subject string
	Body    string
	From    string
	To      []string
}

type Mailer interface {
	SendMail(e *Email) error
}

type Mailgun struct {
	domain  string
	apiKey  string
	apiBase string
}

func NewMailer(domain, apiKey, apiBase string) *Mailgun {
	return &Mailgun{
		domain:  domain,
		apiKey:  apiKey,
		apiBase: apiBase,
	}
}

func (m *Mailgun) SendMail(e *Email) error {
	mg := mailgun.NewMailgun(m.domain, m.apiKey)
	if m.apiBase != "" {
		mg.SetAPIBase(m.apiBase)
	}

	message := mailgun.NewMessage(e.From, e.Subject, e.Body, e.To...)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, _, err := mg.Send(ctx, message)
	return err
}

// NopMailer drops every message. Used when no mail provider is configured.
type NopMailer struct{}

func (NopMailer) SendMail(*Email) error {
	return nil
}

// New picks Mailgun when a domain and key are configured.
func New(domain, apiKey, apiBase string) Mailer {
	if domain == "" || apiKey == "" {
		return NopMailer{}
	}
	return NewMailer(domain, apiKey, apiBase)
}
