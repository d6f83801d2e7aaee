package mailer

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"gopkg.in/mail.v2"
)

type SMTPMailer struct {
	fromEmail string
	fromName  string
	send      func(...*mail.Message) error
	backoff   time.Duration
}

func NewSMTPMailer(host string, port int, username, password, fromEmail, fromName string, timeout time.Duration) (*SMTPMailer, error) {
	if username == "" || password == "" {
		return nil, ErrNotConfigured
	}
	if fromEmail == "" {
		fromEmail = username
	}

	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = timeout

	return &SMTPMailer{
		fromEmail: fromEmail,
		fromName:  fromName,
		send:      dialer.DialAndSend,
		backoff:   time.Second,
	}, nil
}

// newWithSender builds a mailer that hands messages to sender instead of an
// SMTP server.
func newWithSender(sender mail.Sender, fromEmail, fromName string) *SMTPMailer {
	return &SMTPMailer{
		fromEmail: fromEmail,
		fromName:  fromName,
		send: func(msgs ...*mail.Message) error {
			return mail.Send(sender, msgs...)
		},
		backoff: time.Millisecond,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, templateFile, name, email string, data any, attachments ...Attachment) error {
	subject, plain, html, err := render(templateFile, data)
	if err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetAddressHeader("From", m.fromEmail, m.fromName)
	if name != "" {
		message.SetAddressHeader("To", email, name)
	} else {
		message.SetHeader("To", email)
	}
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", plain)
	message.AddAlternative("text/html", html)

	for _, a := range attachments {
		settings := []mail.FileSetting{}
		if a.ContentType != "" {
			settings = append(settings, mail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		message.AttachReader(a.Filename, bytes.NewReader(a.Data), settings...)
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lastErr = m.send(message)
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("send email to %s: %w", email, ctx.Err())
		case <-time.After(m.backoff * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send email to %s after %d attempts: %w", email, maxRetries, lastErr)
}

func render(templateFile string, data any) (string, string, string, error) {
	path := "templates/" + templateFile

	tmpl, err := template.ParseFS(FS, path)
	if err != nil {
		return "", "", "", fmt.Errorf("parse email template %s: %w", templateFile, err)
	}
	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", "", fmt.Errorf("render email subject: %w", err)
	}
	plain := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(plain, "plainBody", data); err != nil {
		return "", "", "", fmt.Errorf("render email body: %w", err)
	}

	htmlTmpl, err := htmltemplate.ParseFS(FS, path)
	if err != nil {
		return "", "", "", fmt.Errorf("parse email template %s: %w", templateFile, err)
	}
	html := new(bytes.Buffer)
	if err := htmlTmpl.ExecuteTemplate(html, "htmlBody", data); err != nil {
		return "", "", "", fmt.Errorf("render email html: %w", err)
	}

	return strings.TrimSpace(subject.String()), strings.TrimSpace(plain.String()), html.String(), nil
}
