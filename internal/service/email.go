package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// LoginLinkSender dispatches magic-link emails. The auth service only needs
// this one operation, so tests can swap in a fake.
type LoginLinkSender interface {
	SendLoginLink(ctx context.Context, to, loginURL string) error
}

const sendTimeout = 10 * time.Second

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendLoginLink mails the magic-link URL. In development the mail is logged
// instead of sent so the link can be copied from the server output.
func (s *EmailService) SendLoginLink(ctx context.Context, to, loginURL string) error {
	subject, body := loginLinkTemplate(loginURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "magic_link", "to", to, "subject", subject, "url", loginURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "magic_link", "to", to)
	}
	return err
}

func loginLinkTemplate(loginURL, appName string) (subject, body string) {
	subject = fmt.Sprintf("Kirjautumislinkki - %s", appName)
	body = fmt.Sprintf(`Hei,

Kirjaudu sisään palveluun %s klikkaamalla alla olevaa linkkiä:

%s

Linkki on voimassa 15 minuuttia ja sen voi käyttää vain kerran.

Jos et pyytänyt tätä kirjautumislinkkiä, voit jättää tämän viestin huomiotta.

Terveisin,
%s`, appName, loginURL, appName)
	return subject, body
}
