package application

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/imsoft/cursumi/internal/modules/mailer/domain"
)

type MailerService struct {
	sender           domain.Sender
	from             string
	contactFrom      string
	contactRecipient string
}

func NewMailerService(sender domain.Sender, from, contactFrom, contactRecipient string) *MailerService {
	return &MailerService{
		sender:           sender,
		from:             from,
		contactFrom:      contactFrom,
		contactRecipient: contactRecipient,
	}
}

// SendPurchaseConfirmation emails the customer one download entry per
// purchased ebook.
func (s *MailerService) SendPurchaseConfirmation(ctx context.Context, email string, items []domain.DownloadItem) error {
	var list strings.Builder
	for _, item := range items {
		fmt.Fprintf(&list, `
    <li style="margin-bottom: 16px; padding: 16px; background: #ffffff; border: 1px solid #e5e7eb; border-radius: 8px;">
      <strong style="display: block; color: #111827; margin-bottom: 6px;">%s</strong>
      <a href="%s" style="color: #7c3aed; text-decoration: underline; font-size: 14px;">Download here</a>
    </li>`, html.EscapeString(item.Title), item.URL)
	}

	body := fmt.Sprintf(`
  <h2 style="text-align: center; color: #1e293b; font-size: 24px; margin-bottom: 12px;">🎉 Thank you for your purchase!</h2>
  <p style="text-align: center; color: #334155; font-size: 16px; margin-bottom: 24px;">
    Your payment was successful. Below you'll find your ebook(s):
  </p>
  <ul style="list-style: none; padding: 0;">%s</ul>`, list.String())

	err := s.sender.Send(ctx, &domain.Email{
		From:    s.from,
		To:      []string{email},
		Subject: "Your Cursumi Ebook Purchase",
		HTML:    emailLayout(body),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	return nil
}

// SendContactNotification forwards a contact-form submission to the fixed
// operator address, with reply-to set to the submitter.
func (s *MailerService) SendContactNotification(ctx context.Context, name, email, message string) error {
	body := fmt.Sprintf(`
  <h2 style="text-align: center; color: #1e293b; font-size: 24px; margin-bottom: 24px;">📩 Contact form message</h2>
  <div style="background: #ffffff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 20px; margin-bottom: 24px;">
    <p style="margin: 0 0 12px;"><strong style="color: #1e293b;">Name:</strong> <span style="color: #334155;">%s</span></p>
    <p style="margin: 0 0 12px;"><strong style="color: #1e293b;">Email:</strong>
      <a href="mailto:%s" style="color: #7c3aed; text-decoration: none;">%s</a>
    </p>
    <p style="margin: 0 0 8px;"><strong style="color: #1e293b;">Message:</strong></p>
    <div style="background: #f8fafc; padding: 16px; border-radius: 6px; border: 1px solid #e2e8f0; white-space: pre-wrap; color: #334155;">%s</div>
  </div>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(email),
		html.EscapeString(message),
	)

	err := s.sender.Send(ctx, &domain.Email{
		From:    s.contactFrom,
		To:      []string{s.contactRecipient},
		ReplyTo: email,
		Subject: "New Cursumi contact form message: " + name,
		HTML:    emailLayout(body),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	return nil
}

// emailLayout wraps content in the branded template shared by every
// outbound message.
func emailLayout(content string) string {
	return fmt.Sprintf(`
  <div style="font-family: 'Inter', Arial, sans-serif; background-color: #f9fafb; padding: 40px 24px; border-radius: 12px; max-width: 600px; margin: 40px auto; border: 1px solid #e2e8f0; color: #1e293b;">
    %s
    <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 32px 0;" />
    <p style="text-align: center; font-size: 14px; color: #64748b; margin: 0;">
      If you have any questions, contact us at
      <a href="mailto:cursumi.com@gmail.com" style="color: #7c3aed; text-decoration: none;">cursumi.com@gmail.com</a>.
    </p>
    <p style="text-align: center; font-size: 12px; color: #94a3b8; margin-top: 12px;">
      Cursumi — Empowering readers through digital knowledge.
    </p>
  </div>`, content)
}
