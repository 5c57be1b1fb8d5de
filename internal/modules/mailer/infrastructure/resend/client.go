package resend

import (
	"context"

	"github.com/imsoft/cursumi/internal/modules/mailer/domain"
	"github.com/resend/resend-go/v2"
)

// Client implements domain.Sender on top of the Resend API.
type Client struct {
	client *resend.Client
}

func NewClient(apiKey string) *Client {
	return &Client{client: resend.NewClient(apiKey)}
}

func (c *Client) Send(ctx context.Context, email *domain.Email) error {
	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	}
	if email.ReplyTo != "" {
		params.ReplyTo = email.ReplyTo
	}

	_, err := c.client.Emails.SendWithContext(ctx, params)
	return err
}
