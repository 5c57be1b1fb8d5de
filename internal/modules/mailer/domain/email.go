package domain

import "context"

// Email is a provider-agnostic transactional message.
type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// DownloadItem is one purchased ebook entry in a confirmation email.
type DownloadItem struct {
	Title string `json:"title"`
	URL   string `json:"download_url"`
}

// Sender delivers email through the transactional provider.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
