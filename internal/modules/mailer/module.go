package mailer

import (
	"github.com/imsoft/cursumi/internal/modules/mailer/application"
	resendInfra "github.com/imsoft/cursumi/internal/modules/mailer/infrastructure/resend"
	mailerHttp "github.com/imsoft/cursumi/internal/modules/mailer/interfaces/http"
	"github.com/imsoft/cursumi/internal/shared/infrastructure/config"
)

// Module represents the Mailer module
type Module struct {
	service *application.MailerService
	handler *mailerHttp.ContactHandler
}

// NewModule creates and initializes the Mailer module
func NewModule(cfg config.EmailConfig) *Module {
	sender := resendInfra.NewClient(cfg.ResendAPIKey)
	service := application.NewMailerService(sender, cfg.FromAddress, cfg.ContactFrom, cfg.ContactRecipient)
	handler := mailerHttp.NewContactHandler(service)

	return &Module{
		service: service,
		handler: handler,
	}
}

// Service returns the mailer service for use by other modules
func (m *Module) Service() *application.MailerService {
	return m.service
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *mailerHttp.ContactHandler {
	return m.handler
}
