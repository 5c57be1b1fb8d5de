package download

import (
	catalogDomain "github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/imsoft/cursumi/internal/modules/download/application"
	tokenInfra "github.com/imsoft/cursumi/internal/modules/download/infrastructure/token"
	downloadHttp "github.com/imsoft/cursumi/internal/modules/download/interfaces/http"
	filestorageDomain "github.com/imsoft/cursumi/internal/modules/filestorage/domain"
	"github.com/imsoft/cursumi/internal/shared/infrastructure/config"
)

// Module represents the Download module: tokened link minting and signed
// URL resolution for purchased ebooks.
type Module struct {
	service application.DownloadService
	links   *application.LinkBuilder
	handler *downloadHttp.DownloadHandler
}

// NewModule creates and initializes the Download module
func NewModule(
	purchases application.PurchaseChecker,
	ebooks catalogDomain.EbookFinder,
	storage filestorageDomain.ObjectStorage,
	cfg config.DownloadConfig,
	baseURL string,
) *Module {
	issuer := tokenInfra.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	service := application.NewDownloadService(issuer, purchases, ebooks, storage, cfg.URLExpiry)
	links := application.NewLinkBuilder(issuer, baseURL)
	handler := downloadHttp.NewDownloadHandler(service)

	return &Module{
		service: service,
		links:   links,
		handler: handler,
	}
}

// LinkBuilder returns the builder other modules use to mint download links
func (m *Module) LinkBuilder() *application.LinkBuilder {
	return m.links
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *downloadHttp.DownloadHandler {
	return m.handler
}
