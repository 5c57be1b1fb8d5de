package catalog

import (
	"github.com/imsoft/cursumi/internal/modules/catalog/application"
	"github.com/imsoft/cursumi/internal/modules/catalog/domain"
	persistence "github.com/imsoft/cursumi/internal/modules/catalog/infrastructure/persistence/postgres"
	catalogHttp "github.com/imsoft/cursumi/internal/modules/catalog/interfaces/http"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Module represents the Catalog module
type Module struct {
	repo    *persistence.PgEbookRepository
	service application.CatalogService
	handler *catalogHttp.EbookHandler
}

// NewModule creates and initializes the Catalog module
func NewModule(db *sqlx.DB, redisClient *redis.Client) *Module {
	repo := persistence.NewEbookRepository(db)
	service := application.NewCatalogService(repo)
	handler := catalogHttp.NewEbookHandler(service, redisClient)

	return &Module{
		repo:    repo,
		service: service,
		handler: handler,
	}
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *catalogHttp.EbookHandler {
	return m.handler
}

// Finder returns the read interface consumed by the checkout and
// download modules.
func (m *Module) Finder() domain.EbookFinder {
	return m.repo
}
