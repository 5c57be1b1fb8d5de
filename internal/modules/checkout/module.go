package checkout

import (
	catalogDomain "github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/imsoft/cursumi/internal/modules/checkout/application"
	persistence "github.com/imsoft/cursumi/internal/modules/checkout/infrastructure/persistence/postgres"
	stripeInfra "github.com/imsoft/cursumi/internal/modules/checkout/infrastructure/stripe"
	checkoutHttp "github.com/imsoft/cursumi/internal/modules/checkout/interfaces/http"
	"github.com/imsoft/cursumi/internal/shared/infrastructure/config"
	"github.com/imsoft/cursumi/pkg/retry"
	"github.com/redis/go-redis/v9"
)

// Module represents the Checkout module: session creation and payment
// completion handling.
type Module struct {
	purchases   *persistence.PgPurchaseRepository
	checkout    application.CheckoutService
	fulfillment application.FulfillmentService
	handler     *checkoutHttp.CheckoutHandler
}

// NewModule creates and initializes the Checkout module. The purchase
// repository comes in from the caller because the download module shares
// it for its verified-purchase check.
func NewModule(
	purchases *persistence.PgPurchaseRepository,
	redisClient *redis.Client,
	ebooks catalogDomain.EbookFinder,
	mailer application.ConfirmationMailer,
	links application.DownloadLinkBuilder,
	stripeCfg config.StripeConfig,
	baseURL string,
) *Module {
	gateway := stripeInfra.NewGateway(stripeCfg.SecretKey, stripeCfg.WebhookSecret)

	checkoutSvc := application.NewCheckoutService(gateway, purchases, baseURL, retry.Default)
	fulfillmentSvc := application.NewFulfillmentService(gateway, purchases, ebooks, mailer, links, redisClient, retry.Default)
	handler := checkoutHttp.NewCheckoutHandler(checkoutSvc, fulfillmentSvc)

	return &Module{
		purchases:   purchases,
		checkout:    checkoutSvc,
		fulfillment: fulfillmentSvc,
		handler:     handler,
	}
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *checkoutHttp.CheckoutHandler {
	return m.handler
}
