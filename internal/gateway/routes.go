package gateway

import (
	"net/http"

	catalog_http "github.com/imsoft/cursumi/internal/modules/catalog/interfaces/http"
	checkout_http "github.com/imsoft/cursumi/internal/modules/checkout/interfaces/http"
	download_http "github.com/imsoft/cursumi/internal/modules/download/interfaces/http"
	mailer_http "github.com/imsoft/cursumi/internal/modules/mailer/interfaces/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds all the handlers needed for routing
type RouterConfig struct {
	EbookHandler    *catalog_http.EbookHandler
	CheckoutHandler *checkout_http.CheckoutHandler
	DownloadHandler *download_http.DownloadHandler
	ContactHandler  *mailer_http.ContactHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Catalog Routes
	mux.HandleFunc("GET /api/ebooks", config.EbookHandler.List)
	mux.HandleFunc("GET /api/ebooks/popular", config.EbookHandler.Popular)
	mux.HandleFunc("GET /api/ebooks/{id}", config.EbookHandler.Get)

	// Checkout Routes
	mux.HandleFunc("POST /api/checkout", config.CheckoutHandler.CreateSession)
	mux.HandleFunc("POST /api/webhooks/stripe", config.CheckoutHandler.Webhook)
	mux.HandleFunc("GET /api/purchases", config.CheckoutHandler.ListPurchases)

	// Download Routes
	mux.HandleFunc("GET /download/{id}", config.DownloadHandler.Serve)

	// Contact Routes
	mux.HandleFunc("POST /api/contact", config.ContactHandler.Submit)

	return mux
}
