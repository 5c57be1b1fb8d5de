package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 20 * time.Second
)

// Server wraps the storefront HTTP listener with signal-driven shutdown.
type Server struct {
	httpServer *http.Server
	port       string
}

func NewServer(port string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		port: port,
	}
}

// Start serves until the listener fails or the process receives
// SIGINT/SIGTERM, then drains in-flight requests before returning.
func (s *Server) Start() error {
	listenErr := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on :%s", s.port)
		listenErr <- s.httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on :%s: %w", s.port, err)
	case sig := <-stop:
		log.Printf("[Server] %v received, draining requests", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.httpServer.Close()
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("[Server] stopped")
	return nil
}
