package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/streamlens/streamlens/internal/logger"
)

const shutdownGrace = 5 * time.Second

// Server wraps the HTTP server hosting the proxy endpoints.
type Server struct {
	srv *http.Server
}

// New creates a server listening on addr with the proxy mounted at
// /proxy and a health probe at /healthz.
func New(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/proxy", NewProxyHandler("/proxy"))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
