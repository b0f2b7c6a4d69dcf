// Package httpserver owns HTTP server construction and the port-fallback
// listen behavior the dev environment relies on.
package httpserver

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this project.
func New(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Listen binds the first free port in [port, port+span). Development setups
// often have a stale process still holding the default port; walking forward
// matches what the old dev server did.
func Listen(port, span int) (net.Listener, int, error) {
	if span < 1 {
		span = 1
	}
	var lastErr error
	for p := port; p < port+span; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err == nil {
			return ln, p, nil
		}
		lastErr = err
	}
	return nil, 0, fmt.Errorf("no free port in [%d,%d): %w", port, port+span, lastErr)
}
