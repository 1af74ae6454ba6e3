// Package httpserver constructs the process http.Server. Timeouts live here
// so cmd/server stays wiring-only.
package httpserver

import (
	"net/http"
	"time"
)

// New returns the server for the compliance API. Header reads are bounded so
// a stalled client cannot pin a connection before routing; idle keep-alives
// are reclaimed after a minute.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
