package httpserver

import (
	"net/http"
	"time"
)

// Timeouts bound how long a slow or stalled client can hold a connection.
// Zero fields fall back to the defaults below.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

// Write allows for the larger export responses; reads are short JSON bodies.
func defaultTimeouts() Timeouts {
	return Timeouts{
		ReadHeader: 5 * time.Second,
		Read:       10 * time.Second,
		Write:      30 * time.Second,
		Idle:       2 * time.Minute,
	}
}

// New builds the HTTP server for the registration API.
func New(addr string, handler http.Handler, timeouts Timeouts) *http.Server {
	defaults := defaultTimeouts()
	if timeouts.ReadHeader == 0 {
		timeouts.ReadHeader = defaults.ReadHeader
	}
	if timeouts.Read == 0 {
		timeouts.Read = defaults.Read
	}
	if timeouts.Write == 0 {
		timeouts.Write = defaults.Write
	}
	if timeouts.Idle == 0 {
		timeouts.Idle = defaults.Idle
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
		ReadTimeout:       timeouts.Read,
		WriteTimeout:      timeouts.Write,
		IdleTimeout:       timeouts.Idle,
	}
}
