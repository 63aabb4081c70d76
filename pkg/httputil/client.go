package httputil

import (
	"net"
	"net/http"
	"time"
)

// NewClient returns an HTTP client whose requests time out after timeout.
// Dial and TLS handshakes get a tighter bound so dead hosts fail fast and
// the retry policy can move on.
func NewClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 10 * time.Second
	return &http.Client{Timeout: timeout, Transport: transport}
}
