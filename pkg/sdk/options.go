package geoknow

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/geoknow/internal/version"
)

// DefaultTimeout bounds a single request unless overridden.
const DefaultTimeout = 2 * time.Minute

// Option customizes New.
type Option func(*settings)

type settings struct {
	hc        *http.Client
	timeout   time.Duration
	userAgent string
	log       *slog.Logger
	reg       prometheus.Registerer
}

func newSettings(opts []Option) *settings {
	s := &settings{timeout: DefaultTimeout}
	for _, o := range opts {
		o(s)
	}
	if s.hc == nil {
		s.hc = &http.Client{Timeout: s.timeout}
	}
	if s.userAgent == "" {
		s.userAgent = version.String()
	}
	return s
}

// WithHTTPClient replaces the underlying HTTP client. Its own Timeout
// applies and WithTimeout is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.hc = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it, which suits
// long answer streams.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithLogger logs every call at debug level and failures at warn.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithPrometheus registers per-operation call metrics on reg.
func WithPrometheus(reg prometheus.Registerer) Option {
	return func(s *settings) { s.reg = reg }
}
