package requestutil

import (
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

var newUUID = uuid.NewRandom

// SanitizeRequestID keeps a well-formed incoming X-Request-ID and mints a new one otherwise.
func SanitizeRequestID(incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming != "" && requestIDPattern.MatchString(incoming) {
		return incoming
	}
	return NewRequestID()
}

// NewRequestID returns a random UUID, or a timestamp id when the entropy source fails.
func NewRequestID() string {
	if id, err := newUUID(); err == nil {
		return id.String()
	}
	return "req-" + time.Now().UTC().Format("20060102T150405.000000000")
}

// ClientIP returns the caller address: the first X-Forwarded-For hop, then
// X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
