package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	// Team logos are small; anything larger is not a logo.
	maxImageBytes = 1 << 20
)

var (
	// ErrEmptyURL is returned when there is nothing to resolve.
	ErrEmptyURL = errors.New("images: empty url")
	// ErrTooLarge is returned when an image body exceeds maxImageBytes.
	ErrTooLarge = errors.New("images: body too large")
)

// Encoder turns a remote image URL into an opaque reference a display client can render.
type Encoder interface {
	Encode(ctx context.Context, url string) (string, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(ctx context.Context, url string) (string, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPEncoder downloads an image and returns it as a base64 data URI.
type HTTPEncoder struct {
	client httpDoer
}

// NewHTTPEncoder builds an encoder; a nil client gets a default with a timeout.
func NewHTTPEncoder(client *http.Client) *HTTPEncoder {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPEncoder{client: client}
}

// Encode fetches url and returns "data:<mime>;base64,<payload>".
func (e *HTTPEncoder) Encode(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", ErrEmptyURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("images: unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > maxImageBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, maxImageBytes)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("images: empty body for %s", url)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(body)
	}
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// Passthrough returns the URL untouched; the display client fetches it itself.
type Passthrough struct{}

// Encode returns url, failing only when it is blank.
func (Passthrough) Encode(_ context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", ErrEmptyURL
	}
	return url, nil
}

// Noop never resolves logos.
type Noop struct{}

// Encode always returns an empty reference.
func (Noop) Encode(context.Context, string) (string, error) {
	return "", nil
}

// CachingEncoder memoizes successful encodings by URL. Failures are retried on the next call.
type CachingEncoder struct {
	inner Encoder

	mu    sync.RWMutex
	cache map[string]string
}

// NewCachingEncoder wraps inner with a URL-keyed cache.
func NewCachingEncoder(inner Encoder) *CachingEncoder {
	return &CachingEncoder{inner: inner, cache: make(map[string]string)}
}

// Encode returns the cached reference for url or resolves and stores it.
func (c *CachingEncoder) Encode(ctx context.Context, url string) (string, error) {
	c.mu.RLock()
	ref, ok := c.cache[url]
	c.mu.RUnlock()
	if ok {
		return ref, nil
	}

	ref, err := c.inner.Encode(ctx, url)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[url] = ref
	c.mu.Unlock()
	return ref, nil
}

// Len reports how many references are cached.
func (c *CachingEncoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Modes accepted by New.
const (
	ModeEncode      = "encode"
	ModePassthrough = "passthrough"
	ModeNone        = "none"
)

// New builds the encoder for a configured mode. Unknown modes encode.
func New(mode string, client *http.Client) Encoder {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModePassthrough:
		return Passthrough{}
	case ModeNone:
		return Noop{}
	default:
		return NewCachingEncoder(NewHTTPEncoder(client))
	}
}
