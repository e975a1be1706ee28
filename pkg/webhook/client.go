package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
	"time"
)

var (
	ErrDisabled = errors.New("webhook disabled")
	ErrClosed   = errors.New("webhook client closed")
)

// StatusError is returned when the receiver answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.StatusCode)
}

// Client posts JSON payloads to the configured webhook URL. It makes exactly
// one attempt per Notify call.
type Client struct {
	cfg    Config
	client *http.Client
	closed int32
}

// NewClient creates a webhook client. An empty cfg.URL yields a client whose
// Notify returns ErrDisabled.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if cfg.URL != "" {
		u, err := url.ParseRequestURI(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid webhook url scheme %q", u.Scheme)
		}
	}

	logger.Info("webhook: NewClient created", slog.Bool("enabled", cfg.Enabled()), slog.Duration("timeout", cfg.Timeout))

	return &Client{cfg: cfg, client: httpClient}, nil
}

func NewDefaultClient(cfg Config) (*Client, error) {
	defaultClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, defaultClient)
}

// Enabled reports whether Notify will attempt delivery.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled()
}

// Notify POSTs payload as JSON. The attempt is bounded by the configured
// timeout in addition to any deadline on ctx.
func (c *Client) Notify(ctx context.Context, payload any) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClosed
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	logger.Debug("webhook: delivered", slog.Int("status", resp.StatusCode), slog.Duration("latency", time.Since(start)))

	return nil
}

// Close releases idle connections on the underlying transport. Close is
// idempotent and safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil {
		c.client.CloseIdleConnections()
		logger.Info("webhook: client Close() called - idle connections released")
	}
	return nil
}

// package-level logger for pkg/webhook; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/webhook. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
