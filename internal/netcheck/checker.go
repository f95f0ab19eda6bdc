// Package netcheck performs the advisory connectivity probe run before each request.
package netcheck

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Probe defaults
const (
	DefaultURL     = "https://www.google.com"
	DefaultTimeout = 5 * time.Second
)

// Checker fetches a well-known URL to decide whether the network is usable
type Checker struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	logger  *zap.Logger
}

// NewChecker creates a checker; empty url and zero timeout select the defaults
func NewChecker(url string, timeout time.Duration, logger *zap.Logger) *Checker {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Reachable reports whether the probe URL answered with a non-error status.
// The cause of a failure is logged but not returned.
func (c *Checker) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		c.logger.Warn("connectivity probe: bad request", zap.String("url", c.URL), zap.Error(err))
		return false
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("connectivity probe failed", zap.String("url", c.URL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("connectivity probe: error status",
			zap.String("url", c.URL),
			zap.Int("status", resp.StatusCode),
		)
		return false
	}
	return true
}
