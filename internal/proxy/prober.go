package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	xproxy "golang.org/x/net/proxy"

	"github.com/ytget/yt-grabber/internal/model"
)

// Probe defaults
const (
	DefaultTimeout    = 5 * time.Second
	DefaultSOCKSProbe = "www.youtube.com:443"
	DefaultHTTPProbe  = "https://www.youtube.com"
)

// Prober test-connects proxy endpoints one after another
type Prober struct {
	SOCKSTarget string
	HTTPTarget  string
	Timeout     time.Duration

	logger *zap.Logger
	check  func(ctx context.Context, ep model.ProxyEndpoint) error
}

// NewProber creates a prober with the default targets and timeout
func NewProber(logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Prober{
		SOCKSTarget: DefaultSOCKSProbe,
		HTTPTarget:  DefaultHTTPProbe,
		Timeout:     DefaultTimeout,
		logger:      logger,
	}
	p.check = p.probe
	return p
}

// Select returns the URL of the first live endpoint. Endpoints are tried in
// order without retries; false means none answered.
func (p *Prober) Select(ctx context.Context, endpoints []model.ProxyEndpoint) (string, bool) {
	for _, ep := range endpoints {
		if ctx.Err() != nil {
			return "", false
		}
		if err := p.check(ctx, ep); err != nil {
			p.logger.Warn("proxy is not usable",
				zap.String("proxy", ep.URL()),
				zap.Error(err),
			)
			continue
		}
		p.logger.Info("proxy is live", zap.String("proxy", ep.URL()))
		return ep.URL(), true
	}
	return "", false
}

func (p *Prober) probe(ctx context.Context, ep model.ProxyEndpoint) error {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	if ep.Protocol == model.ProxySOCKS5 {
		return p.probeSOCKS(ctx, ep)
	}
	return p.probeHTTP(ctx, ep)
}

// probeSOCKS treats a completed SOCKS5 connect to the target as liveness
func (p *Prober) probeSOCKS(ctx context.Context, ep model.ProxyEndpoint) error {
	dialer, err := xproxy.SOCKS5("tcp", ep.Address(), nil, &net.Dialer{Timeout: p.Timeout})
	if err != nil {
		return fmt.Errorf("socks5 dialer: %w", err)
	}

	var conn net.Conn
	if cd, ok := dialer.(xproxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", p.SOCKSTarget)
	} else {
		conn, err = dialer.Dial("tcp", p.SOCKSTarget)
	}
	if err != nil {
		return fmt.Errorf("socks5 connect: %w", err)
	}
	return conn.Close()
}

// probeHTTP sends HEAD through the endpoint; 200, 301 and 302 count as live
func (p *Prober) probeHTTP(ctx context.Context, ep model.ProxyEndpoint) error {
	proxyURL, err := url.Parse(ep.URL())
	if err != nil {
		return fmt.Errorf("proxy url: %w", err)
	}

	client := &http.Client{
		Timeout:   p.Timeout,
		Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.HTTPTarget, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("head via proxy: %w", err)
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return nil
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
