package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/ytget/yt-grabber/internal/model"
)

func TestSelect_FirstLiveWins(t *testing.T) {
	endpoints := []model.ProxyEndpoint{
		{Host: "dead1", Port: 1, Protocol: model.ProxyHTTP},
		{Host: "live1", Port: 2, Protocol: model.ProxySOCKS5},
		{Host: "live2", Port: 3, Protocol: model.ProxyHTTP},
	}

	var probed []string
	p := NewProber(nil)
	p.check = func(ctx context.Context, ep model.ProxyEndpoint) error {
		probed = append(probed, ep.Host)
		if ep.Host == "dead1" {
			return errors.New("refused")
		}
		return nil
	}

	got, ok := p.Select(context.Background(), endpoints)
	if !ok {
		t.Fatal("Expected a live proxy")
	}
	if got != "socks5://live1:2" {
		t.Errorf("Expected socks5://live1:2, got %s", got)
	}
	if len(probed) != 2 || probed[0] != "dead1" || probed[1] != "live1" {
		t.Errorf("Expected sequential probing stopping at first success, got %v", probed)
	}
}

func TestSelect_Exhausted(t *testing.T) {
	p := NewProber(nil)
	calls := 0
	p.check = func(ctx context.Context, ep model.ProxyEndpoint) error {
		calls++
		return errors.New("down")
	}

	endpoints := []model.ProxyEndpoint{
		{Host: "a", Port: 1, Protocol: model.ProxyHTTP},
		{Host: "b", Port: 2, Protocol: model.ProxyHTTPS},
	}
	if got, ok := p.Select(context.Background(), endpoints); ok || got != "" {
		t.Errorf("Expected no proxy, got %q", got)
	}
	if calls != 2 {
		t.Errorf("Expected each endpoint probed once, got %d calls", calls)
	}
}

func TestSelect_Empty(t *testing.T) {
	if _, ok := NewProber(nil).Select(context.Background(), nil); ok {
		t.Error("Expected no proxy for an empty list")
	}
}

func TestSelect_CancelledContext(t *testing.T) {
	p := NewProber(nil)
	p.check = func(ctx context.Context, ep model.ProxyEndpoint) error {
		t.Error("check should not run after cancellation")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := p.Select(ctx, []model.ProxyEndpoint{{Host: "a", Port: 1, Protocol: model.ProxyHTTP}}); ok {
		t.Error("Expected no proxy for a cancelled context")
	}
}

func endpointFor(t *testing.T, rawURL string, protocol model.ProxyProtocol) model.ProxyEndpoint {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("Bad URL %s: %v", rawURL, err)
	}
	port, _ := strconv.Atoi(u.Port())
	return model.ProxyEndpoint{Host: u.Hostname(), Port: port, Protocol: protocol}
}

func TestProbeHTTP_Status(t *testing.T) {
	tests := []struct {
		status int
		live   bool
	}{
		{http.StatusOK, true},
		{http.StatusMovedPermanently, true},
		{http.StatusFound, true},
		{http.StatusForbidden, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			// acts as a forward proxy for a plain-http target
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("Expected HEAD, got %s", r.Method)
				}
				if tt.status == http.StatusFound || tt.status == http.StatusMovedPermanently {
					w.Header().Set("Location", "http://target.invalid/elsewhere")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := NewProber(nil)
			p.HTTPTarget = "http://target.invalid/"
			p.Timeout = 2 * time.Second

			err := p.probe(context.Background(), endpointFor(t, srv.URL, model.ProxyHTTP))
			if (err == nil) != tt.live {
				t.Errorf("probe() error = %v, expected live=%v", err, tt.live)
			}
		})
	}
}

// serveSOCKS5 accepts one connection and grants a CONNECT request
func serveSOCKS5(t *testing.T, ln net.Listener) {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	buf := make([]byte, 262)
	// greeting: ver, nmethods, methods...
	if _, err := io.ReadFull(conn, buf[:2]); err != nil {
		return
	}
	if _, err := io.ReadFull(conn, buf[:int(buf[1])]); err != nil {
		return
	}
	conn.Write([]byte{0x05, 0x00})

	// request: ver, cmd, rsv, atyp, addr, port
	if _, err := io.ReadFull(conn, buf[:4]); err != nil {
		return
	}
	switch buf[3] {
	case 0x01:
		io.ReadFull(conn, buf[:4+2])
	case 0x03:
		io.ReadFull(conn, buf[:1])
		io.ReadFull(conn, buf[:int(buf[0])+2])
	case 0x04:
		io.ReadFull(conn, buf[:16+2])
	}
	conn.Write([]byte{0x05, 0x00, 0x00, 0x01, 127, 0, 0, 1, 0x01, 0xbb})
}

func TestProbeSOCKS_Live(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer ln.Close()
	go serveSOCKS5(t, ln)

	p := NewProber(nil)
	p.Timeout = 2 * time.Second
	ep := endpointFor(t, "socks5://"+ln.Addr().String(), model.ProxySOCKS5)

	if err := p.probe(context.Background(), ep); err != nil {
		t.Errorf("Expected live SOCKS5 proxy, got %v", err)
	}
}

func TestProbeSOCKS_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	p := NewProber(nil)
	p.Timeout = time.Second
	ep := endpointFor(t, "socks5://"+addr, model.ProxySOCKS5)

	if err := p.probe(context.Background(), ep); err == nil {
		t.Error("Expected error for a closed SOCKS5 port")
	}
}
