package model

import (
	"net"
	"strconv"
)

// ProxyProtocol is the scheme used to talk to a proxy endpoint
type ProxyProtocol string

const (
	ProxyHTTP   ProxyProtocol = "http"
	ProxyHTTPS  ProxyProtocol = "https"
	ProxySOCKS5 ProxyProtocol = "socks5"
)

// IsKnown reports whether the protocol is one we can probe
func (p ProxyProtocol) IsKnown() bool {
	return p == ProxyHTTP || p == ProxyHTTPS || p == ProxySOCKS5
}

// ProxyEndpoint is one entry of the proxy list file
type ProxyEndpoint struct {
	Host     string
	Port     int
	Protocol ProxyProtocol
}

// Address returns host:port
func (p ProxyEndpoint) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL returns the proxy URL handed to the extractor
func (p ProxyEndpoint) URL() string {
	return string(p.Protocol) + "://" + p.Address()
}
