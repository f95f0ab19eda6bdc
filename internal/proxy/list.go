// Package proxy reads the proxy list file and picks the first live endpoint.
package proxy

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/model"
)

// LoadList reads host:port:protocol lines from path. A missing file yields no endpoints.
func LoadList(path string, logger *zap.Logger) ([]model.ProxyEndpoint, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("proxy list not found, continuing without proxies", zap.String("path", path))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return ParseList(f, logger)
}

// ParseList parses proxy lines, skipping comments, blanks and malformed entries
func ParseList(r io.Reader, logger *zap.Logger) ([]model.ProxyEndpoint, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var endpoints []model.ProxyEndpoint
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ep, reason := parseLine(line)
		if reason != "" {
			logger.Warn("skipping malformed proxy line",
				zap.Int("line", lineNo),
				zap.String("entry", line),
				zap.String("reason", reason),
			)
			continue
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, scanner.Err()
}

func parseLine(line string) (model.ProxyEndpoint, string) {
	parts := strings.Split(line, ":")
	if len(parts) != 3 {
		return model.ProxyEndpoint{}, "expected host:port:protocol"
	}

	host := strings.TrimSpace(parts[0])
	if host == "" {
		return model.ProxyEndpoint{}, "empty host"
	}
	port, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || port < 1 || port > 65535 {
		return model.ProxyEndpoint{}, "invalid port"
	}
	protocol := model.ProxyProtocol(strings.ToLower(strings.TrimSpace(parts[2])))
	if !protocol.IsKnown() {
		return model.ProxyEndpoint{}, "unknown protocol"
	}

	return model.ProxyEndpoint{Host: host, Port: port, Protocol: protocol}, ""
}
