package model

import (
	"strings"
	"testing"
)

func TestMediaInfo_GetDurationString(t *testing.T) {
	tests := []struct {
		duration float64
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{10000, "02:46:40"},
	}

	for _, test := range tests {
		info := &MediaInfo{Duration: test.duration}
		result := info.GetDurationString()
		if result != test.expected {
			t.Errorf("GetDurationString() with Duration=%v = %s, expected %s", test.duration, result, test.expected)
		}
	}
}

func TestMediaInfo_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Video Title", "Video Title"},
		{"  padded  ", "padded"},
		{"", "video"},
	}

	for _, test := range tests {
		info := &MediaInfo{Title: test.title}
		if result := info.GetDisplayTitle(); result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s' = '%s', expected '%s'", test.title, result, test.expected)
		}
	}
}

func TestProgressEvent_Percent(t *testing.T) {
	tests := []struct {
		downloaded int64
		total      int64
		expected   float64
	}{
		{0, 0, 0},
		{50, 0, 0},
		{25, 100, 25},
		{100, 100, 100},
	}

	for _, test := range tests {
		ev := ProgressEvent{DownloadedBytes: test.downloaded, TotalBytes: test.total}
		if result := ev.Percent(); result != test.expected {
			t.Errorf("Percent() with %d/%d = %v, expected %v", test.downloaded, test.total, result, test.expected)
		}
	}
}

func TestNewRequestID(t *testing.T) {
	id1 := NewRequestID()
	id2 := NewRequestID()

	if id1 == id2 {
		t.Error("Expected different request IDs")
	}

	if !strings.HasPrefix(id1, RequestIDPrefix) {
		t.Errorf("Expected ID to start with '%s', got: %s", RequestIDPrefix, id1)
	}

	// prefix + 36 chars of UUID
	if len(id1) != len(RequestIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(RequestIDPrefix)+36, len(id1), id1)
	}
}

func TestNewDownloadRequest(t *testing.T) {
	req := NewDownloadRequest("https://youtube.com/watch?v=test", "137")

	if req.URL != "https://youtube.com/watch?v=test" {
		t.Errorf("Expected URL to be preserved, got '%s'", req.URL)
	}
	if req.FormatID != "137" {
		t.Errorf("Expected format '137', got '%s'", req.FormatID)
	}
	if req.Proxy != "" {
		t.Errorf("Expected no proxy, got '%s'", req.Proxy)
	}
}

func TestFormat_SizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		expected int64
	}{
		{"declared wins", Format{FileSize: 10, FileSizeApprox: 20}, 10},
		{"estimate fallback", Format{FileSizeApprox: 20}, 20},
		{"unknown", Format{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.SizeBytes(); got != tt.expected {
				t.Errorf("SizeBytes() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestProxyEndpoint_URL(t *testing.T) {
	tests := []struct {
		endpoint ProxyEndpoint
		expected string
	}{
		{ProxyEndpoint{Host: "1.2.3.4", Port: 8080, Protocol: ProxyHTTP}, "http://1.2.3.4:8080"},
		{ProxyEndpoint{Host: "proxy.local", Port: 1080, Protocol: ProxySOCKS5}, "socks5://proxy.local:1080"},
	}

	for _, test := range tests {
		if got := test.endpoint.URL(); got != test.expected {
			t.Errorf("URL() = %s, expected %s", got, test.expected)
		}
	}
}
