// Package metrics registers the process's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeOffline   = "offline"
	OutcomeCancelled = "cancelled"
	OutcomeBusy      = "busy"
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeNoFormats = "no_formats"
	OutcomeUnhandled = "unexpected"
)

// Phase labels
const (
	PhaseInspect  = "inspect"
	PhaseDownload = "download"
)

// Gauges
var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yt_grabber_active_sessions",
		Help: "Number of chats with a pending question or a running call",
	})
)

// Counters
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_grabber_requests_total",
		Help: "Total incoming URLs by outcome",
	}, []string{"outcome"})
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_grabber_downloads_total",
		Help: "Total downloads by outcome",
	}, []string{"outcome"})
	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yt_grabber_notifications_sent_total",
		Help: "Total chat notifications handed to the transport",
	})
	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yt_grabber_notifications_dropped_total",
		Help: "Notifications dropped because the queue was full",
	})
	CookieChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_grabber_cookie_checks_total",
		Help: "Cookie file validations by status",
	}, []string{"status"})
)

// Histograms
var (
	ExtractorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yt_grabber_extractor_duration_seconds",
		Help:    "Extractor call duration in seconds by phase",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 180, 600, 1800},
	}, []string{"phase"})
)
