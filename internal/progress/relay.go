package progress

import (
	"math"
	"sync"

	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/model"
)

// NotifyStep is the width in percentage points of one notification band
const NotifyStep = 10.0

// Notifier emits an outward progress message. It must not block.
type Notifier func(text string)

// IndicatorFactory opens a fresh local indicator for one transferred stream
type IndicatorFactory func() Indicator

// Relay holds the progress state of exactly one download request.
// A merged download reports video and audio streams one after another; each
// stream gets its own indicator and its own notification bands. The
// completion notice belongs to the caller, which knows when the merge is done.
type Relay struct {
	mu           sync.Mutex
	newIndicator IndicatorFactory
	indicator    Indicator
	notify       Notifier
	loc          *i18n.Localization
	lastReported float64
	lastBand     int
}

// NewRelay creates a relay. A nil factory draws nothing, a nil notify
// disables outward notifications.
func NewRelay(newIndicator IndicatorFactory, notify Notifier, loc *i18n.Localization) *Relay {
	if newIndicator == nil {
		newIndicator = func() Indicator { return NopIndicator{} }
	}
	if loc == nil {
		loc = i18n.NewLocalization(i18n.LangEnglish)
	}
	return &Relay{
		newIndicator: newIndicator,
		notify:       notify,
		loc:          loc,
	}
}

// Handle consumes one progress record from the download engine
func (r *Relay) Handle(ev model.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Status {
	case model.ProgressStatusDownloading:
		if r.indicator == nil {
			r.indicator = r.newIndicator()
		}
		percent := ev.Percent()
		r.indicator.Update(ev.DownloadedBytes, ev.TotalBytes, percent)

		band := int(math.Floor(percent / NotifyStep))
		if r.notify != nil && band > r.lastBand {
			r.lastBand = band
			r.lastReported = percent
			r.notify(r.loc.Format(i18n.KeyProgress, percent))
		}
	case model.ProgressStatusFinished:
		r.closeIndicator()
		r.lastBand = 0
	case model.ProgressStatusError:
		r.closeIndicator()
	}
}

// Close releases the local indicator if a transfer ended without a finished record
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeIndicator()
}

// LastReported returns the percentage of the last outward notification
func (r *Relay) LastReported() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReported
}

func (r *Relay) closeIndicator() {
	if r.indicator != nil {
		r.indicator.Close()
		r.indicator = nil
	}
}
