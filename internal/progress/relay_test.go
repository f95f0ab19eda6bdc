package progress

import (
	"strings"
	"testing"

	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/model"
)

type recordingIndicator struct {
	updates []float64
	closed  int
}

func (r *recordingIndicator) Update(_, _ int64, percent float64) {
	r.updates = append(r.updates, percent)
}

func (r *recordingIndicator) Close() {
	r.closed++
}

func downloading(percent int64) model.ProgressEvent {
	return model.ProgressEvent{
		Status:          model.ProgressStatusDownloading,
		DownloadedBytes: percent,
		TotalBytes:      100,
	}
}

func TestRelay_NotifiesOncePerBand(t *testing.T) {
	var sent []string
	var indicators []*recordingIndicator
	relay := NewRelay(func() Indicator {
		ind := &recordingIndicator{}
		indicators = append(indicators, ind)
		return ind
	}, func(text string) { sent = append(sent, text) }, i18n.NewLocalization(i18n.LangEnglish))

	for _, p := range []int64{0, 5, 12, 18, 25, 33} {
		relay.Handle(downloading(p))
	}

	expected := []string{
		"Download progress: 12.0%",
		"Download progress: 25.0%",
		"Download progress: 33.0%",
	}
	if strings.Join(sent, "|") != strings.Join(expected, "|") {
		t.Errorf("Expected notifications %v, got %v", expected, sent)
	}
	if relay.LastReported() != 33 {
		t.Errorf("Expected last reported 33, got %v", relay.LastReported())
	}

	if len(indicators) != 1 {
		t.Fatalf("Expected one indicator, got %d", len(indicators))
	}
	if len(indicators[0].updates) != 6 {
		t.Errorf("Expected indicator updated on every event, got %d updates", len(indicators[0].updates))
	}
}

func TestRelay_AtMostOnePerBand(t *testing.T) {
	count := 0
	relay := NewRelay(nil, func(string) { count++ }, nil)

	// jitter inside a band and a jump across several bands
	for _, p := range []int64{1, 9, 10, 11, 19, 19, 55, 56, 100} {
		relay.Handle(downloading(p))
	}

	// bands 1, 5 and 10
	if count != 3 {
		t.Errorf("Expected 3 notifications, got %d", count)
	}
}

func TestRelay_UnknownTotal(t *testing.T) {
	count := 0
	relay := NewRelay(nil, func(string) { count++ }, nil)

	relay.Handle(model.ProgressEvent{Status: model.ProgressStatusDownloading, DownloadedBytes: 5000})
	if count != 0 {
		t.Errorf("Expected no notification without a total, got %d", count)
	}
}

func TestRelay_FinishedClosesIndicator(t *testing.T) {
	var sent []string
	var indicators []*recordingIndicator
	relay := NewRelay(func() Indicator {
		ind := &recordingIndicator{}
		indicators = append(indicators, ind)
		return ind
	}, func(text string) { sent = append(sent, text) }, i18n.NewLocalization(i18n.LangRussian))

	relay.Handle(downloading(50))
	relay.Handle(model.ProgressEvent{Status: model.ProgressStatusFinished})
	// audio stream of a merged download
	relay.Handle(downloading(20))
	relay.Handle(model.ProgressEvent{Status: model.ProgressStatusFinished})

	if len(indicators) != 2 {
		t.Fatalf("Expected a fresh indicator per stream, got %d", len(indicators))
	}
	for i, ind := range indicators {
		if ind.closed != 1 {
			t.Errorf("Indicator %d closed %d times, expected 1", i, ind.closed)
		}
	}

	expected := []string{
		"Прогресс загрузки: 50.0%",
		"Прогресс загрузки: 20.0%",
	}
	if strings.Join(sent, "|") != strings.Join(expected, "|") {
		t.Errorf("Expected per-stream bands %v, got %v", expected, sent)
	}
	for _, s := range sent {
		if s == "Загрузка завершена!" {
			t.Errorf("Expected no completion notice from the relay, got %v", sent)
		}
	}
}

func TestRelay_NoNotifierStillDrivesIndicator(t *testing.T) {
	ind := &recordingIndicator{}
	relay := NewRelay(func() Indicator { return ind }, nil, nil)

	relay.Handle(downloading(40))
	relay.Handle(downloading(80))
	relay.Close()

	if len(ind.updates) != 2 {
		t.Errorf("Expected 2 updates, got %d", len(ind.updates))
	}
	if ind.closed != 1 {
		t.Errorf("Expected indicator closed once, got %d", ind.closed)
	}
	if relay.LastReported() != 0 {
		t.Errorf("Expected nothing reported without a notifier, got %v", relay.LastReported())
	}
}

func TestRelay_IgnoresOtherStatuses(t *testing.T) {
	count := 0
	relay := NewRelay(nil, func(string) { count++ }, nil)

	relay.Handle(model.ProgressEvent{Status: model.ProgressStatusStarting})
	relay.Handle(model.ProgressEvent{Status: model.ProgressStatusPostProcessing})
	if count != 0 {
		t.Errorf("Expected no notifications, got %d", count)
	}
}
