package progress

import (
	"math"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// DefaultLogStep is the percentage step between two log lines of one stream
const DefaultLogStep = 25.0

// LogIndicator reports a stream's progress to the service log, where the
// bot has no terminal to draw on
type LogIndicator struct {
	mu         sync.Mutex
	logger     *zap.Logger
	step       float64
	next       float64
	downloaded int64
	total      int64
	percent    float64
	updated    bool
	closed     bool
}

// NewLogIndicator creates an indicator logging every step percentage
// points. A non-positive step means DefaultLogStep.
func NewLogIndicator(logger *zap.Logger, step float64) *LogIndicator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if step <= 0 {
		step = DefaultLogStep
	}
	return &LogIndicator{logger: logger, step: step}
}

// Update logs when the stream crosses the next step
func (l *LogIndicator) Update(downloaded, total int64, percent float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.downloaded, l.total, l.percent = downloaded, total, percent
	l.updated = true

	if total <= 0 || percent < l.next {
		return
	}
	l.next = (math.Floor(percent/l.step) + 1) * l.step
	l.logger.Info("download progress", l.fields()...)
}

// Close logs the stream's final position once
func (l *LogIndicator) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.updated {
		l.logger.Info("stream transferred", l.fields()...)
	}
}

func (l *LogIndicator) fields() []zap.Field {
	fields := []zap.Field{
		zap.Float64("percent", math.Round(l.percent*10)/10),
		zap.String("downloaded", humanize.Bytes(uint64(max(l.downloaded, 0)))),
	}
	if l.total > 0 {
		fields = append(fields, zap.String("total", humanize.Bytes(uint64(l.total))))
	}
	return fields
}
