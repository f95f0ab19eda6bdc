// Package progress adapts yt-dlp byte-progress records into a terminal bar
// and throttled chat notifications.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Indicator is the local progress display of one download
type Indicator interface {
	Update(downloaded, total int64, percent float64)
	Close()
}

// NopIndicator discards updates, used when stdout is not a terminal
type NopIndicator struct{}

func (NopIndicator) Update(int64, int64, float64) {}
func (NopIndicator) Close()                       {}

// Bar layout
const (
	DefaultWidth = 80
	minBarWidth  = 10
	fillRune     = "━"
	emptyRune    = " "
)

// Bar renders a single-line progress bar, redrawn in place with \r
type Bar struct {
	mu     sync.Mutex
	w      io.Writer
	width  int
	label  string
	drawn  bool
	closed bool
}

// NewBar creates a bar writing to w with a fixed total width
func NewBar(w io.Writer, width int, label string) *Bar {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Bar{w: w, width: width, label: label}
}

// NewTerminalBar sizes the bar to the terminal behind f.
// When f is not a terminal updates are discarded.
func NewTerminalBar(f *os.File, label string) Indicator {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return NopIndicator{}
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = DefaultWidth
	}
	return NewBar(f, width, label)
}

// Update redraws the bar
func (b *Bar) Update(downloaded, total int64, percent float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	fmt.Fprintf(b.w, "\r\033[K%s", b.render(downloaded, total, percent))
	b.drawn = true
}

// Close terminates the bar line; subsequent updates are ignored
func (b *Bar) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.drawn {
		fmt.Fprintln(b.w)
	}
}

func (b *Bar) render(downloaded, total int64, percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	sizes := humanize.Bytes(uint64(max(downloaded, 0)))
	if total > 0 {
		sizes += " / " + humanize.Bytes(uint64(total))
	}
	suffix := fmt.Sprintf(" %5.1f%% %s", percent, sizes)
	prefix := ""
	if b.label != "" {
		prefix = b.label + " "
	}

	barWidth := b.width - len([]rune(prefix)) - len([]rune(suffix)) - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	filled := int(float64(barWidth) * percent / 100)

	return prefix + "▕" + strings.Repeat(fillRune, filled) + strings.Repeat(emptyRune, barWidth-filled) + "▏" + suffix
}
