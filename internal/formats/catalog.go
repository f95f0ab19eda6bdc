// Package formats turns extractor format lists into the numbered catalog shown to users.
package formats

import (
	"errors"
	"strings"

	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/model"
)

// BestAudioSuffix is appended to video-only selections so yt-dlp merges an audio track
const BestAudioSuffix = "+bestaudio/best"

const bytesPerMB = 1024 * 1024

// ErrInvalidChoice is returned for a choice outside 1..Len()
var ErrInvalidChoice = errors.New("format choice out of range")

// Entry is one numbered line of the catalog
type Entry struct {
	Number      int
	Format      model.Format
	Description string
	SizeMB      float64
}

// Catalog is the ordered, indexable list offered to the user.
// Rendering and selection share the same slice.
type Catalog struct {
	entries []Entry
	loc     *i18n.Localization
}

// Build filters formats without any track or without a usable height/bitrate,
// keeping the extractor's order for the rest
func Build(formats []model.Format, loc *i18n.Localization) *Catalog {
	if loc == nil {
		loc = i18n.NewLocalization(i18n.LangEnglish)
	}
	c := &Catalog{loc: loc}
	for _, f := range formats {
		if !f.IsMedia() {
			continue
		}
		desc := Describe(f, loc)
		if desc == "" {
			continue
		}
		c.entries = append(c.entries, Entry{
			Number:      len(c.entries) + 1,
			Format:      f,
			Description: desc,
			SizeMB:      float64(f.SizeBytes()) / bytesPerMB,
		})
	}
	return c
}

// Describe returns the one-line description of f, or "" when f has neither
// a video height nor an audio bitrate
func Describe(f model.Format, loc *i18n.Localization) string {
	switch {
	case f.HasVideo && f.Height > 0:
		if f.HasAudio {
			return loc.Format(i18n.KeyVideoWithAudio, f.Height)
		}
		return loc.Format(i18n.KeyVideoNoAudio, f.Height)
	case f.HasAudio && f.AudioBitrate > 0:
		return loc.Format(i18n.KeyAudioOnly, f.AudioBitrate)
	default:
		return ""
	}
}

// Len returns the number of selectable entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog entries
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Render returns the header and the 1-based numbered list
func (c *Catalog) Render() string {
	var b strings.Builder
	b.WriteString(c.loc.Text(i18n.KeyFormatsHeader))
	b.WriteString("\n")
	for _, e := range c.entries {
		b.WriteString(c.loc.Format(i18n.KeyFormatLine, e.Number, e.Description, e.SizeMB))
		b.WriteString("\n")
	}
	return b.String()
}

// Select resolves a 1-based choice against the rendered list
func (c *Catalog) Select(choice int) (Entry, error) {
	idx := choice - 1
	if idx < 0 || idx >= len(c.entries) {
		return Entry{}, ErrInvalidChoice
	}
	return c.entries[idx], nil
}

// ResolveFormatID returns the selector passed to the download call
func ResolveFormatID(f model.Format) string {
	if !f.HasAudio {
		return f.FormatID + BestAudioSuffix
	}
	return f.FormatID
}
