// Package cookies checks Netscape cookie jars before they are handed to yt-dlp.
package cookies

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Status is the outcome of a cookie file check
type Status int

const (
	StatusValid Status = iota
	StatusMissing
	StatusMalformed
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusMissing:
		return "invalid-missing"
	case StatusMalformed:
		return "invalid-malformed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// FieldCount is the number of tab-separated fields of a cookie row:
// domain, include-subdomains, path, secure, expiry, name, value
const FieldCount = 7

// Headers recognized as the first line of a cookie jar
var Headers = []string{
	"# Netscape HTTP Cookie File",
	"# HTTP Cookie File",
}

// Result of Validate. Reason is a short diagnostic, empty for a valid file.
type Result struct {
	Path   string
	Status Status
	Reason string
}

// Valid reports whether the file may be passed to the extractor
func (r Result) Valid() bool {
	return r.Status == StatusValid
}

// Validate inspects the cookie jar at path. It never fails: I/O problems are
// reported as StatusMalformed. Every outcome is logged with its reason.
func Validate(path string, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := check(path)
	fields := []zap.Field{
		zap.String("path", path),
		zap.String("status", res.Status.String()),
	}

	switch {
	case res.Valid():
		logger.Info("cookies file is valid", fields...)
	case strings.HasPrefix(res.Reason, reasonIOError):
		logger.Error("failed to read cookies file", append(fields, zap.String("reason", res.Reason))...)
	default:
		logger.Warn("cookies file rejected", append(fields, zap.String("reason", res.Reason))...)
	}
	return res
}

// Diagnostic reasons
const (
	reasonNotFound  = "file not found"
	reasonEmpty     = "file is empty"
	reasonBadHeader = "bad header"
	reasonBadRow    = "malformed row"
	reasonIOError   = "i/o error"
)

func check(path string) Result {
	res := Result{Path: path}
	if strings.TrimSpace(path) == "" {
		res.Status, res.Reason = StatusMissing, reasonNotFound
		return res
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status, res.Reason = StatusMissing, reasonNotFound
			return res
		}
		res.Status, res.Reason = StatusMalformed, fmt.Sprintf("%s: %v", reasonIOError, err)
		return res
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	seenHeader := false
	for scanner.Scan() {
		lineNo++
		// tabs are kept so an empty trailing value still counts as a field
		raw := strings.Trim(scanner.Text(), " \r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		if !seenHeader {
			if !hasHeader(trimmed) {
				res.Status, res.Reason = StatusMalformed, reasonBadHeader
				return res
			}
			seenHeader = true
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if n := len(strings.Split(raw, "\t")); n != FieldCount {
			res.Status = StatusMalformed
			res.Reason = fmt.Sprintf("%s %d: %d fields, want %d", reasonBadRow, lineNo, n, FieldCount)
			return res
		}
	}
	if err := scanner.Err(); err != nil {
		res.Status, res.Reason = StatusMalformed, fmt.Sprintf("%s: %v", reasonIOError, err)
		return res
	}

	if !seenHeader {
		res.Status, res.Reason = StatusMalformed, reasonEmpty
		return res
	}

	res.Status = StatusValid
	return res
}

func hasHeader(line string) bool {
	for _, h := range Headers {
		if strings.HasPrefix(line, h) {
			return true
		}
	}
	return false
}
