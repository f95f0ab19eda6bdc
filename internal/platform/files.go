package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// DefaultFilenameTemplate names downloads after the media title
const DefaultFilenameTemplate = "%(title)s.%(ext)s"

// MaxNameDifference bounds how far a sanitized file name may drift from the title
const MaxNameDifference = 10

// SkippedExtensions are partial or metadata files left by yt-dlp
var SkippedExtensions = []string{".part", ".ytdl", ".temp", ".tmp"}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// ResolveDownloadDir returns dir, or the user's Downloads directory when dir is empty
func ResolveDownloadDir(dir string) (string, error) {
	if strings.TrimSpace(dir) != "" {
		return dir, nil
	}
	return GetHomeDownloadsDir()
}

// OutputTemplate joins the download directory and a yt-dlp filename template
func OutputTemplate(dir, template string) string {
	if template == "" {
		template = DefaultFilenameTemplate
	}
	return filepath.Join(dir, template)
}

// FindDownloadedFile locates the file written for a download. The expected
// path is tried first. yt-dlp may sanitize the title or change the container
// on merge, so a similarly named file is accepted next, and finally the
// newest complete file modified at or after since whose name still carries
// the title. Files of other downloads sharing the directory never match.
func FindDownloadedFile(expectedPath string, since time.Time) (string, error) {
	if expectedPath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if _, err := os.Stat(expectedPath); err == nil {
		return expectedPath, nil
	}

	dir := filepath.Dir(expectedPath)
	expectedName := filepath.Base(expectedPath)
	expectedBase := strings.TrimSuffix(expectedName, filepath.Ext(expectedName))
	titleKey := nameKey(expectedBase)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var similar []string
	type candidate struct {
		path    string
		modTime time.Time
	}
	var recent []candidate

	for _, entry := range entries {
		if entry.IsDir() || isPartialFile(entry.Name()) {
			continue
		}
		name := entry.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))

		if isSimilarFileName(base, expectedBase) {
			similar = append(similar, filepath.Join(dir, name))
		}

		if !sharesTitle(nameKey(base), titleKey) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(since) {
			recent = append(recent, candidate{path: filepath.Join(dir, name), modTime: info.ModTime()})
		}
	}

	if len(similar) > 0 {
		sort.Strings(similar)
		return similar[0], nil
	}

	if len(recent) > 0 {
		sort.Slice(recent, func(i, j int) bool {
			return recent[i].modTime.After(recent[j].modTime)
		})
		return recent[0].path, nil
	}

	return "", fmt.Errorf("file not found: %s", expectedPath)
}

func isPartialFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// MinTitleKey is the shortest normalized title the recent-file lookup trusts
const MinTitleKey = 3

// nameKey lowercases name and keeps letters and digits only, so that
// sanitized and truncated variants of a title compare equal
func nameKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sharesTitle accepts a name containing the whole title, or a truncated
// title that keeps at least half of it
func sharesTitle(key, titleKey string) bool {
	if len(key) < MinTitleKey || len(titleKey) < MinTitleKey {
		return false
	}
	if strings.Contains(key, titleKey) {
		return true
	}
	return strings.HasPrefix(titleKey, key) && 2*len(key) >= len(titleKey)
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := strings.TrimSpace(name1)
	clean2 := strings.TrimSpace(name2)
	if clean1 == "" || clean2 == "" {
		return false
	}
	if clean1 == clean2 {
		return true
	}

	trim := func(s string) string { return strings.Trim(s, "-_ ") }
	if trim(clean1) == trim(clean2) {
		return true
	}

	// truncated or sanitized names
	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}
