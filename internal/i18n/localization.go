// Package i18n holds the user-facing message tables for the bot and the CLI.
package i18n

import (
	"fmt"
	"strings"
)

// Supported language codes
const (
	LangEnglish    = "en"
	LangRussian    = "ru"
	LangPortuguese = "pt"
)

// Localization manages message translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyStart            = "start"
	KeyHelp             = "help"
	KeyInvalidURL       = "invalid_url"
	KeyNoInternet       = "no_internet"
	KeyCookiesInvalid   = "cookies_invalid"
	KeyDurationWarning  = "duration_warning"
	KeyCancelled        = "cancelled"
	KeyNothingToCancel  = "nothing_to_cancel"
	KeyBusy             = "busy"
	KeyInvalidChoice    = "invalid_choice"
	KeyEnterNumber      = "enter_number"
	KeyFormatsHeader    = "formats_header"
	KeyChooseFormat     = "choose_format"
	KeyNoFormats        = "no_formats"
	KeyDownloading      = "downloading"
	KeySaved            = "saved"
	KeyProgress         = "progress"
	KeyFinished         = "finished"
	KeyDownloadError    = "download_error"
	KeyUnexpectedError  = "unexpected_error"
	KeyVideoWithAudio   = "video_with_audio"
	KeyVideoNoAudio     = "video_no_audio"
	KeyAudioOnly        = "audio_only"
	KeyFormatLine       = "format_line"
	KeyAffirmative      = "affirmative"
	KeyNegative         = "negative"
	KeyPromptURL        = "prompt_url"
	KeyEmptyURL         = "empty_url"
	KeyPromptFormat     = "prompt_format"
	KeyProxySelected    = "proxy_selected"
	KeyNoProxy          = "no_proxy"
	KeyVideoInfo        = "video_info"
	KeyCookiesProceed   = "cookies_proceed"
	KeyOfflineAbort     = "offline_abort"
	KeyGoodbye          = "goodbye"
	KeyCheckingNetwork  = "checking_network"
	KeyFetchingMetadata = "fetching_metadata"
)

// NewLocalization creates a new localization manager
func NewLocalization(lang string) *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	l.SetLanguage(lang)
	return l
}

// SetLanguage sets the current language, unknown codes are ignored
func (l *Localization) SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// Text returns localized text for the given key
func (l *Localization) Text(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LangEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns localized text with fmt-style arguments applied
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.Text(key), args...)
}

// Affirmative returns the confirmation token of the current language
func (l *Localization) Affirmative() string {
	return l.Text(KeyAffirmative)
}

// IsAffirmative reports whether text equals the affirmative token, ignoring case
func (l *Localization) IsAffirmative(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), l.Affirmative())
}

// CurrentLanguage returns the current language code
func (l *Localization) CurrentLanguage() string {
	return l.currentLanguage
}

// AvailableLanguages returns map of available languages with their display names
func (l *Localization) AvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish:    "English",
		LangRussian:    "Русский",
		LangPortuguese: "Português",
	}
}
