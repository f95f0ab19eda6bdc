package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrMissingToken is returned when the bot is started without a token
var ErrMissingToken = errors.New("TELEGRAM_TOKEN is not set")

// Environment keys
const (
	KeyTelegramToken     = "TELEGRAM_TOKEN"
	KeyConfigFile        = "YTG_CONFIG"
	KeyCookieFile        = "YTG_COOKIE_FILE"
	KeyDownloadDir       = "YTG_DOWNLOAD_DIR"
	KeyProxyFile         = "YTG_PROXY_FILE"
	KeyLanguage          = "YTG_LANGUAGE"
	KeyUserAgent         = "YTG_USER_AGENT"
	KeyDefaultFormat     = "YTG_DEFAULT_FORMAT"
	KeyMergeFormat       = "YTG_MERGE_FORMAT"
	KeyRetries           = "YTG_RETRIES"
	KeyProbeURL          = "YTG_PROBE_URL"
	KeyProbeTimeout      = "YTG_PROBE_TIMEOUT"
	KeyDurationThreshold = "YTG_DURATION_THRESHOLD"
	KeyMaxConcurrent     = "YTG_MAX_CONCURRENT_CHATS"
	KeyNotifyRate        = "YTG_NOTIFY_RATE"
	KeyMetricsAddr       = "YTG_METRICS_ADDR"
	KeyLogLevel          = "YTG_LOG_LEVEL"
	KeyLogDev            = "YTG_LOG_DEV"
)

// Default values
const (
	DefaultCookieFile        = "/app/cookies.txt"
	DefaultDownloadDir       = "/app/downloads"
	DefaultProxyFile         = "proxies.txt"
	DefaultLanguage          = "ru"
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultMergeFormat       = "mp4"
	DefaultRetries           = 5
	DefaultProbeURL          = "https://www.google.com"
	DefaultProbeTimeout      = 5 * time.Second
	DefaultDurationThreshold = 2 * time.Hour
	DefaultMaxConcurrent     = 1
	DefaultNotifyRate        = 1.0
	DefaultLogLevel          = "info"
	DefaultFilenameTemplate  = "%(title)s.%(ext)s"

	MaxConcurrentLimit = 10
)

// Settings holds the process configuration shared by the bot and the CLI
type Settings struct {
	TelegramToken     string        `toml:"telegram_token"`
	CookieFile        string        `toml:"cookie_file"`
	DownloadDir       string        `toml:"download_dir"`
	ProxyFile         string        `toml:"proxy_file"`
	Language          string        `toml:"language"`
	UserAgent         string        `toml:"user_agent"`
	DefaultFormat     string        `toml:"default_format"`
	MergeFormat       string        `toml:"merge_format"`
	Retries           int           `toml:"retries"`
	ProbeURL          string        `toml:"probe_url"`
	ProbeTimeout      time.Duration `toml:"probe_timeout"`
	DurationThreshold time.Duration `toml:"duration_threshold"`
	MaxConcurrent     int           `toml:"max_concurrent_chats"`
	NotifyRate        float64       `toml:"notify_rate"`
	MetricsAddr       string        `toml:"metrics_addr"`
	LogLevel          string        `toml:"log_level"`
	LogDevelopment    bool          `toml:"log_development"`
	FilenameTemplate  string        `toml:"filename_template"`
}

// Defaults returns settings populated with default values
func Defaults() *Settings {
	return &Settings{
		CookieFile:        DefaultCookieFile,
		DownloadDir:       DefaultDownloadDir,
		ProxyFile:         DefaultProxyFile,
		Language:          DefaultLanguage,
		UserAgent:         DefaultUserAgent,
		MergeFormat:       DefaultMergeFormat,
		Retries:           DefaultRetries,
		ProbeURL:          DefaultProbeURL,
		ProbeTimeout:      DefaultProbeTimeout,
		DurationThreshold: DefaultDurationThreshold,
		MaxConcurrent:     DefaultMaxConcurrent,
		NotifyRate:        DefaultNotifyRate,
		LogLevel:          DefaultLogLevel,
		FilenameTemplate:  DefaultFilenameTemplate,
	}
}

// Load builds settings from defaults, an optional TOML file and the environment.
// An empty path falls back to YTG_CONFIG; a missing file at that point is not an error.
func Load(path string) (*Settings, error) {
	s := Defaults()

	if path == "" {
		path = os.Getenv(KeyConfigFile)
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, s); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	s.normalize()
	return s, nil
}

// ValidateBot checks settings required by the bot variant
func (s *Settings) ValidateBot() error {
	if strings.TrimSpace(s.TelegramToken) == "" {
		return ErrMissingToken
	}
	return nil
}

// SetMaxConcurrent sets the number of chats handled in parallel
func (s *Settings) SetMaxConcurrent(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxConcurrentLimit {
		count = MaxConcurrentLimit
	}
	s.MaxConcurrent = count
}

func (s *Settings) applyEnv() error {
	s.TelegramToken = getEnv(KeyTelegramToken, s.TelegramToken)
	s.CookieFile = getEnv(KeyCookieFile, s.CookieFile)
	s.DownloadDir = getEnv(KeyDownloadDir, s.DownloadDir)
	s.ProxyFile = getEnv(KeyProxyFile, s.ProxyFile)
	s.Language = getEnv(KeyLanguage, s.Language)
	s.UserAgent = getEnv(KeyUserAgent, s.UserAgent)
	s.DefaultFormat = getEnv(KeyDefaultFormat, s.DefaultFormat)
	s.MergeFormat = getEnv(KeyMergeFormat, s.MergeFormat)
	s.ProbeURL = getEnv(KeyProbeURL, s.ProbeURL)
	s.MetricsAddr = getEnv(KeyMetricsAddr, s.MetricsAddr)
	s.LogLevel = getEnv(KeyLogLevel, s.LogLevel)

	var err error
	if s.Retries, err = getEnvInt(KeyRetries, s.Retries); err != nil {
		return err
	}
	if s.MaxConcurrent, err = getEnvInt(KeyMaxConcurrent, s.MaxConcurrent); err != nil {
		return err
	}
	if s.ProbeTimeout, err = getEnvDuration(KeyProbeTimeout, s.ProbeTimeout); err != nil {
		return err
	}
	if s.DurationThreshold, err = getEnvDuration(KeyDurationThreshold, s.DurationThreshold); err != nil {
		return err
	}
	if v := os.Getenv(KeyNotifyRate); v != "" {
		rate, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return fmt.Errorf("invalid %s: %w", KeyNotifyRate, perr)
		}
		s.NotifyRate = rate
	}
	if v := os.Getenv(KeyLogDev); v != "" {
		dev, perr := strconv.ParseBool(v)
		if perr != nil {
			return fmt.Errorf("invalid %s: %w", KeyLogDev, perr)
		}
		s.LogDevelopment = dev
	}
	return nil
}

func (s *Settings) normalize() {
	s.SetMaxConcurrent(s.MaxConcurrent)
	if s.Retries < 0 {
		s.Retries = 0
	}
	if s.ProbeTimeout <= 0 {
		s.ProbeTimeout = DefaultProbeTimeout
	}
	if s.NotifyRate <= 0 {
		s.NotifyRate = DefaultNotifyRate
	}
	if s.MergeFormat == "" {
		s.MergeFormat = DefaultMergeFormat
	}
	if s.FilenameTemplate == "" {
		s.FilenameTemplate = DefaultFilenameTemplate
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
