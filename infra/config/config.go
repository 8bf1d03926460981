package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultBackend = "https://api.clipzy.app"

// Config holds application-level configuration.
type Config struct {
	BackendURL string // e.g. "https://api.clipzy.app", no trailing slash
	AuthDir    string // directory holding the session token and user files
	LogFile    string
	Username   string // optional, skips the login prompt
	Password   string
	Feed       Feed
}

// Feed tunes loading and playback. All fields are optional in the file.
type Feed struct {
	PageSize            int           `yaml:"page_size"`
	LoadMoreCount       int           `yaml:"load_more_count"`
	VisibilityThreshold float64       `yaml:"visibility_threshold"`
	MinDwell            time.Duration `yaml:"min_dwell"`
	PollInterval        time.Duration `yaml:"poll_interval"`
	NearEndRemaining    time.Duration `yaml:"near_end_remaining"`
	NearEndProgress     float64       `yaml:"near_end_progress"`
	NoticeTTL           time.Duration `yaml:"notice_ttl"`
}

type fileConfig struct {
	Feed Feed `yaml:"feed"`
}

// DefaultFeed returns the tuning used when no file overrides it.
func DefaultFeed() Feed {
	return Feed{
		PageSize:            5,
		LoadMoreCount:       1,
		VisibilityThreshold: 0.5,
		MinDwell:            100 * time.Millisecond,
		PollInterval:        time.Second,
		NearEndRemaining:    500 * time.Millisecond,
		NearEndProgress:     0.95,
		NoticeTTL:           3 * time.Second,
	}
}

// Load reads configuration from a .env file, environment variables and an
// optional YAML file.
//
//	CLIPZY_BACKEND   backend base URL (default https://api.clipzy.app)
//	CLIPZY_AUTH_DIR  session directory (default ~/.config/clipzy)
//	CLIPZY_CONFIG    YAML tuning file (default <auth dir>/config.yaml)
//	CLIPZY_LOG_FILE  debug log (default <auth dir>/clipzy.log)
//	CLIPZY_USERNAME / CLIPZY_PASSWORD  credentials for non-interactive login
func Load() (Config, error) {
	_ = godotenv.Load()

	backend, err := normalizeBackend(os.Getenv("CLIPZY_BACKEND"))
	if err != nil {
		return Config{}, err
	}

	authDir := os.Getenv("CLIPZY_AUTH_DIR")
	if authDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		authDir = filepath.Join(home, ".config", "clipzy")
	}

	logFile := os.Getenv("CLIPZY_LOG_FILE")
	if logFile == "" {
		logFile = filepath.Join(authDir, "clipzy.log")
	}

	feed := DefaultFeed()
	configPath := os.Getenv("CLIPZY_CONFIG")
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(authDir, "config.yaml")
	}
	if err := loadFeedFile(configPath, explicit, &feed); err != nil {
		return Config{}, err
	}
	if err := feed.validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return Config{
		BackendURL: backend,
		AuthDir:    authDir,
		LogFile:    logFile,
		Username:   os.Getenv("CLIPZY_USERNAME"),
		Password:   os.Getenv("CLIPZY_PASSWORD"),
		Feed:       feed,
	}, nil
}

func normalizeBackend(raw string) (string, error) {
	if raw == "" {
		raw = defaultBackend
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid CLIPZY_BACKEND: must be an absolute URL")
	}
	if parsed.Scheme != "https" && !(parsed.Scheme == "http" && isLoopback(parsed.Hostname())) {
		return "", fmt.Errorf("invalid CLIPZY_BACKEND: only https is allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// loadFeedFile overlays the file's feed section onto feed. A missing file is
// only an error when its path was given explicitly.
func loadFeedFile(path string, explicit bool, feed *Feed) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	fc := fileConfig{Feed: *feed}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	*feed = fc.Feed
	return nil
}

func (f Feed) validate() error {
	if f.PageSize < 1 {
		return fmt.Errorf("feed.page_size must be at least 1")
	}
	if f.LoadMoreCount < 1 {
		return fmt.Errorf("feed.load_more_count must be at least 1")
	}
	if f.VisibilityThreshold <= 0 || f.VisibilityThreshold > 1 {
		return fmt.Errorf("feed.visibility_threshold must be in (0, 1]")
	}
	if f.MinDwell < 0 {
		return fmt.Errorf("feed.min_dwell must not be negative")
	}
	if f.PollInterval < 50*time.Millisecond {
		return fmt.Errorf("feed.poll_interval must be at least 50ms")
	}
	if f.NearEndRemaining < 0 {
		return fmt.Errorf("feed.near_end_remaining must not be negative")
	}
	if f.NearEndProgress <= 0 || f.NearEndProgress > 1 {
		return fmt.Errorf("feed.near_end_progress must be in (0, 1]")
	}
	if f.NoticeTTL <= 0 {
		return fmt.Errorf("feed.notice_ttl must be positive")
	}
	return nil
}
