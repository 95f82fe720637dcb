package console

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const (
	DefaultAPIURL   = "http://localhost:5000/api"
	EnvAPIURL       = "TODO_API_URL"
	configDirName   = "todo"
	configFileName  = "console.toml"
	defaultTimeout  = 5 * time.Second
	defaultToastTTL = 3 * time.Second
)

// Config is read from console.toml. Durations use Go syntax, e.g. "3s".
type Config struct {
	APIURL         string        `toml:"api_url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	ToastDuration  time.Duration `toml:"toast_duration"`
	LogFile        string        `toml:"log_file"`
	LogLevel       string        `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		RequestTimeout: defaultTimeout,
		ToastDuration:  defaultToastTTL,
		LogLevel:       "info",
	}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/todo/console.toml or the OS equivalent.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// LoadConfig applies, in order: defaults, the TOML file at path, then the
// TODO_API_URL environment variable. A missing file is an error only when
// the path was given explicitly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute http(s) URL", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultTimeout
	}
	if c.ToastDuration <= 0 {
		c.ToastDuration = defaultToastTTL
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// NewLogger writes to LogFile, or nowhere when it is unset, so the
// alternate screen stays clean.
func NewLogger(cfg Config) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var (
		out    io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		Prefix:          "console",
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
