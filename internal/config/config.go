// Package config builds the immutable run configuration for f1news.
//
// Settings are resolved once at process start: built-in defaults, then an
// optional YAML file, then environment variables (a .env file in the working
// directory is loaded first). The resulting Config is passed by value to every
// component; nothing reads the environment afterwards.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSourceURL   = "https://www.bbc.com/sport/formula1"
	DefaultOrigin      = "https://www.bbc.com"
	DefaultUserAgent   = "Mozilla/5.0"
	DefaultTimeout     = 30 * time.Second
	DefaultArchiveFile = "f1_news_perfect.csv"
	DefaultSMTPHost    = "smtp.qq.com"
	DefaultSMTPPort    = 465
	DefaultSchedule    = "*/30 * * * *"
	DefaultLogLevel    = "info"
)

// Environment variable names
const (
	configPathEnv  = "F1NEWS_CONFIG"
	sourceURLEnv   = "F1NEWS_SOURCE_URL"
	dataDirEnv     = "F1NEWS_DATA_DIR"
	archiveFileEnv = "F1NEWS_ARCHIVE_FILE"
	smtpHostEnv    = "F1NEWS_SMTP_HOST"
	smtpPortEnv    = "F1NEWS_SMTP_PORT"
	scheduleEnv    = "F1NEWS_SCHEDULE"
	logLevelEnv    = "F1NEWS_LOG_LEVEL"
	emailUserEnv   = "EMAIL_USER"
	emailPassEnv   = "EMAIL_PASS"
	receiverEnv    = "RECEIVER_EMAIL"
)

// Config holds every setting a run needs
type Config struct {
	Source   SourceConfig  `yaml:"source"`
	Archive  ArchiveConfig `yaml:"archive"`
	Mail     MailConfig    `yaml:"mail"`
	Schedule string        `yaml:"schedule"`
	LogLevel string        `yaml:"logLevel"`
}

// SourceConfig describes the listing page to fetch
type SourceConfig struct {
	URL       string        `yaml:"url"`
	Origin    string        `yaml:"origin"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ArchiveConfig locates the CSV archive
type ArchiveConfig struct {
	DataDir string `yaml:"dataDir"`
	File    string `yaml:"file"`
}

// Path returns the archive file path
func (a ArchiveConfig) Path() string {
	return filepath.Join(a.DataDir, a.File)
}

// MailConfig wires the outbound SMTP relay
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"-"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Configured reports whether credentials and a recipient are present
func (m MailConfig) Configured() bool {
	return m.Username != "" && m.Password != "" && m.To != ""
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Source: SourceConfig{
			URL:       DefaultSourceURL,
			Origin:    DefaultOrigin,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
		},
		Archive: ArchiveConfig{
			DataDir: filepath.Join(xdg.DataHome, "f1news"),
			File:    DefaultArchiveFile,
		},
		Mail: MailConfig{
			Host: DefaultSMTPHost,
			Port: DefaultSMTPPort,
		},
		Schedule: DefaultSchedule,
		LogLevel: DefaultLogLevel,
	}
}

// Load resolves the configuration. path may be empty, in which case
// F1NEWS_CONFIG is consulted; with neither set only defaults and the
// environment apply.
func Load(path string) (Config, error) {
	// .env is optional, but a broken one is an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.fillMailIdentity()

	if err := cfg.expandDataDir(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// mergeFile overlays the non-zero values of a YAML file
func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	setString(&c.Source.URL, fileCfg.Source.URL)
	setString(&c.Source.Origin, fileCfg.Source.Origin)
	setString(&c.Source.UserAgent, fileCfg.Source.UserAgent)
	if fileCfg.Source.Timeout > 0 {
		c.Source.Timeout = fileCfg.Source.Timeout
	}
	setString(&c.Archive.DataDir, fileCfg.Archive.DataDir)
	setString(&c.Archive.File, fileCfg.Archive.File)
	setString(&c.Mail.Host, fileCfg.Mail.Host)
	if fileCfg.Mail.Port != 0 {
		c.Mail.Port = fileCfg.Mail.Port
	}
	setString(&c.Mail.Username, fileCfg.Mail.Username)
	setString(&c.Mail.From, fileCfg.Mail.From)
	setString(&c.Mail.To, fileCfg.Mail.To)
	setString(&c.Schedule, fileCfg.Schedule)
	setString(&c.LogLevel, fileCfg.LogLevel)

	return nil
}

func (c *Config) applyEnvOverrides() error {
	c.Source.URL = getEnv(sourceURLEnv, c.Source.URL)
	c.Archive.DataDir = getEnv(dataDirEnv, c.Archive.DataDir)
	c.Archive.File = getEnv(archiveFileEnv, c.Archive.File)
	c.Mail.Host = getEnv(smtpHostEnv, c.Mail.Host)
	c.Schedule = getEnv(scheduleEnv, c.Schedule)
	c.LogLevel = getEnv(logLevelEnv, c.LogLevel)

	if v := os.Getenv(smtpPortEnv); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", smtpPortEnv, v, err)
		}
		c.Mail.Port = port
	}

	c.Mail.Username = getEnv(emailUserEnv, c.Mail.Username)
	c.Mail.Password = getEnv(emailPassEnv, c.Mail.Password)
	c.Mail.To = getEnv(receiverEnv, c.Mail.To)

	return nil
}

// fillMailIdentity derives missing mail addresses: the login doubles as the
// sender, and mail goes to the sender when no recipient is given.
func (c *Config) fillMailIdentity() {
	if c.Mail.Username == "" {
		c.Mail.Username = c.Mail.To
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	if c.Mail.To == "" {
		c.Mail.To = c.Mail.Username
	}
}

// expandDataDir expands a leading ~/ to the home directory
func (c *Config) expandDataDir() error {
	if strings.HasPrefix(c.Archive.DataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		c.Archive.DataDir = filepath.Join(home, c.Archive.DataDir[2:])
	}
	return nil
}

// Validate checks the settings a run cannot do without
func (c Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid source URL: %q", c.Source.URL)
	}
	if c.Archive.File == "" {
		return fmt.Errorf("archive file name is required")
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Mail.Port)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
