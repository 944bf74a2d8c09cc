package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "CATEGORY_SCANNER_CONFIG"
	seedURLEnv        = "CATEGORY_SCANNER_SEED_URL"
	linkLimitEnv      = "CATEGORY_SCANNER_LINK_LIMIT"
	concurrencyEnv    = "CATEGORY_SCANNER_CONCURRENCY"
	failurePolicyEnv  = "CATEGORY_SCANNER_FAILURE_POLICY"
	logLevelEnv       = "CATEGORY_SCANNER_LOG_LEVEL"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Crawl         CrawlConfig        `yaml:"crawl"`
	Report        ReportConfig       `yaml:"report"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects verbosity and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CrawlConfig describes the seed page, the site profile and fan-out tuning.
type CrawlConfig struct {
	SeedURL            string        `yaml:"seedUrl"`
	Origin             string        `yaml:"origin"`
	Scanner            string        `yaml:"scanner"`
	ArticlePrefix      string        `yaml:"articlePrefix"`
	NamespaceSeparator string        `yaml:"namespaceSeparator"`
	CategorySelector   string        `yaml:"categorySelector"`
	LinkLimit          int           `yaml:"linkLimit"`
	Concurrency        int           `yaml:"concurrency"`
	FailurePolicy      string        `yaml:"failurePolicy"`
	UserAgent          string        `yaml:"userAgent"`
	RequestTimeout     time.Duration `yaml:"requestTimeout"`
}

// ResolveOrigin returns the configured origin or scheme://host of the seed URL.
func (c CrawlConfig) ResolveOrigin() (string, error) {
	if c.Origin != "" {
		return strings.TrimSuffix(c.Origin, "/"), nil
	}
	parsed, err := url.Parse(c.SeedURL)
	if err != nil {
		return "", fmt.Errorf("invalid seed url %s: %w", c.SeedURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("seed url %s must be absolute", c.SeedURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// ReportConfig controls how the final table is rendered.
type ReportConfig struct {
	Format   string `yaml:"format"`
	MinCount int    `yaml:"minCount"`
}

// DatabaseConfig describes Postgres connection details; empty DSN disables persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both token and chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads .env, the YAML file at path (or $CATEGORY_SCANNER_CONFIG) and
// applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the scan cannot run with.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.Crawl.ResolveOrigin(); err != nil {
		errs = append(errs, err)
	}
	if c.Crawl.LinkLimit < 0 {
		errs = append(errs, fmt.Errorf("linkLimit must be >= 0, got %d", c.Crawl.LinkLimit))
	}
	if c.Crawl.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 0, got %d", c.Crawl.Concurrency))
	}
	switch strings.ToLower(c.Crawl.FailurePolicy) {
	case "", "skip", "abort":
	default:
		errs = append(errs, fmt.Errorf("unknown failure policy %q", c.Crawl.FailurePolicy))
	}
	switch strings.ToLower(c.Report.Format) {
	case "", "table", "json", "markdown", "md":
	default:
		errs = append(errs, fmt.Errorf("unknown report format %q", c.Report.Format))
	}

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(seedURLEnv); v != "" {
		c.Crawl.SeedURL = v
	}

	if v := os.Getenv(linkLimitEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", linkLimitEnv, err)
		}
		c.Crawl.LinkLimit = n
	}

	if v := os.Getenv(concurrencyEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", concurrencyEnv, err)
		}
		c.Crawl.Concurrency = n
	}

	if v := os.Getenv(failurePolicyEnv); v != "" {
		c.Crawl.FailurePolicy = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Crawl.SeedURL != "" {
		base.Crawl.SeedURL = override.Crawl.SeedURL
	}
	if override.Crawl.Origin != "" {
		base.Crawl.Origin = override.Crawl.Origin
	}
	if override.Crawl.Scanner != "" {
		base.Crawl.Scanner = override.Crawl.Scanner
	}
	if override.Crawl.ArticlePrefix != "" {
		base.Crawl.ArticlePrefix = override.Crawl.ArticlePrefix
	}
	if override.Crawl.NamespaceSeparator != "" {
		base.Crawl.NamespaceSeparator = override.Crawl.NamespaceSeparator
	}
	if override.Crawl.CategorySelector != "" {
		base.Crawl.CategorySelector = override.Crawl.CategorySelector
	}
	if override.Crawl.LinkLimit != 0 {
		base.Crawl.LinkLimit = override.Crawl.LinkLimit
	}
	if override.Crawl.Concurrency != 0 {
		base.Crawl.Concurrency = override.Crawl.Concurrency
	}
	if override.Crawl.FailurePolicy != "" {
		base.Crawl.FailurePolicy = override.Crawl.FailurePolicy
	}
	if override.Crawl.UserAgent != "" {
		base.Crawl.UserAgent = override.Crawl.UserAgent
	}
	if override.Crawl.RequestTimeout != 0 {
		base.Crawl.RequestTimeout = override.Crawl.RequestTimeout
	}

	if override.Report.Format != "" {
		base.Report.Format = override.Report.Format
	}
	if override.Report.MinCount != 0 {
		base.Report.MinCount = override.Report.MinCount
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Crawl: CrawlConfig{
			SeedURL:            "https://en.wikipedia.org/wiki/Main_Page",
			Scanner:            "wiki",
			ArticlePrefix:      "/wiki/",
			NamespaceSeparator: ":",
			CategorySelector:   ".mw-normal-catlinks a",
			FailurePolicy:      "skip",
			UserAgent:          "CategoryScanner/1.0",
		},
		Report: ReportConfig{Format: "table", MinCount: 2},
	}
}
