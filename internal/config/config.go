package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIID          int
	APIHash        string
	PublicUsername string
	GroupTitle     string
	ChannelTitle   string
	BotUsername    string
	DataDir        string
	SessionFile    string
	LogDir         string
	LogLevel       string
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
	PollAttempts   int
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{4,31}$`)

func LoadFromEnv() (Config, error) {
	_ = godotenv.Load()

	dataDir := defaultString(os.Getenv("DATA_DIR"), "./data")
	apiID, err := parseIntWithDefault("TELEGRAM_API_ID", 0)
	if err != nil {
		return Config{}, err
	}
	pollAttempts, err := parseIntWithDefault("SETUP_POLL_ATTEMPTS", 3)
	if err != nil {
		return Config{}, err
	}
	pollIntervalMs, err := parseIntWithDefault("SETUP_POLL_INTERVAL_MS", 2000)
	if err != nil {
		return Config{}, err
	}
	requestTimeoutMs, err := parseIntWithDefault("REQUEST_TIMEOUT_MS", 30000)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIID:          apiID,
		APIHash:        strings.TrimSpace(os.Getenv("TELEGRAM_API_HASH")),
		PublicUsername: strings.TrimSpace(os.Getenv("PUBLIC_USERNAME")),
		GroupTitle:     strings.TrimSpace(os.Getenv("GROUP_TITLE")),
		ChannelTitle:   strings.TrimSpace(os.Getenv("CHANNEL_TITLE")),
		BotUsername:    strings.TrimPrefix(defaultString(os.Getenv("GUARD_BOT_USERNAME"), "SafeguardRobot"), "@"),
		DataDir:        dataDir,
		SessionFile:    defaultString(os.Getenv("SESSION_FILE"), filepath.Join(dataDir, "provisioner.session")),
		LogDir:         filepath.Join(dataDir, "logs"),
		LogLevel:       defaultString(os.Getenv("LOG_LEVEL"), "info"),
		LogMaxSizeMB:   10,
		LogMaxBackups:  5,
		LogMaxAgeDays:  14,
		PollAttempts:   pollAttempts,
		PollInterval:   time.Duration(pollIntervalMs) * time.Millisecond,
		RequestTimeout: time.Duration(requestTimeoutMs) * time.Millisecond,
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.APIID <= 0 {
		return errors.New("TELEGRAM_API_ID is required")
	}
	if cfg.APIHash == "" {
		return errors.New("TELEGRAM_API_HASH is required")
	}
	if cfg.BotUsername == "" {
		return errors.New("GUARD_BOT_USERNAME must not be empty")
	}
	if cfg.PollAttempts < 1 {
		return fmt.Errorf("SETUP_POLL_ATTEMPTS must be >= 1: got %d", cfg.PollAttempts)
	}
	if cfg.PollInterval <= 0 {
		return errors.New("SETUP_POLL_INTERVAL_MS must be > 0")
	}
	if cfg.PublicUsername != "" {
		if strings.HasPrefix(cfg.PublicUsername, "@") {
			return errors.New("PUBLIC_USERNAME must not include the @ prefix")
		}
		if !usernamePattern.MatchString(cfg.PublicUsername) {
			return fmt.Errorf("PUBLIC_USERNAME %q is not a valid public username", cfg.PublicUsername)
		}
	}
	return nil
}

// ValidateProvision checks the inputs only the provision command needs.
// check/resolve-bot run without them.
func (c Config) ValidateProvision() error {
	if c.PublicUsername == "" {
		return errors.New("PUBLIC_USERNAME is required")
	}
	if c.GroupTitle == "" {
		return errors.New("GROUP_TITLE is required")
	}
	if c.ChannelTitle == "" {
		return errors.New("CHANNEL_TITLE is required")
	}
	return nil
}

func parseIntWithDefault(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be integer: %w", key, err)
	}
	return v, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
