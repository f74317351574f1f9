package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/adrg/xdg"
)

var (
	errConfigWrite = errors.New("failed to write config file")
	errConfigRead  = errors.New("failed to read config file")
	errLoggerInit  = errors.New("failed to initialize logger")
)

const (
	ConfigDirName      = "deck-tui"
	DefaultConfigName  = "deck-tui"
	DefaultDBName      = "deck-tui.db"
	DefaultLogName     = "deck-tui.log"
	EnvPrefix          = "decktui"
	DefaultHTTPTimeout = 15 * time.Second
)

// Config is the user facing configuration. Runtime state (countdowns, surface
// handles) never lives here, it belongs to the session snapshot instead.
type Config struct {
	// Profile selects which named profile to run under. Each profile keeps its
	// own cookies, session and history rows.
	Profile string `mapstructure:"profile" validate:"required"`
	// AllowedDomains are the apex domains navigation is restricted to.
	// Subdomains of an apex are allowed, look-alike suffixes are not.
	AllowedDomains []string `mapstructure:"allowed_domains" validate:"min=1,dive,hostname_rfc1123"`
	// FocusMarkers are path segments that mark a URL as a single-item detail
	// view, which opens in focus mode rather than replacing a column URL.
	FocusMarkers []string `mapstructure:"focus_markers" validate:"min=1"`
	// HomeURLs seed the deck when no saved session exists for the profile.
	HomeURLs []string `mapstructure:"home_urls" validate:"dive,url"`
	// DefaultIntervalSeconds is the auto refresh interval applied to newly
	// added columns. Zero disables auto refresh for new columns.
	DefaultIntervalSeconds int `mapstructure:"default_interval_seconds" validate:"min=0"`
	// AutosaveSeconds controls how often the current session is flushed to the
	// store. Zero disables autosave; the session is still saved on exit.
	AutosaveSeconds int    `mapstructure:"autosave_seconds" validate:"min=0"`
	UserAgent       string `mapstructure:"user_agent"`
	// UpdateCheckEnabled toggles the non blocking release check at startup.
	UpdateCheckEnabled bool   `mapstructure:"update_check_enabled"`
	UpdateCheckURL     string `mapstructure:"update_check_url" validate:"omitempty,url"`
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// PathData generates a path for mutable data (database) under $XDG_DATA_HOME.
func PathData(name string) string {
	dataDir, found := os.LookupEnv("DATA_DIR")
	if found && dataDir != "" {
		return path.Join(dataDir, name)
	}

	return path.Join(xdg.DataHome, ConfigDirName, name)
}

// LoggerInit sets up the slog global handler to use a log file as we cant print to the console.
func LoggerInit(logPath string, level slog.Level) (io.Closer, error) {
	logFile, errLogFile := os.Create(path.Join(xdg.ConfigHome, ConfigDirName, logPath))
	if errLogFile != nil {
		return nil, errors.Join(errLogFile, errLoggerInit)
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))

	slog.SetDefault(logger)

	return logFile, nil
}
