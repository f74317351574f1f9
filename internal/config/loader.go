package config

import (
	"errors"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Loader handles setting up viper, loading configuration from files, and broadcasting configuration changes.
type Loader struct {
	*viper.Viper
	validate *validator.Validate
	changes  chan<- Config
}

func NewLoader(changes chan<- Config) *Loader {
	loader := Loader{
		changes:  changes,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		Viper:    viper.New(),
	}
	loader.SetDefault("profile", "default")
	loader.SetDefault("allowed_domains", []string{"x.com", "twitter.com"})
	loader.SetDefault("focus_markers", []string{"/status/", "/compose/", "/intent/"})
	loader.SetDefault("home_urls", []string{
		"https://x.com/home",
		"https://x.com/notifications",
	})
	loader.SetDefault("default_interval_seconds", 300)
	loader.SetDefault("autosave_seconds", 60)
	loader.SetDefault("user_agent", "deck-tui")
	loader.SetDefault("update_check_enabled", true)
	loader.SetDefault("update_check_url", "https://api.github.com/repos/decktui/deck-tui/releases/latest")
	loader.SetConfigName(DefaultConfigName)
	loader.SetConfigType("yaml")
	loader.SetEnvPrefix(EnvPrefix)
	loader.AddConfigPath(Path(""))
	loader.AddConfigPath(".")
	loader.AutomaticEnv()
	loader.WatchConfig()
	loader.OnConfigChange(loader.onConfigChange)

	return &loader
}

func (cl *Loader) Path() string {
	return cl.ConfigFileUsed()
}

func (cl *Loader) onConfigChange(in fsnotify.Event) {
	if in.Op != fsnotify.Write && in.Op != fsnotify.Rename {
		return
	}

	slog.Debug("External config reload triggered")
	config, err := cl.Read()
	if err != nil {
		slog.Error("Error reading config", slog.String("error", err.Error()))

		return
	}

	cl.changes <- config
}

func (cl *Loader) Write(config Config) error {
	cl.Set("profile", config.Profile)
	cl.Set("allowed_domains", config.AllowedDomains)
	cl.Set("focus_markers", config.FocusMarkers)
	cl.Set("home_urls", config.HomeURLs)
	cl.Set("default_interval_seconds", config.DefaultIntervalSeconds)
	cl.Set("autosave_seconds", config.AutosaveSeconds)
	cl.Set("user_agent", config.UserAgent)
	cl.Set("update_check_enabled", config.UpdateCheckEnabled)
	cl.Set("update_check_url", config.UpdateCheckURL)

	if err := cl.WriteConfig(); err != nil {
		return errors.Join(err, errConfigWrite)
	}

	return nil
}

func (cl *Loader) Read() (Config, error) {
	if err := cl.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return Config{}, errors.Join(err, errConfigRead)
		}
	}

	var config Config
	if err := cl.Unmarshal(&config); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	if err := cl.validate.Struct(config); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	return config, nil
}
