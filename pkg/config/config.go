package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName   = "care-reminder"
	envPrefix = "CARE"
)

// Config is the process-wide configuration. Per-user presentation flags live
// in the app preferences instead.
type Config struct {
	API      APIConfig
	Reminder ReminderConfig
	Sync     SyncConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ReminderConfig struct {
	PollInterval  time.Duration
	Window        time.Duration
	Snooze        time.Duration
	RearmOnSnooze bool
}

// SyncConfig controls background refresh of the appointment list. Zero disables it.
type SyncConfig struct {
	Interval time.Duration
}

type LogConfig struct {
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://healthcare-ai-backend-re4u.onrender.com")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("reminder.poll_interval", 10*time.Second)
	v.SetDefault("reminder.window", 120*time.Second)
	v.SetDefault("reminder.snooze", 5*time.Minute)
	v.SetDefault("reminder.rearm_on_snooze", false)
	v.SetDefault("sync.interval", time.Duration(0))
	v.SetDefault("log.level", "info")
}

// Load reads defaults, then the config file, then CARE_* environment variables.
// An empty path searches $HOME/.config/care-reminder and the working directory
// for care-reminder.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Reminder: ReminderConfig{
			PollInterval:  v.GetDuration("reminder.poll_interval"),
			Window:        v.GetDuration("reminder.window"),
			Snooze:        v.GetDuration("reminder.snooze"),
			RearmOnSnooze: v.GetBool("reminder.rearm_on_snooze"),
		},
		Sync: SyncConfig{
			Interval: v.GetDuration("sync.interval"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would stall or disable reminders
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url is empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Reminder.PollInterval <= 0 {
		return fmt.Errorf("config: reminder.poll_interval must be positive, got %s", c.Reminder.PollInterval)
	}
	if c.Reminder.Window <= 0 {
		return fmt.Errorf("config: reminder.window must be positive, got %s", c.Reminder.Window)
	}
	if c.Reminder.Snooze <= 0 {
		return fmt.Errorf("config: reminder.snooze must be positive, got %s", c.Reminder.Snooze)
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("config: sync.interval must not be negative, got %s", c.Sync.Interval)
	}
	return nil
}
