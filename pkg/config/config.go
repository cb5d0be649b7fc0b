package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/voicebridge/speechkit/pkg/configutil"
	"github.com/voicebridge/speechkit/pkg/speechkit"
)

// Config is everything the demo binaries need: a fully-populated
// session configuration plus resolved credentials. The session core
// never reads files or the environment; this package is the
// collaborator that does.
type Config struct {
	Session     speechkit.SessionConfig
	Credentials speechkit.Credentials
	Retry       RetryConfig
	LogLevel    string
	LogFormat   string
}

type RetryConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
	BaseDelayMS int `mapstructure:"base_delay_ms"`
	MaxDelayMS  int `mapstructure:"max_delay_ms"`
}

type sessionSettings struct {
	Model           string `mapstructure:"model"`
	Language        string `mapstructure:"language"`
	DetectLanguage  *bool  `mapstructure:"detect_language"`
	InterimResults  *bool  `mapstructure:"interim_results"`
	ProfanityFilter *bool  `mapstructure:"profanity_filter"`
	SampleRate      int    `mapstructure:"sample_rate"`
	Endpoint        string `mapstructure:"endpoint"`
}

type credentialSettings struct {
	APIKey   string `mapstructure:"api_key"`
	FolderID string `mapstructure:"folder_id"`
}

// Load reads a YAML config file, expands ${ENV} references and falls
// back to YANDEX_API_KEY / YANDEX_FOLDER_ID when the file omits
// credentials.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("session.model", speechkit.ModelGeneral)
	v.SetDefault("session.language", speechkit.DefaultLanguage)
	v.SetDefault("session.sample_rate", 16000)
	v.SetDefault("session.endpoint", speechkit.DefaultEndpoint)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay_ms", 1000)
	v.SetDefault("retry.max_delay_ms", 10000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Session     map[string]any `mapstructure:"session"`
		Credentials map[string]any `mapstructure:"credentials"`
		Retry       RetryConfig    `mapstructure:"retry"`
		LogLevel    string         `mapstructure:"log_level"`
		LogFormat   string         `mapstructure:"log_format"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	var session sessionSettings
	if err := configutil.DecodeSettings(expandSettings(raw.Session), &session); err != nil {
		return Config{}, fmt.Errorf("decode session settings: %w", err)
	}
	var creds credentialSettings
	if err := configutil.DecodeSettings(expandSettings(raw.Credentials), &creds); err != nil {
		return Config{}, fmt.Errorf("decode credential settings: %w", err)
	}

	if creds.APIKey == "" {
		creds.APIKey = os.Getenv("YANDEX_API_KEY")
	}
	if creds.FolderID == "" {
		creds.FolderID = os.Getenv("YANDEX_FOLDER_ID")
	}

	cfg := Config{
		Session: speechkit.SessionConfig{
			Model:           session.Model,
			Language:        session.Language,
			DetectLanguage:  configutil.BoolValue(session.DetectLanguage, false),
			InterimResults:  configutil.BoolValue(session.InterimResults, true),
			ProfanityFilter: configutil.BoolValue(session.ProfanityFilter, false),
			SampleRate:      session.SampleRate,
			Endpoint:        session.Endpoint,
		},
		Credentials: speechkit.Credentials{
			APIKey:   creds.APIKey,
			FolderID: creds.FolderID,
		},
		Retry:     raw.Retry,
		LogLevel:  raw.LogLevel,
		LogFormat: raw.LogFormat,
	}

	if err := cfg.Session.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate session config: %w", err)
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate credentials: %w", err)
	}
	return cfg, nil
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, val := range settings {
		settings[k] = expandAny(val)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	default:
		return v
	}
}
