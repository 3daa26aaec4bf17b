// Package config provides configuration management for the virtual friend
// service.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Server Server `mapstructure:"server"`
	LLM    LLM    `mapstructure:"llm"`
	Speech Speech `mapstructure:"speech"`
	Avatar Avatar `mapstructure:"avatar"`
	Log    Log    `mapstructure:"log"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLM configures the completion client.
type LLM struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Speech configures the synthesis provider.
type Speech struct {
	AzureKey    string        `mapstructure:"azure_key"`
	AzureRegion string        `mapstructure:"azure_region"`
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
	AudioDir    string        `mapstructure:"audio_dir"`
}

// Avatar configures the client-side playback runtime.
type Avatar struct {
	ModelPath   string `mapstructure:"model_path"`
	PresetsPath string `mapstructure:"presets_path"`
}

// Log configures logger output.
type Log struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			Addr:            ":3000",
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLM{
			Model:   "gemini-2.0-flash",
			Timeout: 30 * time.Second,
		},
		Speech: Speech{
			TurnTimeout: 30 * time.Second,
			AudioDir:    "audios",
		},
		Log: Log{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from config.yaml (working directory) and
// VIRTUALFRIEND_* environment variables, layered over the defaults. A missing
// config file is not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VIRTUALFRIEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows; registering every
	// key as a default makes each one overridable as VIRTUALFRIEND_<SECTION>_<KEY>.
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("speech.azure_key", cfg.Speech.AzureKey)
	v.SetDefault("speech.azure_region", cfg.Speech.AzureRegion)
	v.SetDefault("speech.turn_timeout", cfg.Speech.TurnTimeout)
	v.SetDefault("speech.audio_dir", cfg.Speech.AudioDir)
	v.SetDefault("avatar.model_path", cfg.Avatar.ModelPath)
	v.SetDefault("avatar.presets_path", cfg.Avatar.PresetsPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.dir", cfg.Log.Dir)
	v.SetDefault("log.console", cfg.Log.Console)

	// Credentials come from the environment in every deployment; bind the
	// nested keys to their conventional variable names.
	_ = v.BindEnv("llm.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("speech.azure_key", "AZURE_SPEECH_KEY")
	_ = v.BindEnv("speech.azure_region", "AZURE_REGION")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that the credentials the serving path needs are present.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key (GEMINI_API_KEY) is required")
	}
	if c.Speech.AzureKey == "" || c.Speech.AzureRegion == "" {
		return errors.New("speech.azure_key and speech.azure_region (AZURE_SPEECH_KEY, AZURE_REGION) are required")
	}
	return nil
}
