// Package config loads lexiz settings from defaults, a YAML file, LEXIZ_*
// environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/abhisek/lexiz/internal/llm"
	"github.com/abhisek/lexiz/internal/store"
	"github.com/abhisek/lexiz/internal/translate"
	"github.com/abhisek/lexiz/internal/tts"
)

// EnvPrefix prefixes every environment variable lexiz reads.
const EnvPrefix = "LEXIZ_"

// Config is the full application configuration.
type Config struct {
	API       APIConfig        `koanf:"api"`
	Offline   bool             `koanf:"offline"`
	DB        string           `koanf:"db"`
	LLM       llm.Config       `koanf:"llm"`
	TTS       TTSConfig        `koanf:"tts"`
	Translate translate.Config `koanf:"translate"`
	Log       LogConfig        `koanf:"log"`
}

// APIConfig points at the vocabulary service.
type APIConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// TTSConfig configures speech for Listening mode.
type TTSConfig struct {
	Google  tts.GoogleConfig `koanf:"google"`
	Player  []string         `koanf:"player"`
	Timeout time.Duration    `koanf:"timeout" validate:"gte=0"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Path  string `koanf:"path"`
}

// defaults lists every known key. Environment variables are matched
// against these keys, so a key missing here cannot be set from the
// environment.
func defaults() map[string]any {
	l := llm.DefaultConfig()
	return map[string]any{
		"api.base_url": "http://localhost:3000/api",
		"api.timeout":  "30s",
		"offline":      false,
		"db":           "",

		"llm.provider":            "",
		"llm.anthropic.api_key":   "",
		"llm.anthropic.model":     l.Anthropic.Model,
		"llm.openai.api_key":      "",
		"llm.openai.model":        l.OpenAI.Model,
		"llm.openai.base_url":     "",
		"llm.gemini.api_key":      "",
		"llm.gemini.model":        l.Gemini.Model,
		"llm.openrouter.api_key":  "",
		"llm.openrouter.model":    l.OpenRouter.Model,
		"llm.openrouter.base_url": "",
		"llm.retry.max_attempts":  l.Retry.MaxAttempts,
		"llm.retry.initial_wait":  l.Retry.InitialWait.String(),
		"llm.retry.max_wait":      l.Retry.MaxWait.String(),
		"llm.retry.multiplier":    l.Retry.Multiplier,
		"llm.timeout":             l.Timeout.String(),

		"tts.google.api_key":   "",
		"tts.google.language":  "en-US",
		"tts.google.gender":    "FEMALE",
		"tts.google.endpoint":  "",
		"tts.google.cache_dir": "",
		"tts.player":           []string{},
		"tts.timeout":          tts.DefaultSpeakTimeout.String(),

		"translate.api_key":   "",
		"translate.folder_id": "",
		"translate.endpoint":  "",
		"translate.timeout":   "10s",

		"log.level": "info",
		"log.path":  "",
	}
}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are not configuration.
var flagKeys = map[string]string{
	"db":        "db",
	"offline":   "offline",
	"api-url":   "api.base_url",
	"log-level": "log.level",
}

var validate = validator.New()

// Load builds the configuration. path names a YAML file; when empty,
// config.yaml in the data directory is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path == "" {
		if home, err := store.DataHome(); err == nil {
			candidate := filepath.Join(home, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		p := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envMapper turns LEXIZ_LLM_OPENAI_API_KEY into llm.openai.api_key by
// looking the flattened name up among the known keys.
func envMapper(keys []string) func(string, string) (string, any) {
	known := make(map[string]string, len(keys))
	for _, key := range keys {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}
	return func(name, value string) (string, any) {
		key, ok := known[strings.ToLower(strings.TrimPrefix(name, EnvPrefix))]
		if !ok || value == "" {
			return "", nil
		}
		if key == "tts.player" {
			return key, strings.Fields(value)
		}
		return key, value
	}
}

// applyFallbacks fills values from the conventional vendor environment
// variables and derived paths.
func (c *Config) applyFallbacks() {
	if c.LLM.Provider == "" {
		switch {
		case c.LLM.Gemini.APIKey != "":
			c.LLM.Provider = "gemini"
		case c.LLM.OpenAI.APIKey != "":
			c.LLM.Provider = "openai"
		case c.LLM.Anthropic.APIKey != "":
			c.LLM.Provider = "anthropic"
		case c.LLM.OpenRouter.APIKey != "":
			c.LLM.Provider = "openrouter"
		}
	}
	if !c.LLM.Configured() {
		if cfg, ok := llm.DiscoverConfig(c.LLM); ok {
			c.LLM = cfg
		}
	}
	if c.TTS.Google.APIKey == "" {
		c.TTS.Google.APIKey = os.Getenv("GOOGLE_TTS_API_KEY")
	}
	if c.Translate.APIKey == "" {
		c.Translate.APIKey = os.Getenv("YANDEX_API_KEY")
	}
	if c.Translate.FolderID == "" {
		c.Translate.FolderID = os.Getenv("YANDEX_FOLDER_ID")
	}
	if home, err := store.DataHome(); err == nil {
		if c.TTS.Google.CacheDir == "" {
			c.TTS.Google.CacheDir = filepath.Join(home, "tts-cache")
		}
		if c.Log.Path == "" {
			c.Log.Path = filepath.Join(home, "lexiz.log")
		}
	}
}

// Validate checks field constraints and the selected LLM provider.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.LLM.Provider != "" && c.LLM.Provider != "mock" {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}
