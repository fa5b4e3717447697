package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Bot      Bot      `mapstructure:"bot"`
	Log      Log      `mapstructure:"log"`
	Telegram Telegram `mapstructure:"telegram"`
	Handler  Handler  `mapstructure:"handler"`
	AWS      AWS      `mapstructure:"aws"`
	Text     Text     `mapstructure:"text"`
	Image    Image    `mapstructure:"image"`
	Chat     Chat     `mapstructure:"chat"`
	Web      Web      `mapstructure:"web"`
}

type Bot struct {
	LogLevel    string `mapstructure:"log_level"`
	Language    string `mapstructure:"language"`
	Greeting    string `mapstructure:"greeting"`
	HelpText    string `mapstructure:"help_text"`
	Caption     string `mapstructure:"caption"`
	AskFailure  string `mapstructure:"ask_failure"`
	Template    string `mapstructure:"template"`
	PollEnabled bool   `mapstructure:"poll_enabled"`
}

type Log struct {
	File string `mapstructure:"file"`
}

type Telegram struct {
	BotToken     string        `mapstructure:"bot_token"`
	APIURL       string        `mapstructure:"api_url"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
	ErrorBackoff time.Duration `mapstructure:"error_backoff"`
	LogChatID    int64         `mapstructure:"log_chat_id"`
}

type Handler struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type AWS struct {
	Region         string `mapstructure:"region"`
	SDKMaxAttempts int    `mapstructure:"sdk_max_attempts"`
}

type Text struct {
	Provider    string  `mapstructure:"provider"`
	ModelID     string  `mapstructure:"model_id"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"api_key"`

	// OpenRouterModel is used instead of ModelID when Provider is openrouter.
	OpenRouterModel string `mapstructure:"openrouter_model"`
}

type Image struct {
	ModelID          string        `mapstructure:"model_id"`
	Scale            float64       `mapstructure:"scale"`
	Seed             int           `mapstructure:"seed"`
	Quality          string        `mapstructure:"quality"`
	Width            int           `mapstructure:"width"`
	Height           int           `mapstructure:"height"`
	MaxAttempts      int           `mapstructure:"max_attempts"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
	PostSuccessDelay time.Duration `mapstructure:"post_success_delay"`
}

type Chat struct {
	Languages   []string `mapstructure:"languages"`
	Suggestions []string `mapstructure:"suggestions"`
}

type Web struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

const (
	ProviderBedrock    = "bedrock"
	ProviderOpenRouter = "openrouter"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.language", "english")
	v.SetDefault("bot.poll_enabled", true)

	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.poll_timeout", "100s")
	v.SetDefault("telegram.error_backoff", "1s")
	v.SetDefault("telegram.log_chat_id", 0)

	v.SetDefault("handler.timeout", "10m")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.sdk_max_attempts", 1)

	v.SetDefault("text.provider", ProviderBedrock)
	v.SetDefault("text.model_id", "amazon.titan-text-premier-v1:0")
	v.SetDefault("text.max_tokens", 2000)
	v.SetDefault("text.temperature", 0.9)
	v.SetDefault("text.openrouter_model", "openai/gpt-4o-mini")

	v.SetDefault("image.model_id", "amazon.titan-image-generator-v2:0")
	v.SetDefault("image.scale", 8.0)
	v.SetDefault("image.seed", 0)
	v.SetDefault("image.quality", "standard")
	v.SetDefault("image.width", 512)
	v.SetDefault("image.height", 512)
	v.SetDefault("image.max_attempts", 5)
	v.SetDefault("image.cooldown", "60s")
	v.SetDefault("image.post_success_delay", "0s")

	v.SetDefault("chat.languages", []string{"english", "hindi"})
	v.SetDefault("chat.suggestions", []string{"What is the capital of France?", "Who is Buddha?"})

	v.SetDefault("web.enabled", true)
	v.SetDefault("web.addr", ":8080")
}

// Load reads .env, the optional TOML config file and the environment, in increasing precedence. An empty
// path searches for config.toml in the working directory.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}

	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("telegram.bot_token", "TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("could not bind token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Text.Provider {
	case ProviderBedrock:
	case ProviderOpenRouter:
		if c.Text.APIKey == "" {
			return errors.New("text.api_key is required for the openrouter provider")
		}
	default:
		return fmt.Errorf("unknown text provider %q", c.Text.Provider)
	}

	if c.Handler.Timeout <= 0 {
		return errors.New("handler.timeout must be positive")
	}

	if c.Image.MaxAttempts < 0 {
		return errors.New("image.max_attempts must not be negative")
	}

	if c.Image.Cooldown < 0 || c.Image.PostSuccessDelay < 0 {
		return errors.New("image delays must not be negative")
	}

	if len(c.Chat.Languages) == 0 {
		return errors.New("chat.languages must not be empty")
	}

	return nil
}
