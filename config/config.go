package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tnicklin/basic_bot/logger"
	"go.uber.org/config"
)

const (
	// DefaultPath is where the bot looks for its configuration, relative to
	// the working directory.
	DefaultPath = "config/config.json"

	// TokenEnv overrides DiscordToken when set.
	TokenEnv = "DISCORD_TOKEN"

	defaultCommandPrefix = "!"
)

// BotConfig holds all bot configuration. It is read once at startup and
// never modified afterwards.
type BotConfig struct {
	DiscordToken  string        `yaml:"DiscordToken" validate:"required"`
	GameStatus    string        `yaml:"GameStatus"`
	CommandPrefix string        `yaml:"CommandPrefix" validate:"omitempty,max=5"`
	Logger        logger.Config `yaml:"Logger"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the JSON configuration file at path.
// The document must be strict JSON with correctly typed values; decoding is
// then done by the YAML provider, which accepts JSON as a subset.
// Every failure is returned as a *ConfigError and no config is returned with it.
func Load(path string) (*BotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := checkJSON(data); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	provider, err := config.NewYAML(config.Source(bytes.NewReader(data)), config.Permissive())
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	var cfg BotConfig
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		cfg.DiscordToken = token
	}
	cfg.DiscordToken = strings.TrimSpace(cfg.DiscordToken)

	if err := validate.Struct(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: describe(err)}
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and fills in optional settings.
func LoadWithDefaults(path string) (*BotConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = defaultCommandPrefix
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if len(cfg.Logger.OutputPaths) == 0 {
		cfg.Logger.OutputPaths = []string{"stdout"}
	}

	return cfg, nil
}

// checkJSON rejects documents the YAML provider would accept but that are not
// JSON (bare YAML, comments, trailing commas) and values of the wrong type.
func checkJSON(data []byte) error {
	if !json.Valid(data) {
		return errors.New("invalid JSON")
	}

	var shape BotConfig
	if err := json.Unmarshal(data, &shape); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("field %s: expected %s, got JSON %s", typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing required field %s", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid field %s (%s)", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
