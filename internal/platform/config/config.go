package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Templates Templates `yaml:"templates"`
	Log       Log       `yaml:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Templates configures where templates come from and how large a single
// component tree may grow.
type Templates struct {
	Paths    []string `yaml:"paths" validate:"dive,required"`
	Watch    bool     `yaml:"watch"`
	MaxDepth int      `yaml:"maxDepth" validate:"min=1,max=1024"`
	MaxNodes int      `yaml:"maxNodes" validate:"min=1"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Templates: Templates{
			MaxDepth: 32,
			MaxNodes: 10000,
		},
		Log: Log{Level: "info"},
	}
}

var validate = validator.New()

// Load builds the configuration from defaults, then the YAML file named by
// APPFORMS_CONFIG if set, then environment variables, and validates the
// result.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("APPFORMS_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if addr := os.Getenv("APPFORMS_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if paths := os.Getenv("APPFORMS_TEMPLATE_PATHS"); paths != "" {
		cfg.Templates.Paths = splitList(paths)
	}
	if level := os.Getenv("APPFORMS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}

	for _, b := range []struct {
		key string
		dst *bool
	}{
		{"APPFORMS_TEMPLATE_WATCH", &cfg.Templates.Watch},
		{"APPFORMS_LOG_DEV", &cfg.Log.Development},
	} {
		if v := os.Getenv(b.key); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s must be a boolean: %w", b.key, err)
			}
			*b.dst = parsed
		}
	}

	for _, n := range []struct {
		key string
		dst *int
	}{
		{"APPFORMS_MAX_DEPTH", &cfg.Templates.MaxDepth},
		{"APPFORMS_MAX_NODES", &cfg.Templates.MaxNodes},
	} {
		if v := os.Getenv(n.key); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s must be an integer: %w", n.key, err)
			}
			*n.dst = parsed
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
