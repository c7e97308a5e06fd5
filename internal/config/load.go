package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides where the config file is read from.
const PathEnvVar = "LUMINA_CONFIG"

// DefaultPaths are searched in order when no path is given.
var DefaultPaths = []string{
	"lumina.yaml",
	"lumina.yml",
}

// Environment variables that predate the LUMINA_ prefix.
var envAliases = map[string]string{
	"google_api_key":  "gemini.api_key",
	"gemini_model":    "gemini.model",
	"gemini_base_url": "gemini.base_url",
}

// sliceKeys arrive from the environment as comma-separated strings.
var sliceKeys = []string{
	"server.cors_origins",
}

var validate = validator.New()

// Load layers defaults, the config file at path (or the discovered one) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path = findFile(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	// GEMINI_API_KEY is the SDK's own name for the credential; GOOGLE_API_KEY wins if both are set.
	if k.String("gemini.api_key") == "" {
		if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
			if err := k.Set("gemini.api_key", v); err != nil {
				return nil, err
			}
		}
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)
	cfg.Catalog.APIKey = strings.TrimSpace(cfg.Catalog.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. A missing API key is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func findFile(path string) string {
	if path != "" {
		return path
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envValue skips blank variables so an exported but empty GEMINI_MODEL keeps the default.
func envValue(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envKey(key), value
}

// envKey maps GOOGLE_API_KEY and LUMINA_<SECTION>_<KEY> variables to config paths.
// Anything else is skipped.
func envKey(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envAliases[key]; ok {
		return mapped
	}
	rest, ok := strings.CutPrefix(key, "lumina_")
	if !ok || rest == "config" {
		return ""
	}
	section, field, ok := strings.Cut(rest, "_")
	if !ok || field == "" {
		return ""
	}
	return section + "." + field
}

func splitSlices(k *koanf.Koanf) error {
	for _, path := range sliceKeys {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
