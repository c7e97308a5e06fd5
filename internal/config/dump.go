package config

import (
	"io"

	"gopkg.in/yaml.v3"
)

const masked = "<redacted>"

// Dump writes the effective configuration as YAML with credentials masked.
func (c *Config) Dump(w io.Writer) error {
	out := *c
	if out.Gemini.APIKey != "" {
		out.Gemini.APIKey = masked
	}
	if out.Catalog.APIKey != "" {
		out.Catalog.APIKey = masked
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}
