package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Settings mirrors the optional JSON settings file.
type Settings struct {
	DefaultEncoding string            `koanf:"default_encoding"`
	AllowedOrigins  []string          `koanf:"allowed_origins"`
	EncodingAliases map[string]string `koanf:"encoding_aliases"`
}

func LoadSettings(path string) (*Settings, error) {
	// encoding names contain dots, so they cannot be used as the key delimiter
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("unable to load settings file with path %s: %w", path, err)
	}

	s := &Settings{}
	if err := k.UnmarshalWithConf("", s, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: false}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings file with path %s: %w", path, err)
	}

	for alias, target := range s.EncodingAliases {
		if len(strings.TrimSpace(alias)) == 0 || len(strings.TrimSpace(target)) == 0 {
			return nil, fmt.Errorf("encoding alias entries cannot be empty in settings file %s", path)
		}
	}

	return s, nil
}

// Apply overrides the env derived values with the ones present in s.
func (c *Config) Apply(s *Settings) {
	if s == nil {
		return
	}

	if len(s.DefaultEncoding) != 0 {
		c.DefaultEncoding = s.DefaultEncoding
	}

	if len(s.AllowedOrigins) != 0 {
		c.CorsAllowedOrigins = s.AllowedOrigins
	}

	if len(s.EncodingAliases) != 0 {
		c.EncodingAliases = s.EncodingAliases
	}
}
