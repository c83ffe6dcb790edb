package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "LIQUICONVERT_"

// OverwritePolicy decides what happens when an output file already exists.
type OverwritePolicy string

const (
	OverwriteExisting OverwritePolicy = "overwrite"
	SkipExisting      OverwritePolicy = "skip"
)

// Settings is the configuration of one conversion run.
type Settings struct {
	SourceFormat string          `koanf:"source_format"`
	TargetFormat string          `koanf:"target_format"`
	SourceDir    string          `koanf:"source_dir"`
	TargetDir    string          `koanf:"target_dir"`
	OnExisting   OverwritePolicy `koanf:"on_existing"`
	Workers      int             `koanf:"workers"`
	FailFast     bool            `koanf:"fail_fast"`
	Revision     string          `koanf:"revision"` // read sources from this git revision

	// Parameters are the ${name} bindings; dotted names are kept flat.
	Parameters map[string]string `koanf:"-"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"source_format": "xml",
		"target_format": "yaml",
		"source_dir":    "src/main/resources/source",
		"target_dir":    "target",
		"on_existing":   string(OverwriteExisting),
		"workers":       0,
		"fail_fast":     false,
		"revision":      "",
	}
}

// NewSettings layers defaults, the optional YAML or JSON file at path and
// the LIQUICONVERT_* environment, then validates the result.
func NewSettings(path string) (*Settings, error) {
	k := koanf.New(".")
	for key, value := range DefaultSettings() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %q: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	settings.Parameters = make(map[string]string)
	for name, value := range k.Cut("parameters").All() {
		settings.Parameters[name] = fmt.Sprint(value)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// envTransform maps LIQUICONVERT_TARGET_DIR to target_dir and
// LIQUICONVERT_PARAMETERS_schema to parameters.schema.
func envTransform(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if rest, ok := cutPrefixFold(key, "PARAMETERS_"); ok {
		return "parameters." + rest
	}
	return strings.ToLower(key)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".liquiconvert.yaml",
		".liquiconvert.yml",
		"liquiconvert.yaml",
		"liquiconvert.yml",
		".liquiconvert.json",
		"liquiconvert.json",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// Validate checks for required configuration values.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.SourceFormat) == "" {
		return errors.New("source_format is required")
	}
	if strings.TrimSpace(s.TargetFormat) == "" {
		return errors.New("target_format is required")
	}
	if s.SourceDir == "" {
		return errors.New("source_dir is required")
	}
	if s.TargetDir == "" {
		return errors.New("target_dir is required")
	}
	switch s.OnExisting {
	case OverwriteExisting, SkipExisting:
	default:
		return fmt.Errorf(
			"on_existing must be %q or %q, got %q",
			OverwriteExisting, SkipExisting, s.OnExisting,
		)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// Bindings returns the configured parameters as immutable bindings.
func (s *Settings) Bindings() ParameterBindings {
	return NewParameterBindings(s.Parameters)
}
