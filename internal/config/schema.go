package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AliasConfig is one historical column name for an attribute, optionally
// scoped to a platform and locale.
type AliasConfig struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform"`
	Locale   string `yaml:"locale"`
}

// AttributeConfig declares one canonical attribute.
type AttributeConfig struct {
	ID           string        `yaml:"id"`
	Label        string        `yaml:"label"`
	Category     string        `yaml:"category"`
	Domain       string        `yaml:"domain"`
	Strictness   string        `yaml:"strictness"`
	Translatable bool          `yaml:"translatable"`
	Aliases      []AliasConfig `yaml:"aliases"`
}

// ColumnConfig declares one output column slot of a platform template.
// Attribute binds the slot to a canonical attribute; a composite
// mapping is declared by naming the same attribute on several columns.
type ColumnConfig struct {
	Name      string `yaml:"name"`
	Attribute string `yaml:"attribute"`
	Required  bool   `yaml:"required"`
	Transform string `yaml:"transform"`
}

// PlatformConfig declares one destination marketplace.
type PlatformConfig struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Locale  string         `yaml:"locale"`
	Columns []ColumnConfig `yaml:"columns"`
}

// VocabularyValueConfig declares one canonical value and its localized
// renderings.
type VocabularyValueConfig struct {
	Canonical string            `yaml:"canonical"`
	Locales   map[string]string `yaml:"locales"`
}

// VocabularyConfig declares the controlled vocabulary of one attribute.
type VocabularyConfig struct {
	Attribute string                  `yaml:"attribute"`
	Values    []VocabularyValueConfig `yaml:"values"`
}

// UnitConfig declares the unit a platform expects plus the conversion
// factor from the canonical unit.
type UnitConfig struct {
	Unit   string  `yaml:"unit"`
	Factor float64 `yaml:"factor"`
}

// NumericConfig declares unit handling for one numeric attribute.
type NumericConfig struct {
	Attribute     string                `yaml:"attribute"`
	CanonicalUnit string                `yaml:"canonical-unit"`
	Platforms     map[string]UnitConfig `yaml:"platforms"`
}

// QuotaConfig declares translation budget limits. Zero means unlimited
// for that dimension; unset character budgets default to the DeepL free
// tier.
type QuotaConfig struct {
	DailyChars      int64 `yaml:"daily-chars"`
	DailyRequests   int64 `yaml:"daily-requests"`
	MonthlyChars    int64 `yaml:"monthly-chars"`
	MonthlyRequests int64 `yaml:"monthly-requests"`
}

// Duration parses YAML scalars like "30s" or "500ms" into a
// time.Duration. A unit suffix is required.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if errDecode := value.Decode(&raw); errDecode != nil {
		return errDecode
	}
	parsed, errParse := time.ParseDuration(strings.TrimSpace(raw))
	if errParse != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, errParse)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TranslatorConfig declares the external translation service settings.
type TranslatorConfig struct {
	APIURL   string   `yaml:"api-url"`
	Timeout  Duration `yaml:"timeout"`
	Attempts int      `yaml:"attempts"`
	Backoff  Duration `yaml:"backoff"`
}

// FileConfig is the full YAML configuration file.
type FileConfig struct {
	DatabaseDSN  string             `yaml:"database-dsn"`
	Workers      int                `yaml:"workers"`
	Quota        QuotaConfig        `yaml:"quota"`
	Translator   TranslatorConfig   `yaml:"translator"`
	Attributes   []AttributeConfig  `yaml:"attributes"`
	Platforms    []PlatformConfig   `yaml:"platforms"`
	Vocabularies []VocabularyConfig `yaml:"vocabularies"`
	Numeric      []NumericConfig    `yaml:"numeric"`
}

// LoadFile reads and parses the YAML configuration file.
func LoadFile(configPath string) (*FileConfig, error) {
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return nil, fmt.Errorf("read config file: %w", errRead)
	}

	var cfg FileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return nil, fmt.Errorf("parse config file: %w", errUnmarshal)
	}
	return &cfg, nil
}
