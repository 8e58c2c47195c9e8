package config

import (
	"testing"

	"github.com/feedforge/multimarket/internal/mapping"
)

const sampleConfig = `
database-dsn: "file:feedforge.db"
workers: 4
quota:
  monthly-chars: 500000
  daily-requests: 1000
translator:
  timeout: 30s
  attempts: 3
  backoff: 500ms
attributes:
  - id: title
    label: Title
    category: required
    translatable: true
  - id: ean
    label: EAN Code
    category: required
  - id: colour
    label: Colour
    domain: enumerated
    strictness: strict
    aliases:
      - name: Colour
      - name: Couleur principale
        platform: castorama_fr
        locale: fr
  - id: weight
    label: Weight
    domain: numeric_with_unit
platforms:
  - id: castorama_fr
    name: Castorama France
    locale: fr
    columns:
      - name: Titre
        attribute: title
        required: true
      - name: Couleur
        attribute: colour
      - name: Poids
        attribute: weight
  - id: maxeda_nl
    name: Maxeda Netherlands
    locale: nl
    columns:
      - name: Titel
        attribute: title
        required: true
      - name: EAN
        attribute: ean
        required: true
vocabularies:
  - attribute: colour
    values:
      - canonical: white
        locales:
          fr: Blanc
          nl: Wit
numeric:
  - attribute: weight
    canonical-unit: kg
    platforms:
      castorama_fr:
        unit: g
        factor: 1000
`

func loadSample(t *testing.T) *FileConfig {
	t.Helper()
	path := writeConfig(t, sampleConfig)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	return cfg
}

func TestBuildComponents(t *testing.T) {
	cfg := loadSample(t)
	components, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if components.Registry.Len() != 4 {
		t.Fatalf("expected 4 attributes, got %d", components.Registry.Len())
	}

	profile, ok := components.Profiles["castorama_fr"]
	if !ok {
		t.Fatal("missing castorama_fr profile")
	}
	if profile.Locale != "fr" || len(profile.Columns) != 3 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if got := profile.RequiredColumns(); len(got) != 1 || got[0] != "Titre" {
		t.Fatalf("unexpected required columns: %v", got)
	}

	slots, errResolve := components.Resolver.Resolve("castorama_fr", "colour")
	if errResolve != nil {
		t.Fatalf("resolve colour: %v", errResolve)
	}
	if len(slots) != 1 || slots[0].Column != "Couleur" {
		t.Fatalf("unexpected slots: %+v", slots)
	}

	if got := components.Resolver.ReverseResolve("castorama_fr", "couleur principale"); len(got) != 1 || got[0] != "colour" {
		t.Fatalf("unexpected reverse resolution: %v", got)
	}

	res, errNormalize := components.Normalizer.Normalize("colour", "white", "castorama_fr")
	if errNormalize != nil {
		t.Fatalf("normalize: %v", errNormalize)
	}
	if res.Value != "Blanc" {
		t.Fatalf("expected Blanc, got %+v", res)
	}

	res, errNormalize = components.Normalizer.Normalize("weight", "2 kg", "castorama_fr")
	if errNormalize != nil {
		t.Fatalf("normalize weight: %v", errNormalize)
	}
	if res.Value != "2000" {
		t.Fatalf("expected 2000, got %+v", res)
	}
}

func TestBuildDuplicateAttributeFails(t *testing.T) {
	cfg := &FileConfig{
		Attributes: []AttributeConfig{{ID: "title"}, {ID: "title"}},
	}
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected duplicate attribute error")
	}
}

func TestBuildAmbiguousColumnFails(t *testing.T) {
	cfg := &FileConfig{
		Attributes: []AttributeConfig{{ID: "title"}, {ID: "subtitle"}},
		Platforms: []PlatformConfig{{
			ID:     "castorama_pl",
			Locale: "pl",
			Columns: []ColumnConfig{
				{Name: "D4", Attribute: "title"},
				{Name: "D4", Attribute: "subtitle"},
			},
		}},
	}
	_, err := cfg.Build()
	if err == nil {
		t.Fatal("expected ambiguous mapping error")
	}
	if _, ok := err.(*mapping.ErrAmbiguousMapping); !ok {
		t.Fatalf("expected ErrAmbiguousMapping, got %T: %v", err, err)
	}
}

func TestBuildUnknownVocabularyAttributeFails(t *testing.T) {
	cfg := &FileConfig{
		Vocabularies: []VocabularyConfig{{Attribute: "ghost"}},
	}
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected unknown attribute error")
	}
}

func TestBuildVocabularyConflictFails(t *testing.T) {
	cfg := &FileConfig{
		Attributes: []AttributeConfig{{ID: "colour", Domain: "enumerated"}},
		Vocabularies: []VocabularyConfig{{
			Attribute: "colour",
			Values: []VocabularyValueConfig{
				{Canonical: "white", Locales: map[string]string{"fr": "Blanc"}},
				{Canonical: "off-white", Locales: map[string]string{"fr": "Blanc"}},
			},
		}},
	}
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected vocabulary conflict error")
	}
}

func TestBuildDuplicatePlatformFails(t *testing.T) {
	cfg := &FileConfig{
		Platforms: []PlatformConfig{
			{ID: "castorama_fr", Locale: "fr"},
			{ID: "castorama_fr", Locale: "fr"},
		},
	}
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected duplicate platform error")
	}
}

func TestQuotaLimitsDefaults(t *testing.T) {
	cfg := &FileConfig{}
	limits := cfg.QuotaLimits()
	if limits.MonthlyChars != 500000 || limits.DailyRequests != 1000 {
		t.Fatalf("unexpected defaults: %+v", limits)
	}

	cfg.Quota.MonthlyChars = 42
	if got := cfg.QuotaLimits(); got.MonthlyChars != 42 {
		t.Fatalf("expected override, got %+v", got)
	}
}

func TestLoadFileParsesTranslator(t *testing.T) {
	cfg := loadSample(t)
	if cfg.Translator.Attempts != 3 {
		t.Fatalf("unexpected attempts: %d", cfg.Translator.Attempts)
	}
	if cfg.Translator.Timeout.Std().Seconds() != 30 {
		t.Fatalf("unexpected timeout: %v", cfg.Translator.Timeout)
	}
	if cfg.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Workers)
	}
}

func TestLoadFileInvalidDuration(t *testing.T) {
	path := writeConfig(t, "translator:\n  timeout: soon\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
