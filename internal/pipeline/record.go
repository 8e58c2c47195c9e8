package pipeline

import "time"

// Provenance tags where an output field value came from.
type Provenance string

const (
	ProvenanceAuthor     Provenance = "author_supplied"
	ProvenanceNormalized Provenance = "normalized"
	ProvenanceTranslated Provenance = "machine_translated"
	ProvenanceFallback   Provenance = "fallback_placeholder"
)

// ProductRecord holds the canonical attribute values of one product.
// Values carries the base-locale value per attribute; LocaleValues
// carries author-supplied locale variants for translatable attributes.
// The record is produced by the external data-population step and
// read-only to the pipeline.
type ProductRecord struct {
	ID           string                       `json:"id"`
	Values       map[string]string            `json:"values"`
	LocaleValues map[string]map[string]string `json:"locale_values,omitempty"`
}

// LocaleValue returns the author-supplied variant of an attribute for a
// locale, if any.
func (p *ProductRecord) LocaleValue(attributeID, locale string) (string, bool) {
	variants, ok := p.LocaleValues[attributeID]
	if !ok {
		return "", false
	}
	v, ok := variants[locale]
	return v, ok && v != ""
}

// Field is one output cell of a platform row.
type Field struct {
	Column     string     `json:"column"`
	Value      string     `json:"value"`
	Provenance Provenance `json:"provenance,omitempty"`
}

// PlatformRecord is the derived upload row for one (product, platform)
// pair, with fields in the exact column order of the platform schema.
// It is created once per successful transformation and immutable
// afterwards.
type PlatformRecord struct {
	PlatformID string  `json:"platform_id"`
	ProductID  string  `json:"product_id"`
	Fields     []Field `json:"fields"`
}

// DiagnosticKind classifies a per-pair diagnostic.
type DiagnosticKind string

const (
	DiagMissingRequiredField DiagnosticKind = "missing_required_field"
	DiagUnknownEnumValue     DiagnosticKind = "unknown_enum_value"
	DiagNotMapped            DiagnosticKind = "not_mapped"
	DiagTranslationFallback  DiagnosticKind = "translation_fallback"
	DiagWarning              DiagnosticKind = "warning"
)

// Diagnostic is one non-fatal finding for a (product, platform) pair.
type Diagnostic struct {
	ProductID  string         `json:"product_id"`
	PlatformID string         `json:"platform_id"`
	Kind       DiagnosticKind `json:"kind"`
	Field      string         `json:"field,omitempty"`
	Message    string         `json:"message"`
}

// PlatformCounts aggregates pair outcomes for one platform.
type PlatformCounts struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
}

// Summary aggregates one pipeline run.
type Summary struct {
	RunID       string                     `json:"run_id"`
	StartedAt   time.Time                  `json:"started_at"`
	FinishedAt  time.Time                  `json:"finished_at"`
	Products    int                        `json:"products"`
	Platforms   int                        `json:"platforms"`
	PerPlatform map[string]*PlatformCounts `json:"per_platform"`
	Diagnostics []Diagnostic               `json:"diagnostics"`
}

func (s *Summary) counts(platformID string) *PlatformCounts {
	c, ok := s.PerPlatform[platformID]
	if !ok {
		c = &PlatformCounts{}
		s.PerPlatform[platformID] = c
	}
	return c
}
