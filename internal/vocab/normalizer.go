package vocab

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/feedforge/multimarket/internal/registry"
)

// ErrUnknownEnumValue indicates a strict enumerated attribute received
// a value outside its controlled vocabulary.
type ErrUnknownEnumValue struct {
	Attribute string
	Value     string
}

func (e *ErrUnknownEnumValue) Error() string {
	return fmt.Sprintf("vocab: unknown value %q for strict attribute %q", e.Value, e.Attribute)
}

// UnitConversion declares the unit a platform expects for a numeric
// attribute and the factor applied to the canonical-unit value.
type UnitConversion struct {
	Unit   string
	Factor float64
}

// NumericSpec declares the canonical unit of a numeric attribute and
// per-platform conversions.
type NumericSpec struct {
	CanonicalUnit string
	PerPlatform   map[string]UnitConversion
}

// Result is the outcome of normalizing one field value.
type Result struct {
	Value string
	// Normalized is true when the emitted value differs from the raw
	// input for a reason other than whitespace sanitization.
	Normalized bool
	Warnings   []string
}

// Normalizer converts canonical controlled-vocabulary values to
// platform/locale renderings and back, applying the per-attribute
// strictness policy. All lookup tables are read-only during a run.
type Normalizer struct {
	registry     *registry.Registry
	vocabularies map[string]*Vocabulary
	numeric      map[string]NumericSpec
	// locale per platform, used to select vocabulary renderings.
	platformLocales map[string]string
}

// NewNormalizer constructs a Normalizer over the given registry.
func NewNormalizer(reg *registry.Registry) *Normalizer {
	return &Normalizer{
		registry:        reg,
		vocabularies:    make(map[string]*Vocabulary),
		numeric:         make(map[string]NumericSpec),
		platformLocales: make(map[string]string),
	}
}

// SetVocabulary binds a controlled vocabulary to an attribute.
func (n *Normalizer) SetVocabulary(attributeID string, v *Vocabulary) {
	n.vocabularies[strings.TrimSpace(attributeID)] = v
}

// Vocabulary returns the vocabulary bound to an attribute, if any.
func (n *Normalizer) Vocabulary(attributeID string) (*Vocabulary, bool) {
	v, ok := n.vocabularies[strings.TrimSpace(attributeID)]
	return v, ok
}

// SetNumericSpec binds unit handling to a numeric attribute.
func (n *Normalizer) SetNumericSpec(attributeID string, spec NumericSpec) {
	n.numeric[strings.TrimSpace(attributeID)] = spec
}

// SetPlatformLocale records the locale a platform renders values in.
func (n *Normalizer) SetPlatformLocale(platformID, locale string) {
	n.platformLocales[strings.TrimSpace(platformID)] = strings.ToLower(strings.TrimSpace(locale))
}

// Normalize converts a raw value of the given attribute into the
// platform's expected rendering. Enumerated and boolean domains go
// through the controlled vocabulary; numeric domains are parsed and
// converted to the platform unit when a factor is declared; free text
// and image references only get whitespace/control sanitization.
func (n *Normalizer) Normalize(attributeID, rawValue, platformID string) (Result, error) {
	attr, errLookup := n.registry.Lookup(attributeID)
	if errLookup != nil {
		return Result{}, errLookup
	}

	switch attr.Domain {
	case registry.DomainEnumerated, registry.DomainBoolean:
		return n.normalizeEnumerated(attr, rawValue, platformID)
	case registry.DomainNumericWithUnit:
		return n.normalizeNumeric(attr, rawValue, platformID), nil
	default:
		return Result{Value: sanitizeText(rawValue)}, nil
	}
}

// Delocalize maps a platform/locale rendering of an enumerated value
// back to its canonical form, applying the attribute's strictness
// policy to unknown values.
func (n *Normalizer) Delocalize(attributeID, rawValue, locale string) (Result, error) {
	attr, errLookup := n.registry.Lookup(attributeID)
	if errLookup != nil {
		return Result{}, errLookup
	}
	raw := sanitizeText(rawValue)
	v, ok := n.vocabularies[attr.ID]
	if !ok {
		return Result{Value: raw}, nil
	}
	if canonical, found := v.Delocalize(locale, raw); found {
		return Result{Value: canonical, Normalized: canonical != raw}, nil
	}
	if attr.Strictness == registry.StrictnessStrict {
		return Result{}, &ErrUnknownEnumValue{Attribute: attr.ID, Value: raw}
	}
	return Result{
		Value:    raw,
		Warnings: []string{fmt.Sprintf("value %q not in vocabulary for %s, passed through", raw, attr.ID)},
	}, nil
}

func (n *Normalizer) normalizeEnumerated(attr *registry.Attribute, rawValue, platformID string) (Result, error) {
	raw := sanitizeText(rawValue)
	v, ok := n.vocabularies[attr.ID]
	if !ok {
		// No vocabulary declared: treat like free text under either policy.
		return Result{Value: raw}, nil
	}

	locale := n.platformLocales[strings.TrimSpace(platformID)]

	// Accept both canonical values and localized spellings as input.
	canonical, found := v.Delocalize(locale, raw)
	if !found {
		canonical, found = v.Delocalize("", raw)
	}
	if !found && v.HasCanonical(raw) {
		canonical, found = raw, true
	}

	if !found {
		if attr.Strictness == registry.StrictnessStrict {
			return Result{}, &ErrUnknownEnumValue{Attribute: attr.ID, Value: raw}
		}
		return Result{
			Value:    raw,
			Warnings: []string{fmt.Sprintf("value %q not in vocabulary for %s, passed through", raw, attr.ID)},
		}, nil
	}

	rendered, _ := v.Localize(locale, canonical)
	return Result{Value: rendered, Normalized: rendered != raw}, nil
}

var numericRe = regexp.MustCompile(`^([+-]?\d+(?:[.,]\d+)?)\s*([^\d\s].*)?$`)

func (n *Normalizer) normalizeNumeric(attr *registry.Attribute, rawValue, platformID string) Result {
	raw := sanitizeText(rawValue)
	match := numericRe.FindStringSubmatch(raw)
	if match == nil {
		return Result{
			Value:    raw,
			Warnings: []string{fmt.Sprintf("value %q for %s is not numeric, passed through", raw, attr.ID)},
		}
	}

	value, errParse := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if errParse != nil {
		return Result{
			Value:    raw,
			Warnings: []string{fmt.Sprintf("value %q for %s is not numeric, passed through", raw, attr.ID)},
		}
	}

	spec, hasSpec := n.numeric[attr.ID]
	unit := strings.TrimSpace(match[2])

	if hasSpec && unit != "" && !strings.EqualFold(unit, spec.CanonicalUnit) {
		return Result{
			Value: raw,
			Warnings: []string{fmt.Sprintf("value %q for %s carries unit %q, expected %q, passed through",
				raw, attr.ID, unit, spec.CanonicalUnit)},
		}
	}

	if hasSpec {
		if conv, ok := spec.PerPlatform[strings.TrimSpace(platformID)]; ok && conv.Factor != 0 {
			converted := value * conv.Factor
			return Result{Value: formatNumber(converted), Normalized: true}
		}
	}
	return Result{Value: formatNumber(value), Normalized: formatNumber(value) != raw}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var controlRe = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
var spaceRe = regexp.MustCompile(`[ \t]+`)

// sanitizeText strips control characters and collapses runs of spaces
// and tabs; newlines inside descriptions survive.
func sanitizeText(s string) string {
	s = controlRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
