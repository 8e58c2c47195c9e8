package vocab

import (
	"fmt"
	"sort"
	"strings"
)

// Vocabulary is the bidirectional controlled-vocabulary table for one
// enumerated attribute: canonical value <-> localized rendering per
// locale. Entries are loaded once at startup; the table guarantees that
// localize-then-delocalize round-trips every canonical value.
type Vocabulary struct {
	attributeID string
	canonical   map[string]bool
	// localize[locale][canonical] and delocalize[locale][folded localized].
	localize   map[string]map[string]string
	delocalize map[string]map[string]string
}

// NewVocabulary constructs an empty Vocabulary for an attribute.
func NewVocabulary(attributeID string) *Vocabulary {
	return &Vocabulary{
		attributeID: attributeID,
		canonical:   make(map[string]bool),
		localize:    make(map[string]map[string]string),
		delocalize:  make(map[string]map[string]string),
	}
}

// AddCanonical declares a canonical value without localized renderings.
func (v *Vocabulary) AddCanonical(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("vocab %s: empty canonical value", v.attributeID)
	}
	v.canonical[value] = true
	return nil
}

// AddEntry declares the localized rendering of a canonical value for a
// locale. Conflicting entries are rejected at load time because they
// would break the round-trip invariant.
func (v *Vocabulary) AddEntry(canonical, locale, localized string) error {
	canonical = strings.TrimSpace(canonical)
	locale = strings.ToLower(strings.TrimSpace(locale))
	localized = strings.TrimSpace(localized)
	if canonical == "" || locale == "" || localized == "" {
		return fmt.Errorf("vocab %s: incomplete entry (canonical=%q locale=%q localized=%q)",
			v.attributeID, canonical, locale, localized)
	}

	loc := v.localize[locale]
	if loc == nil {
		loc = make(map[string]string)
		v.localize[locale] = loc
	}
	if prev, exists := loc[canonical]; exists && prev != localized {
		return fmt.Errorf("vocab %s: canonical %q already renders as %q in locale %s, refusing %q",
			v.attributeID, canonical, prev, locale, localized)
	}

	deloc := v.delocalize[locale]
	if deloc == nil {
		deloc = make(map[string]string)
		v.delocalize[locale] = deloc
	}
	key := foldValue(localized)
	if prev, exists := deloc[key]; exists && prev != canonical {
		return fmt.Errorf("vocab %s: localized %q in locale %s already maps to canonical %q, refusing %q",
			v.attributeID, localized, locale, prev, canonical)
	}

	v.canonical[canonical] = true
	loc[canonical] = localized
	deloc[key] = canonical
	return nil
}

// HasCanonical reports whether the value belongs to the vocabulary.
func (v *Vocabulary) HasCanonical(value string) bool {
	return v.canonical[strings.TrimSpace(value)]
}

// Localize returns the locale rendering of a canonical value. Canonical
// values without an entry for the locale render as themselves.
func (v *Vocabulary) Localize(locale, canonical string) (string, bool) {
	canonical = strings.TrimSpace(canonical)
	if !v.canonical[canonical] {
		return "", false
	}
	if loc := v.localize[strings.ToLower(strings.TrimSpace(locale))]; loc != nil {
		if rendered, ok := loc[canonical]; ok {
			return rendered, true
		}
	}
	return canonical, true
}

// Delocalize maps a localized rendering back to its canonical value.
// Raw values that already are canonical resolve to themselves.
func (v *Vocabulary) Delocalize(locale, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if deloc := v.delocalize[strings.ToLower(strings.TrimSpace(locale))]; deloc != nil {
		if canonical, ok := deloc[foldValue(raw)]; ok {
			return canonical, true
		}
	}
	if v.canonical[raw] {
		return raw, true
	}
	return "", false
}

// Canonicals returns the sorted canonical value set.
func (v *Vocabulary) Canonicals() []string {
	out := make([]string, 0, len(v.canonical))
	for value := range v.canonical {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// Locales returns the sorted locales with at least one entry.
func (v *Vocabulary) Locales() []string {
	out := make([]string, 0, len(v.localize))
	for locale := range v.localize {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

func foldValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
