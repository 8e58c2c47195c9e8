package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/feedforge/multimarket/internal/registry"
)

// ErrAmbiguousMapping indicates two attributes claim the same column
// slot under one platform. This is a fatal configuration error; the
// resolver never resolves it by letting the last registration win.
type ErrAmbiguousMapping struct {
	Platform string
	Slot     string
	Existing string
	Incoming string
}

func (e *ErrAmbiguousMapping) Error() string {
	return fmt.Sprintf("mapping: slot %q on platform %q already claimed by attribute %q, refusing %q",
		e.Slot, e.Platform, e.Existing, e.Incoming)
}

// ErrNotMapped indicates no mapping exists for an attribute under a
// platform.
type ErrNotMapped struct {
	Platform  string
	Attribute string
}

func (e *ErrNotMapped) Error() string {
	return fmt.Sprintf("mapping: attribute %q not mapped for platform %q", e.Attribute, e.Platform)
}

// SlotBinding is one resolved output column for an attribute, with an
// optional transform tag applied when rendering the value.
type SlotBinding struct {
	Column    string
	Transform string
}

type attributeMapping struct {
	attributeID string
	slots       []SlotBinding
}

type aliasEntry struct {
	attributeID string
	platform    string
	locale      string
}

// Resolver resolves canonical attribute to platform column bindings in
// both directions. Mappings are registered at configuration-load time
// and read-only during a run.
type Resolver struct {
	registry *registry.Registry

	// slotOwners[platform][column] guards against two attributes
	// silently merging into one slot.
	slotOwners map[string]map[string]string
	mappings   map[string]map[string]*attributeMapping
	aliases    map[string][]aliasEntry
}

// NewResolver constructs a Resolver and indexes the registry's alias
// sets for reverse resolution.
func NewResolver(reg *registry.Registry) *Resolver {
	r := &Resolver{
		registry:   reg,
		slotOwners: make(map[string]map[string]string),
		mappings:   make(map[string]map[string]*attributeMapping),
		aliases:    make(map[string][]aliasEntry),
	}
	if reg != nil {
		for _, attr := range reg.All() {
			for _, alias := range attr.Aliases {
				key := foldColumnName(alias.Name)
				if key == "" {
					continue
				}
				r.aliases[key] = append(r.aliases[key], aliasEntry{
					attributeID: attr.ID,
					platform:    strings.TrimSpace(alias.Platform),
					locale:      strings.TrimSpace(alias.Locale),
				})
			}
		}
	}
	return r
}

// RegisterMapping binds an attribute to one or more column slots under
// a platform. A composite mapping (several slots) must be declared in a
// single call; slot order is preserved as the deterministic resolution
// order. Fails with ErrAmbiguousMapping when any slot is already
// claimed by a different attribute.
func (r *Resolver) RegisterMapping(platformID, attributeID string, slots ...SlotBinding) error {
	platformID = strings.TrimSpace(platformID)
	attributeID = strings.TrimSpace(attributeID)
	if platformID == "" || attributeID == "" {
		return fmt.Errorf("mapping: platform and attribute ids are required")
	}
	if len(slots) == 0 {
		return fmt.Errorf("mapping: no slots for attribute %q on platform %q", attributeID, platformID)
	}
	if r.registry != nil {
		if _, errLookup := r.registry.Lookup(attributeID); errLookup != nil {
			return errLookup
		}
	}

	owners := r.slotOwners[platformID]
	if owners == nil {
		owners = make(map[string]string)
		r.slotOwners[platformID] = owners
	}
	for _, slot := range slots {
		column := strings.TrimSpace(slot.Column)
		if column == "" {
			return fmt.Errorf("mapping: empty column slot for attribute %q on platform %q", attributeID, platformID)
		}
		if owner, claimed := owners[column]; claimed && owner != attributeID {
			return &ErrAmbiguousMapping{
				Platform: platformID,
				Slot:     column,
				Existing: owner,
				Incoming: attributeID,
			}
		}
	}

	byAttr := r.mappings[platformID]
	if byAttr == nil {
		byAttr = make(map[string]*attributeMapping)
		r.mappings[platformID] = byAttr
	}
	m := byAttr[attributeID]
	if m == nil {
		m = &attributeMapping{attributeID: attributeID}
		byAttr[attributeID] = m
	}
	for _, slot := range slots {
		column := strings.TrimSpace(slot.Column)
		if owners[column] == attributeID {
			continue
		}
		owners[column] = attributeID
		m.slots = append(m.slots, SlotBinding{Column: column, Transform: strings.TrimSpace(slot.Transform)})
	}
	return nil
}

// Resolve returns the ordered column slots bound to an attribute under
// a platform, failing with ErrNotMapped when no binding exists.
func (r *Resolver) Resolve(platformID, attributeID string) ([]SlotBinding, error) {
	platformID = strings.TrimSpace(platformID)
	attributeID = strings.TrimSpace(attributeID)
	byAttr := r.mappings[platformID]
	if byAttr != nil {
		if m := byAttr[attributeID]; m != nil && len(m.slots) > 0 {
			out := make([]SlotBinding, len(m.slots))
			copy(out, m.slots)
			return out, nil
		}
	}
	return nil, &ErrNotMapped{Platform: platformID, Attribute: attributeID}
}

// AttributeFor returns the attribute bound to a column slot, if any.
func (r *Resolver) AttributeFor(platformID, column string) (string, bool) {
	owners := r.slotOwners[strings.TrimSpace(platformID)]
	if owners == nil {
		return "", false
	}
	attributeID, ok := owners[strings.TrimSpace(column)]
	return attributeID, ok
}

// ReverseResolve matches a raw platform column header against all known
// aliases, normalizing case, diacritics, and whitespace. Candidates
// scoped to the platform (and its locale) shadow generic cross-platform
// aliases; remaining ties are returned to the caller in sorted order
// rather than picked arbitrarily.
func (r *Resolver) ReverseResolve(platformID, rawColumnName string) []string {
	key := foldColumnName(rawColumnName)
	if key == "" {
		return nil
	}
	platformID = strings.TrimSpace(platformID)

	var scopedLocale, scoped, generic []string
	for _, entry := range r.aliases[key] {
		switch {
		case entry.platform == platformID && entry.locale != "":
			scopedLocale = append(scopedLocale, entry.attributeID)
		case entry.platform == platformID:
			scoped = append(scoped, entry.attributeID)
		case entry.platform == "":
			generic = append(generic, entry.attributeID)
		}
	}
	candidates := scopedLocale
	if len(candidates) == 0 {
		candidates = scoped
	}
	if len(candidates) == 0 {
		candidates = generic
	}
	return dedupeSorted(candidates)
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	sort.Strings(in)
	out := in[:1]
	for _, v := range in[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
