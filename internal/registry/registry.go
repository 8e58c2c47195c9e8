package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies how an attribute participates in a feed.
type Category string

const (
	CategoryRequired  Category = "required"
	CategoryAutomated Category = "automated"
	CategoryOptional  Category = "optional"
)

// Domain declares how an attribute value is handled during normalization.
type Domain string

const (
	DomainFreeText        Domain = "free_text"
	DomainEnumerated      Domain = "enumerated"
	DomainNumericWithUnit Domain = "numeric_with_unit"
	DomainBoolean         Domain = "boolean"
	DomainImageReference  Domain = "image_reference"
)

// Strictness controls how unknown enumerated values are treated.
type Strictness string

const (
	StrictnessStrict     Strictness = "strict"
	StrictnessPermissive Strictness = "permissive"
)

// Alias is one historical column name for an attribute. Platform and
// Locale narrow where the alias applies; both empty means the alias is
// generic across platforms.
type Alias struct {
	Platform string
	Locale   string
	Name     string
}

// Attribute is one canonical, platform-independent product field.
type Attribute struct {
	ID         string
	Label      string
	Category   Category
	Domain     Domain
	Strictness Strictness
	// Translatable marks locale-specific text attributes eligible for
	// machine translation when no author value exists for a locale.
	Translatable bool
	Aliases      []Alias
}

// ErrDuplicateAttribute indicates an attribute ID was registered twice.
type ErrDuplicateAttribute struct {
	ID string
}

func (e *ErrDuplicateAttribute) Error() string {
	return fmt.Sprintf("registry: duplicate attribute %q", e.ID)
}

// ErrUnknownAttribute indicates a lookup for an unregistered attribute.
type ErrUnknownAttribute struct {
	ID string
}

func (e *ErrUnknownAttribute) Error() string {
	return fmt.Sprintf("registry: unknown attribute %q", e.ID)
}

// Registry holds the canonical attribute set. It is built once at
// startup and read-only afterwards; Register must not be called after
// a transformation run has started.
type Registry struct {
	byID  map[string]*Attribute
	order []string
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{byID: make(map[string]*Attribute)}
}

// Register adds an attribute definition. Registering an ID twice fails
// with ErrDuplicateAttribute; configuration load treats that as fatal.
func (r *Registry) Register(attr Attribute) error {
	id := strings.TrimSpace(attr.ID)
	if id == "" {
		return fmt.Errorf("registry: empty attribute id")
	}
	if _, exists := r.byID[id]; exists {
		return &ErrDuplicateAttribute{ID: id}
	}
	attr.ID = id
	if attr.Category == "" {
		attr.Category = CategoryOptional
	}
	if attr.Domain == "" {
		attr.Domain = DomainFreeText
	}
	if attr.Strictness == "" {
		attr.Strictness = StrictnessPermissive
	}
	stored := attr
	r.byID[id] = &stored
	r.order = append(r.order, id)
	return nil
}

// Lookup returns the attribute for the given ID.
func (r *Registry) Lookup(id string) (*Attribute, error) {
	attr, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, &ErrUnknownAttribute{ID: id}
	}
	return attr, nil
}

// All returns every registered attribute in registration order.
func (r *Registry) All() []*Attribute {
	out := make([]*Attribute, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the sorted set of registered attribute IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered attributes.
func (r *Registry) Len() int {
	return len(r.byID)
}
