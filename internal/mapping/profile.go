package mapping

import "strings"

// ColumnSlot is one output column position in a platform upload schema.
type ColumnSlot struct {
	Name     string // Column header exactly as the platform template spells it.
	Required bool   // Whether the platform rejects rows without a value here.
}

// PlatformProfile describes the column layout and locale of one
// destination marketplace. Profiles are loaded once from configuration
// and read-only thereafter; the reference template that dictates the
// column order is consumed, never produced, by this module.
type PlatformProfile struct {
	ID      string
	Name    string
	Locale  string
	Columns []ColumnSlot
}

// RequiredColumns returns the names of all required column slots in
// template order.
func (p *PlatformProfile) RequiredColumns() []string {
	var out []string
	for _, col := range p.Columns {
		if col.Required {
			out = append(out, col.Name)
		}
	}
	return out
}

// HasColumn reports whether the profile declares the named column.
func (p *PlatformProfile) HasColumn(name string) bool {
	name = strings.TrimSpace(name)
	for _, col := range p.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}
