package mapping

import (
	"errors"
	"testing"

	"github.com/feedforge/multimarket/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	attrs := []registry.Attribute{
		{
			ID:    "colour",
			Label: "Colour",
			Aliases: []registry.Alias{
				{Name: "Colour"},
				{Name: "Main Color", Platform: "castorama_pl"},
				{Name: "Catégorie couleur", Platform: "castorama_fr", Locale: "fr"},
			},
		},
		{
			ID:    "colour_family",
			Label: "Colour Family",
			Aliases: []registry.Alias{
				{Name: "Main Color"},
			},
		},
		{ID: "title", Label: "Title"},
		{ID: "internal_code", Label: "Internal Code"},
	}
	for _, attr := range attrs {
		if err := reg.Register(attr); err != nil {
			t.Fatalf("register %s: %v", attr.ID, err)
		}
	}
	return reg
}

func TestRegisterMappingAndResolve(t *testing.T) {
	r := NewResolver(testRegistry(t))
	if err := r.RegisterMapping("castorama_fr", "colour", SlotBinding{Column: "Couleur"}); err != nil {
		t.Fatalf("register mapping: %v", err)
	}
	slots, err := r.Resolve("castorama_fr", "colour")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 1 || slots[0].Column != "Couleur" {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestResolveNotMapped(t *testing.T) {
	r := NewResolver(testRegistry(t))
	_, err := r.Resolve("castorama_fr", "colour")
	var notMapped *ErrNotMapped
	if !errors.As(err, &notMapped) {
		t.Fatalf("expected ErrNotMapped, got %v", err)
	}
	if notMapped.Platform != "castorama_fr" || notMapped.Attribute != "colour" {
		t.Fatalf("unexpected error fields: %+v", notMapped)
	}
}

func TestRegisterMappingAmbiguousSlot(t *testing.T) {
	r := NewResolver(testRegistry(t))
	if err := r.RegisterMapping("castorama_pl", "internal_code", SlotBinding{Column: "D4"}); err != nil {
		t.Fatalf("register internal_code: %v", err)
	}
	err := r.RegisterMapping("castorama_pl", "title", SlotBinding{Column: "D4"})
	var ambiguous *ErrAmbiguousMapping
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected ErrAmbiguousMapping, got %v", err)
	}
	if ambiguous.Slot != "D4" || ambiguous.Existing != "internal_code" || ambiguous.Incoming != "title" {
		t.Fatalf("unexpected ambiguity fields: %+v", ambiguous)
	}

	// The conflicting registration must not have partially taken hold.
	if _, errResolve := r.Resolve("castorama_pl", "title"); errResolve == nil {
		t.Fatal("expected title to stay unmapped after rejected registration")
	}
}

func TestRegisterMappingSameSlotSamePlatformDifferentPlatforms(t *testing.T) {
	r := NewResolver(testRegistry(t))
	if err := r.RegisterMapping("castorama_pl", "internal_code", SlotBinding{Column: "D4"}); err != nil {
		t.Fatalf("register on castorama_pl: %v", err)
	}
	// Slot ownership is per platform.
	if err := r.RegisterMapping("castorama_fr", "title", SlotBinding{Column: "D4"}); err != nil {
		t.Fatalf("register on castorama_fr: %v", err)
	}
}

func TestCompositeMappingPreservesSlotOrder(t *testing.T) {
	r := NewResolver(testRegistry(t))
	err := r.RegisterMapping("maxeda_nl", "title",
		SlotBinding{Column: "Titel"},
		SlotBinding{Column: "Titel kort", Transform: "upper"},
	)
	if err != nil {
		t.Fatalf("register composite: %v", err)
	}
	slots, err := r.Resolve("maxeda_nl", "title")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Column != "Titel" || slots[1].Column != "Titel kort" {
		t.Fatalf("unexpected slot order: %+v", slots)
	}
	if slots[1].Transform != "upper" {
		t.Fatalf("expected transform upper, got %q", slots[1].Transform)
	}
}

func TestAttributeFor(t *testing.T) {
	r := NewResolver(testRegistry(t))
	if err := r.RegisterMapping("castorama_fr", "colour", SlotBinding{Column: "Couleur"}); err != nil {
		t.Fatalf("register mapping: %v", err)
	}
	attrID, ok := r.AttributeFor("castorama_fr", "Couleur")
	if !ok || attrID != "colour" {
		t.Fatalf("expected colour, got %q ok=%v", attrID, ok)
	}
	if _, ok := r.AttributeFor("castorama_fr", "Gewicht"); ok {
		t.Fatal("expected no owner for unbound column")
	}
}

func TestReverseResolveFoldsCaseDiacriticsWhitespace(t *testing.T) {
	r := NewResolver(testRegistry(t))
	for _, raw := range []string{"Catégorie couleur", "categorie  couleur", "CATEGORIE COULEUR  "} {
		got := r.ReverseResolve("castorama_fr", raw)
		if len(got) != 1 || got[0] != "colour" {
			t.Fatalf("reverse resolve %q: got %v", raw, got)
		}
	}
}

func TestReverseResolvePlatformScopedShadowsGeneric(t *testing.T) {
	r := NewResolver(testRegistry(t))

	// "Main Color" is generic for colour_family but scoped to
	// castorama_pl for colour; the scoped alias wins there.
	got := r.ReverseResolve("castorama_pl", "Main Color")
	if len(got) != 1 || got[0] != "colour" {
		t.Fatalf("expected scoped alias to win, got %v", got)
	}

	// On other platforms only the generic alias applies.
	got = r.ReverseResolve("maxeda_nl", "main color")
	if len(got) != 1 || got[0] != "colour_family" {
		t.Fatalf("expected generic alias elsewhere, got %v", got)
	}
}

func TestReverseResolveAmbiguousReturnsAllSorted(t *testing.T) {
	reg := registry.New()
	for _, attr := range []registry.Attribute{
		{ID: "width", Aliases: []registry.Alias{{Name: "Size"}}},
		{ID: "height", Aliases: []registry.Alias{{Name: "Size"}}},
	} {
		if err := reg.Register(attr); err != nil {
			t.Fatalf("register %s: %v", attr.ID, err)
		}
	}
	r := NewResolver(reg)
	got := r.ReverseResolve("castorama_fr", "size")
	if len(got) != 2 || got[0] != "height" || got[1] != "width" {
		t.Fatalf("expected both candidates sorted, got %v", got)
	}
}

func TestReverseResolveUnknown(t *testing.T) {
	r := NewResolver(testRegistry(t))
	if got := r.ReverseResolve("castorama_fr", "Nonexistent Header"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := r.ReverseResolve("castorama_fr", "   "); got != nil {
		t.Fatalf("expected nil for blank header, got %v", got)
	}
}

func TestFoldColumnName(t *testing.T) {
	cases := map[string]string{
		"  Couleur Détaillée ": "couleur detaillee",
		"Catégorie":            "categorie",
		"EAN\tCode":            "ean code",
	}
	for in, want := range cases {
		if got := foldColumnName(in); got != want {
			t.Fatalf("fold %q: got %q, want %q", in, got, want)
		}
	}
}
