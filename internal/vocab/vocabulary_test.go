package vocab

import (
	"testing"
)

func colourVocabulary(t *testing.T) *Vocabulary {
	t.Helper()
	v := NewVocabulary("colour")
	entries := []struct{ canonical, locale, localized string }{
		{"white", "fr", "Blanc"},
		{"white", "nl", "Wit"},
		{"white", "pl", "Biały"},
		{"anthracite grey", "fr", "Gris anthracite"},
	}
	for _, e := range entries {
		if err := v.AddEntry(e.canonical, e.locale, e.localized); err != nil {
			t.Fatalf("add entry %+v: %v", e, err)
		}
	}
	return v
}

func TestLocalize(t *testing.T) {
	v := colourVocabulary(t)
	got, ok := v.Localize("fr", "white")
	if !ok || got != "Blanc" {
		t.Fatalf("expected Blanc, got %q ok=%v", got, ok)
	}
	got, ok = v.Localize("nl", "white")
	if !ok || got != "Wit" {
		t.Fatalf("expected Wit, got %q ok=%v", got, ok)
	}
}

func TestLocalizeMissingLocaleFallsBackToCanonical(t *testing.T) {
	v := colourVocabulary(t)
	got, ok := v.Localize("de", "white")
	if !ok || got != "white" {
		t.Fatalf("expected canonical fallback, got %q ok=%v", got, ok)
	}
}

func TestLocalizeUnknownCanonical(t *testing.T) {
	v := colourVocabulary(t)
	if _, ok := v.Localize("fr", "turquoise"); ok {
		t.Fatal("expected lookup miss for unknown canonical")
	}
}

func TestDelocalize(t *testing.T) {
	v := colourVocabulary(t)
	got, ok := v.Delocalize("fr", "Blanc")
	if !ok || got != "white" {
		t.Fatalf("expected white, got %q ok=%v", got, ok)
	}
	// Case and surrounding whitespace are folded away.
	got, ok = v.Delocalize("fr", "  gris anthracite ")
	if !ok || got != "anthracite grey" {
		t.Fatalf("expected anthracite grey, got %q ok=%v", got, ok)
	}
	// Canonical values pass through regardless of locale.
	got, ok = v.Delocalize("pl", "white")
	if !ok || got != "white" {
		t.Fatalf("expected white identity, got %q ok=%v", got, ok)
	}
	if _, ok := v.Delocalize("fr", "Turquoise"); ok {
		t.Fatal("expected miss for value outside vocabulary")
	}
}

func TestRoundTrip(t *testing.T) {
	v := colourVocabulary(t)
	for _, locale := range v.Locales() {
		for _, canonical := range v.Canonicals() {
			rendered, ok := v.Localize(locale, canonical)
			if !ok {
				t.Fatalf("localize %s/%s failed", locale, canonical)
			}
			back, ok := v.Delocalize(locale, rendered)
			if !ok || back != canonical {
				t.Fatalf("round trip %s/%s: rendered %q came back as %q ok=%v",
					locale, canonical, rendered, back, ok)
			}
		}
	}
}

func TestAddEntryConflictingRendering(t *testing.T) {
	v := colourVocabulary(t)
	if err := v.AddEntry("white", "fr", "Blanche"); err == nil {
		t.Fatal("expected conflict for second rendering of white in fr")
	}
}

func TestAddEntryConflictingCanonical(t *testing.T) {
	v := colourVocabulary(t)
	if err := v.AddEntry("off-white", "fr", "blanc"); err == nil {
		t.Fatal("expected conflict: Blanc already maps to white in fr")
	}
}

func TestAddEntryIdempotent(t *testing.T) {
	v := colourVocabulary(t)
	if err := v.AddEntry("white", "fr", "Blanc"); err != nil {
		t.Fatalf("re-adding identical entry: %v", err)
	}
}

func TestAddCanonical(t *testing.T) {
	v := NewVocabulary("material")
	if err := v.AddCanonical("oak"); err != nil {
		t.Fatalf("add canonical: %v", err)
	}
	if !v.HasCanonical("oak") {
		t.Fatal("expected oak to be canonical")
	}
	if err := v.AddCanonical("  "); err == nil {
		t.Fatal("expected error for blank canonical")
	}
}
