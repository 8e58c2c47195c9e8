package registry

import (
	"errors"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	if err := r.Register(Attribute{ID: "colour", Label: "Colour", Domain: DomainEnumerated}); err != nil {
		t.Fatalf("register colour: %v", err)
	}
	attr, err := r.Lookup("colour")
	if err != nil {
		t.Fatalf("lookup colour: %v", err)
	}
	if attr.Domain != DomainEnumerated {
		t.Fatalf("expected enumerated domain, got %q", attr.Domain)
	}
	if attr.Category != CategoryOptional {
		t.Fatalf("expected default category optional, got %q", attr.Category)
	}
	if attr.Strictness != StrictnessPermissive {
		t.Fatalf("expected default strictness permissive, got %q", attr.Strictness)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	if err := r.Register(Attribute{ID: "ean"}); err != nil {
		t.Fatalf("register ean: %v", err)
	}
	err := r.Register(Attribute{ID: "ean"})
	var dup *ErrDuplicateAttribute
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicateAttribute, got %v", err)
	}
	if dup.ID != "ean" {
		t.Fatalf("expected duplicate id ean, got %q", dup.ID)
	}
}

func TestRegisterEmptyID(t *testing.T) {
	r := New()
	if err := r.Register(Attribute{ID: "   "}); err == nil {
		t.Fatal("expected error for empty attribute id")
	}
}

func TestLookupUnknown(t *testing.T) {
	r := New()
	_, err := r.Lookup("missing")
	var unknown *ErrUnknownAttribute
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := New()
	for _, id := range []string{"title", "description", "ean"} {
		if err := r.Register(Attribute{ID: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(all))
	}
	if all[0].ID != "title" || all[1].ID != "description" || all[2].ID != "ean" {
		t.Fatalf("unexpected order: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestIDsSorted(t *testing.T) {
	r := New()
	for _, id := range []string{"weight", "colour", "material"} {
		if err := r.Register(Attribute{ID: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	ids := r.IDs()
	if len(ids) != 3 || ids[0] != "colour" || ids[1] != "material" || ids[2] != "weight" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
