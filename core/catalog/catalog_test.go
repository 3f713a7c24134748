package catalog

import (
	"testing"

	"steam-toolbox/internal/errors"
)

func TestRoughnessLookup(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want float64
	}{
		{"commercial-steel", ConditionNew, 4.5e-5},
		{"Commercial Steel", ConditionNew, 4.5e-5},
		{"steel", ConditionAged, 1.5e-4},
		{"stainless", ConditionAged, 1.5e-5},
		{"galvanized", ConditionNew, 1.5e-4},
		{"smooth", ConditionNew, 0},
	}
	for _, tt := range tests {
		got, err := Global.Roughness(tt.name, tt.cond)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s (%s) = %v, want %v", tt.name, tt.cond, got, tt.want)
		}
	}
}

func TestUnknownMaterial(t *testing.T) {
	_, err := Global.Roughness("unobtainium", ConditionNew)
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestValidationRules(t *testing.T) {
	c := NewCatalog()
	c.Register(MaterialEntry{Name: "bad", RoughnessM: -1})
	c.Register(MaterialEntry{Name: "inverted", RoughnessM: 1e-4, AgedRoughnessM: 1e-5})
	c.Register(MaterialEntry{Name: "ok", RoughnessM: 1e-4})

	if errs := c.Validate(DefaultValidationRules()); len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %d: %v", len(errs), errs)
	}
	if errs := Global.Validate(DefaultValidationRules()); len(errs) != 0 {
		t.Errorf("default catalog invalid: %v", errs)
	}
}

func TestListSorted(t *testing.T) {
	list := Global.List()
	if len(list) != Global.Len() || len(list) == 0 {
		t.Fatalf("list length %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("not sorted at %d: %s > %s", i, list[i-1].Name, list[i].Name)
		}
	}
}

func TestParseCondition(t *testing.T) {
	for in, want := range map[string]Condition{"": ConditionNew, "New": ConditionNew, "aged": ConditionAged, "corroded": ConditionAged} {
		got, err := ParseCondition(in)
		if err != nil || got != want {
			t.Errorf("ParseCondition(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCondition("shiny"); !errors.IsType(err, errors.TypeInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}
