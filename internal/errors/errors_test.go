package errors

import (
	"fmt"
	"testing"
)

func TestInvalidInputCarriesFieldAndBound(t *testing.T) {
	err := Geometry("diameter", 0.0, "must be > 0")

	if err.Type != TypeGeometry {
		t.Fatalf("expected %s, got %s", TypeGeometry, err.Type)
	}
	if err.Field() != "diameter" {
		t.Errorf("expected field 'diameter', got %q", err.Field())
	}
	if err.Context["bound"] != "must be > 0" {
		t.Errorf("unexpected bound: %v", err.Context["bound"])
	}
	if !IsInvalidInput(err) {
		t.Error("geometry errors should count as invalid input")
	}
}

func TestIsTypeFollowsWrappedChain(t *testing.T) {
	cause := PropertyEstimation("pressure above saturation line")
	err := fmt.Errorf("solve: %w", PropertyUnavailable(cause))

	if !IsType(err, TypePropertyUnavailable) {
		t.Error("expected PROPERTY_UNAVAILABLE in chain")
	}
	if !IsType(err, TypePropertyEstimation) {
		t.Error("expected PROPERTY_ESTIMATION_ERROR in chain")
	}
	if IsType(err, TypeFlow) {
		t.Error("did not expect FLOW_ERROR in chain")
	}
	if TypeOf(err) != TypePropertyUnavailable {
		t.Errorf("TypeOf = %s", TypeOf(err))
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(TypeNotFound, "missing"), "[NOT_FOUND] missing"},
		{"wrapped", Wrap(TypeConfig, "load", fmt.Errorf("boom")), "[CONFIG_ERROR] load: boom"},
		{"flow", Flow("mass_flow", -1.0, "must be >= 0"), "[FLOW_ERROR] mass_flow must be >= 0 (got -1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
