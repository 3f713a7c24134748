package if97

import (
	"math"
	"testing"

	"steam-toolbox/internal/errors"
)

func within(got, want, rel float64) bool {
	return math.Abs(got-want) <= rel*math.Abs(want)
}

func TestRegion1SpecificVolume(t *testing.T) {
	tests := []struct {
		p, t, want float64
	}{
		{3e6, 300, 0.100215168e-2},
		{80e6, 300, 0.971180894e-3},
		{3e6, 500, 0.120241800e-2},
	}
	for _, tt := range tests {
		v, err := Region1SpecificVolume(tt.p, tt.t)
		if err != nil {
			t.Fatalf("v(%v, %v): %v", tt.p, tt.t, err)
		}
		if !within(v, tt.want, 1e-8) {
			t.Errorf("v(%v, %v) = %.10g, want %.10g", tt.p, tt.t, v, tt.want)
		}
	}
}

func TestRegion2SpecificVolume(t *testing.T) {
	tests := []struct {
		p, t, want float64
	}{
		{3500, 300, 0.394913866e2},
		{3500, 700, 0.923015898e2},
		{30e6, 700, 0.542946619e-2},
	}
	for _, tt := range tests {
		v, err := Region2SpecificVolume(tt.p, tt.t)
		if err != nil {
			t.Fatalf("v(%v, %v): %v", tt.p, tt.t, err)
		}
		if !within(v, tt.want, 1e-8) {
			t.Errorf("v(%v, %v) = %.10g, want %.10g", tt.p, tt.t, v, tt.want)
		}
	}
}

func TestSaturationLine(t *testing.T) {
	for _, tt := range []struct{ t, p float64 }{
		{300, 0.353658941e4},
		{500, 0.263889776e7},
		{600, 0.123443146e8},
	} {
		p, err := SaturationPressure(tt.t)
		if err != nil {
			t.Fatal(err)
		}
		if !within(p, tt.p, 1e-8) {
			t.Errorf("psat(%v) = %.10g, want %.10g", tt.t, p, tt.p)
		}
	}
	for _, tt := range []struct{ p, t float64 }{
		{0.1e6, 0.372755919e3},
		{1e6, 0.453035632e3},
		{10e6, 0.584149488e3},
	} {
		ts, err := SaturationTemperature(tt.p)
		if err != nil {
			t.Fatal(err)
		}
		if !within(ts, tt.t, 1e-8) {
			t.Errorf("Tsat(%v) = %.10g, want %.10g", tt.p, ts, tt.t)
		}
	}
}

func TestSaturationRoundTrip(t *testing.T) {
	for _, temp := range []float64{280, 350, 420, 500, 600} {
		p, err := SaturationPressure(temp)
		if err != nil {
			t.Fatal(err)
		}
		back, err := SaturationTemperature(p)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(back-temp) > 1e-6 {
			t.Errorf("Tsat(psat(%v)) = %v", temp, back)
		}
	}
}

func TestB23Pressure(t *testing.T) {
	if p := B23Pressure(0.623150000e3); !within(p, 0.165291643e8, 1e-8) {
		t.Errorf("pB23(623.15) = %v", p)
	}
}

func TestViscosity(t *testing.T) {
	mu, err := Viscosity(998, 298.15)
	if err != nil {
		t.Fatal(err)
	}
	if !within(mu, 889.735100e-6, 1e-5) {
		t.Errorf("mu(998, 298.15) = %v", mu)
	}

	mu, err = Viscosity(1, 873.15)
	if err != nil {
		t.Fatal(err)
	}
	if !within(mu, 32.619e-6, 1e-3) {
		t.Errorf("mu(1, 873.15) = %v", mu)
	}

	if _, err := Viscosity(0, 300); !errors.IsType(err, errors.TypePropertyEstimation) {
		t.Errorf("zero density: got %v", err)
	}
}

func TestRegionBoundsRejected(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (float64, error)
	}{
		{"region1 vapour side", func() (float64, error) { return Region1SpecificVolume(1e5, 400) }},
		{"region1 too hot", func() (float64, error) { return Region1SpecificVolume(20e6, 650) }},
		{"region1 too cold", func() (float64, error) { return Region1SpecificVolume(1e5, 250) }},
		{"region2 liquid side", func() (float64, error) { return Region2SpecificVolume(1e6, 400) }},
		{"region2 above B23", func() (float64, error) { return Region2SpecificVolume(50e6, 700) }},
		{"region2 too hot", func() (float64, error) { return Region2SpecificVolume(1e6, 1200) }},
		{"tsat below triple", func() (float64, error) { return SaturationTemperature(100) }},
		{"psat above critical", func() (float64, error) { return SaturationPressure(700) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			if !errors.IsType(err, errors.TypePropertyEstimation) {
				t.Errorf("expected property estimation error, got %v", err)
			}
		})
	}
}

func TestSaturatedStates(t *testing.T) {
	liq, err := SaturatedLiquid(1e6)
	if err != nil {
		t.Fatal(err)
	}
	vap, err := SaturatedVapour(1e6)
	if err != nil {
		t.Fatal(err)
	}
	// Saturated water at 1 MPa: ~887 kg/m3 liquid, ~5.15 kg/m3 vapour
	if liq.DensityKgM3 < 880 || liq.DensityKgM3 > 895 {
		t.Errorf("saturated liquid density = %v", liq.DensityKgM3)
	}
	if vap.DensityKgM3 < 5.0 || vap.DensityKgM3 > 5.3 {
		t.Errorf("saturated vapour density = %v", vap.DensityKgM3)
	}
	if vap.ViscosityPaS >= liq.ViscosityPaS {
		t.Errorf("vapour viscosity %v should be below liquid %v", vap.ViscosityPaS, liq.ViscosityPaS)
	}

	if _, err := SaturatedVapour(20e6); !errors.IsType(err, errors.TypePropertyEstimation) {
		t.Errorf("region 3 saturated state: got %v", err)
	}
}

func TestLiquidWaterAtAmbient(t *testing.T) {
	s, err := Liquid(101325, 298.15)
	if err != nil {
		t.Fatal(err)
	}
	if !within(s.DensityKgM3, 997.0, 1e-3) {
		t.Errorf("density = %v", s.DensityKgM3)
	}
	if !within(s.ViscosityPaS, 8.9e-4, 1e-2) {
		t.Errorf("viscosity = %v", s.ViscosityPaS)
	}
	if s.Region != 1 {
		t.Errorf("region = %d", s.Region)
	}
}
