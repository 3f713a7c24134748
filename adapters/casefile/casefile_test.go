package casefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"steam-toolbox/core/batch"
	"steam-toolbox/core/types"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/errors"
)

const sample = `
locals {
  header = "100 mm"
  run    = 50
}

defaults {
  fluid    = "steam"
  material = "commercial-steel"
}

case "header-a" {
  phase          = "superheated"
  pressure       = "10 bar(a)"
  temperature    = "250 C"
  density        = 5.0
  viscosity      = 1.7e-5
  diameter       = local.header
  length         = "${local.run} m"
  roughness      = "0.045 mm"
  mass_flow      = "2 t/h"
  speed_of_sound = 500
  correlation    = "haaland"

  fitting "elbow-90" { count = 4 }
  fitting "custom" { k = 2.5 }
  fitting "strainer" { equivalent_length = "3 m" }
}

case "cooling-water" {
  fluid           = "water"
  density         = 997
  viscosity       = 0.001
  diameter_m      = 0.1
  length_m        = max(10, local.run)
  condition       = "aged"
  volumetric_flow = "36 m3/h"
}
`

func parser() *Parser {
	return NewParser(Defaults{
		Fluid:        "steam",
		Material:     "commercial-steel",
		SpeedOfSound: map[string]float64{"water": 1480},
	})
}

func TestParseSample(t *testing.T) {
	cases, err := parser().Parse([]byte(sample), "sample.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Fatalf("got %d cases", len(cases))
	}

	a := cases[0]
	if a.Name != "header-a" {
		t.Errorf("name = %q", a.Name)
	}
	req := a.Request
	if req.Fluid.Class != types.FluidSteam || req.Fluid.Phase != types.PhaseSuperheated {
		t.Errorf("fluid = %+v", req.Fluid)
	}
	if req.Thermo.State == nil || req.Thermo.State.PressurePa != 1e6 ||
		!scalar.EqualWithinAbs(req.Thermo.State.TemperatureK, 523.15, 1e-9) {
		t.Errorf("state = %+v", req.Thermo.State)
	}
	if req.Thermo.Manual == nil || req.Thermo.Manual.DensityKgM3 != 5 {
		t.Errorf("manual = %+v", req.Thermo.Manual)
	}
	g := req.Geometry
	if !scalar.EqualWithinRel(g.DiameterM, 0.1, 1e-12) || g.LengthM != 50 || !scalar.EqualWithinRel(g.RoughnessM, 4.5e-5, 1e-12) {
		t.Errorf("geometry = %+v", g)
	}
	if req.Flow.Kind != types.FlowMass || !scalar.EqualWithinRel(req.Flow.Value, 2000/3600.0, 1e-12) {
		t.Errorf("flow = %+v", req.Flow)
	}
	if req.SpeedOfSoundMS == nil || *req.SpeedOfSoundMS != 500 {
		t.Errorf("speed of sound = %v", req.SpeedOfSoundMS)
	}
	if req.Correlation != types.CorrelationHaaland {
		t.Errorf("correlation = %s", req.Correlation)
	}

	want := []types.FittingEntry{
		{Label: "elbow-90", Kind: types.FittingK, Value: 0.75, Count: 4},
		{Label: "custom", Kind: types.FittingK, Value: 2.5, Count: 1},
		{Label: "strainer", Kind: types.FittingEquivalentLength, Value: 3, Count: 1},
	}
	if len(req.Fittings) != len(want) {
		t.Fatalf("fittings = %+v", req.Fittings)
	}
	for i := range want {
		if req.Fittings[i] != want[i] {
			t.Errorf("fitting %d = %+v, want %+v", i, req.Fittings[i], want[i])
		}
	}

	b := cases[1].Request
	if b.Fluid.Class != types.FluidWater || b.Thermo.State != nil {
		t.Errorf("cooling-water thermo = %+v", b.Thermo)
	}
	if b.Geometry.LengthM != 50 || b.Geometry.RoughnessM != 1.5e-4 {
		t.Errorf("cooling-water geometry = %+v", b.Geometry)
	}
	if b.Flow.Kind != types.FlowVolumetric || !scalar.EqualWithinRel(b.Flow.Value, 0.01, 1e-12) {
		t.Errorf("cooling-water flow = %+v", b.Flow)
	}
	if b.SpeedOfSoundMS == nil || *b.SpeedOfSoundMS != 1480 {
		t.Errorf("configured speed of sound not applied: %v", b.SpeedOfSoundMS)
	}
	if b.Correlation != types.CorrelationAuto {
		t.Errorf("correlation = %s", b.Correlation)
	}
}

func TestParsedCasesSolve(t *testing.T) {
	cases, err := parser().Parse([]byte(sample), "sample.hcl")
	if err != nil {
		t.Fatal(err)
	}
	items, stats := batch.Run(context.Background(), cases, nil, 2)
	if stats.Failed != 0 || stats.Succeeded != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	for _, it := range items {
		if !it.OK() || it.Result.PressureDropPa <= 0 {
			t.Errorf("%s: %+v", it.Name, it)
		}
	}
}

func TestGaugePressure(t *testing.T) {
	src := `
case "g" {
  pressure      = "9"
  pressure_mode = "gauge"
  temperature_k = 500
  diameter      = "50 mm"
  length        = "10 m"
  mass_flow     = "0.5"
}`
	cases, err := parser().Parse([]byte(src), "gauge.hcl")
	if err != nil {
		t.Fatal(err)
	}
	want := 9 + units.StandardAtmospherePa
	if got := cases[0].Request.Thermo.State.PressurePa; got != want {
		t.Errorf("pressure = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want errors.Type
	}{
		{"syntax", `case "a" { fluid = }`, errors.TypeParsing},
		{"unknown attribute", `case "a" { colour = "red" }`, errors.TypeParsing},
		{"unknown block", `pipe "a" {}`, errors.TypeParsing},
		{"no cases", `defaults { fluid = "water" }`, errors.TypeParsing},
		{"duplicate defaults", `
defaults { fluid = "water" }
defaults { material = "pvc" }
case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
  mass_flow = 1
}`, errors.TypeParsing},
		{"duplicate case", `
case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
  mass_flow = 1
}
case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
  mass_flow = 1
}`, errors.TypeParsing},
		{"missing flow", `case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
}`, errors.TypeFlow},
		{"two flows", `case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
  mass_flow = 1
  volumetric_flow = 1
}`, errors.TypeFlow},
		{"pressure without temperature", `case "a" {
  pressure = "1 bar"
  diameter = 0.1
  length = 1
  mass_flow = 1
}`, errors.TypeInvalidInput},
		{"density without viscosity", `case "a" {
  density = 1
  diameter = 0.1
  length = 1
  mass_flow = 1
}`, errors.TypeInvalidInput},
		{"unknown material", `case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
  material = "unobtainium"
  mass_flow = 1
}`, errors.TypeNotFound},
		{"unknown fitting", `case "a" {
  density = 1
  viscosity = 1e-5
  diameter = 0.1
  length = 1
  mass_flow = 1
  fitting "widget" {}
}`, errors.TypeNotFound},
		{"bad unit", `case "a" {
  density = 1
  viscosity = 1e-5
  diameter = "4 furlong"
  length = 1
  mass_flow = 1
}`, errors.TypeInvalidInput},
		{"undefined local", `case "a" { diameter = local.nope }`, errors.TypeParsing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser().Parse([]byte(tt.src), "bad.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsType(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, err)
			}
			if !errors.IsType(err, errors.TypeParsing) {
				t.Errorf("case file errors must be parsing errors, got %v", err)
			}
		})
	}
}

func TestSyntaxErrorCarriesLine(t *testing.T) {
	src := "case \"a\" {\n  fluid = \"water\"\n  length = \n}\n"
	_, err := parser().Parse([]byte(src), "line.hcl")
	e, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if line, _ := e.Context["line"].(int); line < 3 {
		t.Errorf("line = %v", e.Context["line"])
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases"+Extension)
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	cases, err := parser().ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Errorf("got %d cases", len(cases))
	}

	if _, err := parser().ParseFile(filepath.Join(t.TempDir(), "missing.hcl")); !errors.IsType(err, errors.TypeParsing) {
		t.Errorf("missing file: got %v", err)
	}
}
