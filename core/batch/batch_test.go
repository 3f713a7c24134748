package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"steam-toolbox/core/result"
	"steam-toolbox/core/solver"
	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

func waterCase(name string, flow float64) Case {
	return Case{
		Name: name,
		Request: solver.Request{
			Fluid: types.FluidSpec{Class: types.FluidWater},
			Thermo: types.ThermodynamicInput{
				Manual: &types.ManualProperties{DensityKgM3: 997, ViscosityPaS: 0.001},
			},
			Geometry: types.PipeGeometry{DiameterM: 0.1, LengthM: 50, RoughnessM: 4.5e-5},
			Flow:     types.VolumetricFlow(flow),
		},
	}
}

func TestRunKeepsOrderAndIsolatesErrors(t *testing.T) {
	var cases []Case
	for i := 0; i < 20; i++ {
		flow := float64(i) * 0.001
		if i == 7 {
			flow = -1
		}
		cases = append(cases, waterCase(fmt.Sprintf("case-%02d", i), flow))
	}

	items, stats := Run(context.Background(), cases, nil, 3)
	if len(items) != len(cases) {
		t.Fatalf("got %d items", len(items))
	}
	for i, it := range items {
		if it.Index != i || it.Name != cases[i].Name {
			t.Errorf("item %d out of order: %+v", i, it)
		}
		if i == 7 {
			if !errors.IsType(it.Err, errors.TypeFlow) || it.Result != nil {
				t.Errorf("case 7: expected flow error, got %v", it.Err)
			}
			continue
		}
		if !it.OK() {
			t.Errorf("case %d failed: %v", i, it.Err)
		}
	}
	if stats.Total != 20 || stats.Succeeded != 19 || stats.Failed != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	// Results match a sequential solve
	for i, it := range items {
		if !it.OK() {
			continue
		}
		want, _ := solver.Solve(cases[i].Request)
		if it.Result.Fingerprint() != want.Fingerprint() {
			t.Errorf("case %d differs from sequential solve", i)
		}
	}
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int64
	solve := func(req solver.Request) (*result.SolveResult, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return solver.Solve(req)
	}

	cases := make([]Case, 12)
	for i := range cases {
		cases[i] = waterCase(fmt.Sprint(i), 0.01)
	}
	NewRunner(2, solve).Run(context.Background(), cases)
	if peak.Load() > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", peak.Load())
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, stats := Run(ctx, []Case{waterCase("a", 0.01), waterCase("b", 0.01)}, nil, 1)
	for _, it := range items {
		if it.Err != context.Canceled {
			t.Errorf("%s: expected context.Canceled, got %v", it.Name, it.Err)
		}
	}
	if stats.Skipped != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
