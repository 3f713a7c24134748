// Package solver computes single-phase pressure drop in a straight pipe run
// with fittings. It is the only entry point front-ends call.
//
// Pipeline:
//
//	properties -> area -> velocity -> Reynolds -> friction factor
//	-> fitting equivalent length -> Darcy-Weisbach ΔP -> Mach
//
// K-factor fittings are converted with the friction factor of the straight
// run in a single pass; the result is not iterated to a fixed point.
package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"steam-toolbox/core/fittings"
	"steam-toolbox/core/friction"
	"steam-toolbox/core/property"
	"steam-toolbox/core/result"
	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

// CompressibilityMach is the Mach number above which the incompressible
// Darcy-Weisbach result is flagged
const CompressibilityMach = 0.3

// Request is the complete input of one calculation
type Request struct {
	Fluid    types.FluidSpec          `json:"fluid"`
	Thermo   types.ThermodynamicInput `json:"thermo"`
	Geometry types.PipeGeometry       `json:"geometry"`
	Flow     types.FlowInput          `json:"flow"`
	Fittings []types.FittingEntry     `json:"fittings,omitempty"`

	// SpeedOfSoundMS enables the Mach number when set
	SpeedOfSoundMS *float64 `json:"speed_of_sound_m_s,omitempty"`

	// Correlation selects the turbulent correlation; empty means auto
	Correlation types.Correlation `json:"correlation,omitempty"`

	// Estimator overrides the solver's estimator for this request
	Estimator property.Estimator `json:"-"`
}

// Solver runs calculations with an injected estimator and logger
type Solver struct {
	estimator property.Estimator
	logger    *zap.Logger
}

// Option configures a Solver
type Option func(*Solver)

// WithEstimator sets the property estimator
func WithEstimator(est property.Estimator) Option {
	return func(s *Solver) {
		if est != nil {
			s.estimator = est
		}
	}
}

// WithLogger sets the debug logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Solver. Defaults: property.Default() and a no-op logger.
func New(opts ...Option) *Solver {
	s := &Solver{
		estimator: property.Default(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSolver = New()

// Solve runs req with the default solver
func Solve(req Request) (*result.SolveResult, error) {
	return defaultSolver.Solve(req)
}

// Solve runs one calculation. On error no result is returned.
func (s *Solver) Solve(req Request) (*result.SolveResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	est := req.Estimator
	if est == nil {
		est = s.estimator
	}
	props, err := property.Resolve(req.Fluid, req.Thermo, est)
	if err != nil {
		s.logger.Debug("property resolution failed",
			zap.String("fluid", req.Fluid.Class.String()),
			zap.Error(err))
		return nil, err
	}

	var warnings []result.Warning
	if props.Source == types.SourceManualFallback {
		warnings = append(warnings, result.Warning{
			Code:    result.WarnPropertyFallback,
			Message: "property estimation failed; manual density and viscosity used: " + props.Detail,
		})
	}

	g := req.Geometry
	area := g.AreaM2()
	q := req.Flow.VolumetricM3S(props.DensityKgM3)
	v := q / area
	rr := g.RelativeRoughness()

	res := &result.SolveResult{
		Fluid:             req.Fluid,
		Geometry:          g,
		Flow:              req.Flow,
		Properties:        props,
		MassFlowKgS:       req.Flow.MassKgS(props.DensityKgM3),
		VolumetricFlowM3S: q,
		VelocityMS:        v,
		DynamicPressurePa: props.DensityKgM3 * v * v / 2,
		RelativeRoughness: rr,
	}

	var regime types.FlowRegimeResult
	if v == 0 {
		regime = types.FlowRegimeResult{Regime: types.RegimeNone, Correlation: types.CorrelationNone}
	} else {
		re := props.DensityKgM3 * v * g.DiameterM / props.ViscosityPaS
		var fw []result.Warning
		regime, fw, err = friction.Evaluate(re, rr, req.Correlation)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, fw...)
		if math.IsInf(regime.FrictionFactor, 1) {
			regime.FrictionFactor = math.MaxFloat64
			warnings = append(warnings, result.Warning{
				Code:    result.WarnCreepingFlow,
				Message: fmt.Sprintf("Re %.3g is too small to represent 64/Re; friction factor clamped", re),
				Field:   "reynolds",
				Value:   re,
				Bound:   "> 64/MaxFloat64",
			})
		}
	}
	res.Reynolds = regime.Reynolds
	res.FrictionFactor = regime.FrictionFactor
	res.Regime = regime.Regime
	res.Correlation = regime.Correlation

	res.Fittings = fittings.Aggregate(req.Fittings, g.DiameterM, regime.FrictionFactor)
	res.TotalLengthM = g.LengthM + res.Fittings.TotalLengthM

	switch {
	case v == 0:
	case regime.Regime == types.RegimeLaminar:
		// Hagen-Poiseuille: f·(L/D)·ρv²/2 with f = 64/Re, free of the 1/Re overflow
		res.PressureDropPa = 32 * props.ViscosityPaS * res.TotalLengthM * v / (g.DiameterM * g.DiameterM)
	default:
		res.PressureDropPa = regime.FrictionFactor * (res.TotalLengthM / g.DiameterM) * res.DynamicPressurePa
	}
	res.PressureDropPerMeterPa = res.PressureDropPerMeter()

	if c := req.SpeedOfSoundMS; c != nil {
		speed := *c
		mach := v / speed
		res.SpeedOfSoundMS = &speed
		res.Mach = &mach
		if mach > CompressibilityMach {
			warnings = append(warnings, result.Warning{
				Code:    result.WarnCompressibility,
				Message: fmt.Sprintf("Mach %.3f exceeds %.1f; incompressible Darcy-Weisbach result may be inaccurate", mach, CompressibilityMach),
				Field:   "mach",
				Value:   mach,
				Bound:   "<= 0.3",
			})
		}
	}

	res.Warnings = warnings

	s.logger.Debug("solved",
		zap.String("fluid", req.Fluid.Class.String()),
		zap.String("source", string(props.Source)),
		zap.Float64("velocity_m_s", v),
		zap.Float64("reynolds", res.Reynolds),
		zap.String("regime", string(res.Regime)),
		zap.Float64("friction_factor", res.FrictionFactor),
		zap.Float64("pressure_drop_pa", res.PressureDropPa),
		zap.Int("warnings", len(warnings)))

	return res, nil
}

func validate(req Request) error {
	if err := req.Fluid.Validate(); err != nil {
		return err
	}
	if err := req.Geometry.Validate(); err != nil {
		return err
	}
	if err := req.Flow.Validate(); err != nil {
		return err
	}
	if err := req.Thermo.Validate(); err != nil {
		return err
	}
	for i, f := range req.Fittings {
		if err := f.Validate(); err != nil {
			if e, ok := err.(*errors.Error); ok {
				return e.WithContext("index", i)
			}
			return err
		}
	}
	if c := req.SpeedOfSoundMS; c != nil {
		if !(*c > 0) || math.IsInf(*c, 0) {
			return errors.InvalidInput("speed_of_sound", *c, "must be > 0 m/s")
		}
	}
	if _, err := types.ParseCorrelation(string(req.Correlation)); err != nil {
		return err
	}
	return nil
}
