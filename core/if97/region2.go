package if97

import (
	"math"

	"steam-toolbox/internal/errors"
)

// Region 2 reducing constants
const (
	region2PStar = 1e6
	region2TStar = 540.0
)

// Residual part coefficients. The ideal-gas part contributes exactly 1/π to
// ∂γ/∂π and is folded into the specific volume expression.
var region2I = [...]float64{
	1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4, 5, 6, 6, 6,
	7, 7, 7, 8, 8, 9, 10, 10, 10, 16, 16, 18, 20, 20, 20, 21, 22, 23, 24, 24, 24,
}

var region2J = [...]float64{
	0, 1, 2, 3, 6, 1, 2, 4, 7, 36, 0, 1, 3, 6, 35, 1, 2, 3, 7, 3, 16, 35,
	0, 11, 25, 8, 36, 13, 4, 10, 14, 29, 50, 57, 20, 35, 48, 21, 53, 39, 26, 40, 58,
}

var region2N = [...]float64{
	-0.17731742473213e-2, -0.17834862292358e-1, -0.45996013696365e-1, -0.57581259083432e-1,
	-0.50325278727930e-1, -0.33032641670203e-4, -0.18948987516315e-3, -0.39392777243355e-2,
	-0.43797295650573e-1, -0.26674547914087e-4, 0.20481737692309e-7, 0.43870667284435e-6,
	-0.32277677238570e-4, -0.15033924542148e-2, -0.40668253562649e-1, -0.78847309559367e-9,
	0.12790717852285e-7, 0.48225372718507e-6, 0.22922076337661e-5, -0.16714766451061e-10,
	-0.21171472321355e-2, -0.23895741934104e2, -0.59059564324270e-17, -0.12621808899101e-5,
	-0.38946842435739e-1, 0.11256211360459e-10, -0.82311340897998e1, 0.19809712802088e-7,
	0.10406965210174e-18, -0.10234747095929e-12, -0.10018179379511e-8, -0.80882908646985e-10,
	0.10693031879409, -0.33662250574171, 0.89185845355421e-24, 0.30629316876232e-12,
	-0.42002467698208e-5, -0.59056029685639e-25, 0.37826947613457e-5, -0.12768608934681e-14,
	0.73087610595061e-28, 0.55414715350778e-16, -0.94369707241210e-6,
}

// Region2SpecificVolume returns v(p, T) in m3/kg for steam.
// Valid for 273.15 K <= T <= 1073.15 K with p <= psat(T) below 623.15 K,
// p <= pB23(T) up to 863.15 K and p <= 100 MPa above.
func Region2SpecificVolume(pressurePa, temperatureK float64) (float64, error) {
	if err := checkRegion2(pressurePa, temperatureK); err != nil {
		return 0, err
	}
	pi := pressurePa / region2PStar
	tau := region2TStar / temperatureK

	var gammaRPi float64
	for i := range region2N {
		gammaRPi += region2N[i] * region2I[i] * math.Pow(pi, region2I[i]-1) * math.Pow(tau-0.5, region2J[i])
	}
	return R * temperatureK / pressurePa * (1 + pi*gammaRPi), nil
}

func checkRegion2(p, t float64) error {
	if !(t >= TripleTemperatureK && t <= Region2MaxTemperatureK) {
		return errors.PropertyEstimation("IF97 region 2 requires 273.15 K <= T <= 1073.15 K").
			WithContext("field", "temperature").
			WithContext("value", t)
	}
	if !(p > 0) {
		return errors.PropertyEstimation("IF97 region 2 requires p > 0").
			WithContext("field", "pressure").
			WithContext("value", p)
	}

	var limit float64
	switch {
	case t <= Region13TemperatureK:
		psat, err := SaturationPressure(t)
		if err != nil {
			return err
		}
		limit = psat * (1 + boundaryTolerance)
	case t <= B23MaxTemperatureK:
		limit = B23Pressure(t)
	default:
		limit = MaxPressurePa
	}
	if p > limit {
		return errors.PropertyEstimation("pressure above IF97 region 2 limit: state is not vapour").
			WithContext("field", "pressure").
			WithContext("value", p).
			WithContext("bound", limit)
	}
	return nil
}
