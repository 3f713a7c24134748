package if97

import (
	"math"

	"steam-toolbox/internal/errors"
)

// IAPWS 2008 reducing constants
const (
	viscosityTStar   = 647.096
	viscosityRhoStar = 322.0
	viscosityMuStar  = 1e-6
)

var viscosityH0 = [...]float64{1.67752, 2.20462, 0.6366564, -0.241605}

// viscosityH1[i][j]: i indexes (1/T̄ − 1), j indexes (ρ̄ − 1)
var viscosityH1 = [6][7]float64{
	{5.20094e-1, 2.22531e-1, -2.81378e-1, 1.61913e-1, -3.25372e-2, 0, 0},
	{8.50895e-2, 9.99115e-1, -9.06851e-1, 2.57399e-1, 0, 0, 0},
	{-1.08374, 1.88797, -7.72479e-1, 0, 0, 0, 0},
	{-2.89555e-1, 1.26613, -4.89837e-1, 0, 6.98452e-2, 0, -4.35673e-3},
	{0, 0, -2.57040e-1, 0, 0, 8.72102e-3, 0},
	{0, 1.20573e-1, 0, 0, 0, 0, -5.93264e-4},
}

// Viscosity returns the dynamic viscosity in Pa·s from the IAPWS 2008
// formulation without the critical enhancement term.
func Viscosity(densityKgM3, temperatureK float64) (float64, error) {
	if !(densityKgM3 > 0) || math.IsInf(densityKgM3, 0) {
		return 0, errors.PropertyEstimation("viscosity requires a positive finite density").
			WithContext("field", "density").
			WithContext("value", densityKgM3)
	}
	if !(temperatureK > 0) || math.IsInf(temperatureK, 0) {
		return 0, errors.PropertyEstimation("viscosity requires a positive finite temperature").
			WithContext("field", "temperature").
			WithContext("value", temperatureK)
	}

	tBar := temperatureK / viscosityTStar
	rhoBar := densityKgM3 / viscosityRhoStar

	var sum0 float64
	for i, h := range viscosityH0 {
		sum0 += h / math.Pow(tBar, float64(i))
	}
	mu0 := 100 * math.Sqrt(tBar) / sum0

	var sum1 float64
	for i := range viscosityH1 {
		var inner float64
		for j, h := range viscosityH1[i] {
			if h != 0 {
				inner += h * math.Pow(rhoBar-1, float64(j))
			}
		}
		sum1 += math.Pow(1/tBar-1, float64(i)) * inner
	}
	mu1 := math.Exp(rhoBar * sum1)

	return viscosityMuStar * mu0 * mu1, nil
}
