// Package if97 implements the subset of IAPWS-IF97 needed for pipe-flow
// property lookup: Region 1 (compressed liquid), Region 2 (vapour), the
// Region 4 saturation line and the B23 boundary, plus the IAPWS 2008
// viscosity formulation. All inputs and outputs are SI (Pa, K, kg/m3, Pa·s).
package if97

import (
	"math"

	"steam-toolbox/internal/errors"
)

const (
	// R is the specific gas constant of water used by IF97, J/(kg·K)
	R = 461.526

	// CriticalTemperatureK is the critical temperature of water
	CriticalTemperatureK = 647.096

	// CriticalPressurePa is the critical pressure of water
	CriticalPressurePa = 22.064e6

	// TripleTemperatureK is the lower temperature bound of Regions 1, 2 and 4
	TripleTemperatureK = 273.15

	// MinSaturationPressurePa is psat at 273.15 K
	MinSaturationPressurePa = 611.213

	// MaxPressurePa is the upper pressure bound of Regions 1 and 2
	MaxPressurePa = 100e6

	// Region13TemperatureK is the boundary between Region 1 and Region 3
	Region13TemperatureK = 623.15

	// Region2MaxTemperatureK is the upper temperature bound of Region 2
	Region2MaxTemperatureK = 1073.15

	// B23MaxTemperatureK is the temperature above which Region 2 extends to 100 MPa
	B23MaxTemperatureK = 863.15
)

var n4 = [...]float64{
	0.11670521452767e4,
	-0.72421316703206e6,
	-0.17073846940092e2,
	0.12020824702470e5,
	-0.32325550322333e7,
	0.14915108613530e2,
	-0.48232657361591e4,
	0.40511340542057e6,
	-0.23855557567849,
	0.65017534844798e3,
}

// SaturationPressure returns psat(T) in Pa for 273.15 K <= T <= 647.096 K
func SaturationPressure(temperatureK float64) (float64, error) {
	if !(temperatureK >= TripleTemperatureK && temperatureK <= CriticalTemperatureK) {
		return 0, errors.PropertyEstimation("saturation pressure defined for 273.15 K <= T <= 647.096 K").
			WithContext("field", "temperature").
			WithContext("value", temperatureK)
	}
	theta := temperatureK + n4[8]/(temperatureK-n4[9])
	a := theta*theta + n4[0]*theta + n4[1]
	b := n4[2]*theta*theta + n4[3]*theta + n4[4]
	c := n4[5]*theta*theta + n4[6]*theta + n4[7]
	pMPa := math.Pow(2*c/(-b+math.Sqrt(b*b-4*a*c)), 4)
	return pMPa * 1e6, nil
}

// SaturationTemperature returns Tsat(p) in K for 611.213 Pa <= p <= 22.064 MPa
func SaturationTemperature(pressurePa float64) (float64, error) {
	if !(pressurePa >= MinSaturationPressurePa && pressurePa <= CriticalPressurePa) {
		return 0, errors.PropertyEstimation("saturation temperature defined for 611.213 Pa <= p <= 22.064 MPa").
			WithContext("field", "pressure").
			WithContext("value", pressurePa)
	}
	beta := math.Pow(pressurePa/1e6, 0.25)
	e := beta*beta + n4[2]*beta + n4[5]
	f := n4[0]*beta*beta + n4[3]*beta + n4[6]
	g := n4[1]*beta*beta + n4[4]*beta + n4[7]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (n4[9] + d - math.Sqrt((n4[9]+d)*(n4[9]+d)-4*(n4[8]+n4[9]*d))) / 2, nil
}

// B23Pressure returns the Region 2/3 boundary pressure in Pa at temperature T
func B23Pressure(temperatureK float64) float64 {
	const (
		n1 = 0.34805185628969e3
		n2 = -0.11671859879975e1
		n3 = 0.10192970039326e-2
	)
	return (n1 + n2*temperatureK + n3*temperatureK*temperatureK) * 1e6
}
