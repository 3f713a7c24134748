package if97

import (
	"math"

	"steam-toolbox/internal/errors"
)

// Region 1 reducing constants
const (
	region1PStar = 16.53e6
	region1TStar = 1386.0
)

var region1I = [...]float64{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2,
	2, 2, 3, 3, 3, 4, 4, 4, 5, 8, 8, 21, 23, 29, 30, 31, 32,
}

var region1J = [...]float64{
	-2, -1, 0, 1, 2, 3, 4, 5, -9, -7, -1, 0, 1, 3, -3, 0, 1,
	3, 17, -4, 0, 6, -5, -2, 10, -8, -11, -6, -29, -31, -38, -39, -40, -41,
}

var region1N = [...]float64{
	0.14632971213167, -0.84548187169114, -0.37563603672040e1, 0.33855169168385e1,
	-0.95791963387872, 0.15772038513228, -0.16616417199501e-1, 0.81214629983568e-3,
	0.28319080123804e-3, -0.60706301565874e-3, -0.18990068218419e-1, -0.32529748770505e-1,
	-0.21841717175414e-1, -0.52838357969930e-4, -0.47184321073267e-3, -0.30001780793026e-3,
	0.47661393906987e-4, -0.44141845330846e-5, -0.72694996297594e-15, -0.31679644845054e-4,
	-0.28270797985312e-5, -0.85205128120103e-9, -0.22425281908000e-5, -0.65171222895601e-6,
	-0.14341729937924e-12, -0.40516996860117e-6, -0.12734301741641e-8, -0.17424871230634e-9,
	-0.68762131295531e-18, 0.14478307828521e-19, 0.26335781662795e-22, -0.11947622640071e-22,
	0.18228094581404e-23, -0.93537087292458e-25,
}

// Region1SpecificVolume returns v(p, T) in m3/kg for compressed liquid.
// Valid for 273.15 K <= T <= 623.15 K and psat(T) <= p <= 100 MPa.
func Region1SpecificVolume(pressurePa, temperatureK float64) (float64, error) {
	if err := checkRegion1(pressurePa, temperatureK); err != nil {
		return 0, err
	}
	pi := pressurePa / region1PStar
	tau := region1TStar / temperatureK

	var gammaPi float64
	for i := range region1N {
		gammaPi += -region1N[i] * region1I[i] * math.Pow(7.1-pi, region1I[i]-1) * math.Pow(tau-1.222, region1J[i])
	}
	return pi * gammaPi * R * temperatureK / pressurePa, nil
}

func checkRegion1(p, t float64) error {
	if !(t >= TripleTemperatureK && t <= Region13TemperatureK) {
		return errors.PropertyEstimation("IF97 region 1 requires 273.15 K <= T <= 623.15 K").
			WithContext("field", "temperature").
			WithContext("value", t)
	}
	if !(p > 0 && p <= MaxPressurePa) {
		return errors.PropertyEstimation("IF97 region 1 requires 0 < p <= 100 MPa").
			WithContext("field", "pressure").
			WithContext("value", p)
	}
	psat, err := SaturationPressure(t)
	if err != nil {
		return err
	}
	if p < psat*(1-boundaryTolerance) {
		return errors.PropertyEstimation("pressure below saturation pressure: state is not liquid").
			WithContext("field", "pressure").
			WithContext("value", p).
			WithContext("bound", psat)
	}
	return nil
}

// boundaryTolerance absorbs round-off when evaluating exactly on the saturation line
const boundaryTolerance = 1e-9
