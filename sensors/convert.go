package sensors

import "math"

// Magnus coefficients over water (Sonntag 1990)
const (
	magnusA = 17.62
	magnusB = 243.12
	kelvin  = 273.15
)

// RawToVolts converts ADC counts back to volts at the pin.
func RawToVolts(raw int, vref float64, maxRaw int) float64 {
	if maxRaw <= 0 {
		return 0
	}
	return float64(raw) * vref / float64(maxRaw)
}

// DewPoint in °C. Humidity is clamped to (0, 100]; the result never exceeds
// the air temperature.
func DewPoint(tempC, rh float64) float64 {
	rh = clampRH(rh)
	gamma := math.Log(rh/100) + magnusA*tempC/(magnusB+tempC)
	dp := magnusB * gamma / (magnusA - gamma)
	return math.Min(dp, tempC)
}

// FrostPoint in °C, derived from the dew point.
func FrostPoint(tempC, rh float64) float64 {
	dewK := kelvin + DewPoint(tempC, rh)
	airK := kelvin + tempC
	frostK := dewK - airK + 2671.02/((2954.61/airK)+2.193665*math.Log(airK)-13.3448)
	return frostK - kelvin
}

func clampRH(rh float64) float64 {
	if rh > 100 {
		return 100
	}
	if rh < 0.01 {
		return 0.01
	}
	return rh
}

// uvIndexMillivolts is the GUVA-S12SD output at the lower edge of each UV index.
var uvIndexMillivolts = []float64{50, 227, 318, 408, 503, 606, 696, 795, 881, 976, 1079, 1170}

// UVIndex looks up the UV index (0-11) for the sensor output in volts.
func UVIndex(volts float64) int {
	mv := volts * 1000
	for i, edge := range uvIndexMillivolts {
		if mv < edge {
			return i
		}
	}
	return len(uvIndexMillivolts) - 1
}

// DustDensity in µg/m³ for a Sharp GP2Y1010AU0F output voltage.
func DustDensity(volts float64) float64 {
	d := (0.17*volts - 0.1) * 1000
	if d < 0 {
		return 0
	}
	return d
}

// Radiation in µSv/h from a linear head output.
func Radiation(volts, perVolt float64) float64 {
	if volts < 0 {
		return 0
	}
	return volts * perVolt
}
