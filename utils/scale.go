package utils

// ScaleClamp returns a function that scales a number from the interval [rMin,rMax]
// to [tMin,tMax]. Results outside the target interval are clamped to it.
func ScaleClamp(rMin, rMax, tMin, tMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		if rMax == rMin {
			return tMin
		}
		return Clamp(tMin+(m-rMin)/(rMax-rMin)*(tMax-tMin), tMin, tMax)
	}
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return ScaleClamp(rMin, rMax, 0, 1)
}
