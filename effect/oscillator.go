package effect

// ShapeFunc represents the shape of an oscillator over one phase.
type ShapeFunc func(phase float64) float64

// Sawtooth returns the shape function for a sawtooth wave in a fixed direction.
func Sawtooth(down bool) ShapeFunc {
	if down {
		return func(phase float64) float64 {
			return 1.0 - phase
		}
	}
	return func(phase float64) float64 {
		return phase
	}
}

// Flash decays from full brightness at the start of a beat to nothing at the given
// share of the beat.
func Flash(width float64) ShapeFunc {
	return func(phase float64) float64 {
		if width <= 0 || phase >= width {
			return 0
		}
		return 1 - phase/width
	}
}
