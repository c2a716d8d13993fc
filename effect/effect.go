package effect

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
	"github.com/robmorgan/metronome/utils"
)

// ErrUnknownEasing is returned for easing names that aren't registered.
var ErrUnknownEasing = errors.New("unknown easing")

// EasingFunc maps linear progress in [0, 1] onto eased progress.
type EasingFunc func(t float64) float64

var easings = map[string]EasingFunc{
	"linear":       ease.Linear,
	"in-out-sine":  ease.InOutSine,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"in-quart":     ease.InQuart,
	"in-out-quart": ease.InOutQuart,
}

// DefaultEasing is the curve a mechanical pendulum roughly follows.
const DefaultEasing = "in-out-sine"

// Easing looks up a named easing curve.
func Easing(name string) (EasingFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, want one of %s", ErrUnknownEasing, name, strings.Join(Easings(), ", "))
	}
	return fn, nil
}

// Easings lists the known easing names.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Swing returns the pendulum position in [-1, 1] at phase through beat. Odd beats
// swing left to right and even beats back, so the arm reaches an extreme on every
// click.
func Swing(beat int64, phase float64, easing EasingFunc) float64 {
	if beat <= 0 {
		return 0
	}
	pos := easing(utils.Clamp(phase, 0, 1))*2 - 1
	if beat%2 == 0 {
		return -pos
	}
	return pos
}
