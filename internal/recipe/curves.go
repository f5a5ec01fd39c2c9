package recipe

import "fmt"

// The difficulty-curve library: fixed numeric sequences in [0,1], one value
// per question position, length 10 (the maximum supported question count).
// Consumers take a prefix of length numQuestions. Values and thresholds are
// tunable design parameters, not invariants, but changing them changes every
// recipe derived from them.

// CurveCount is the number of curves in the library.
const CurveCount = 3

// Curve ids, selected by a roll on the seed.
const (
	CurveRamp   = 0 // monotonic climb
	CurveWave   = 1 // oscillating
	CurveValley = 2 // easy middle, hard bookends
)

// maxQuestions is the largest question count any recipe can request.
const maxQuestions = 10

var curves = [CurveCount][maxQuestions]float64{
	CurveRamp:   {0.05, 0.15, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95},
	CurveWave:   {0.30, 0.60, 0.35, 0.65, 0.40, 0.75, 0.45, 0.80, 0.50, 0.90},
	CurveValley: {0.55, 0.35, 0.20, 0.10, 0.15, 0.30, 0.45, 0.60, 0.80, 0.95},
}

// Difficulty-label thresholds for mixed-difficulty quizzes.
const (
	easyBelow   = 0.4
	mediumBelow = 0.7
)

// Curve returns the curve for the given id.
func Curve(id int) ([]float64, error) {
	if id < 0 || id >= CurveCount {
		return nil, fmt.Errorf("recipe: unknown difficulty curve %d", id)
	}
	out := make([]float64, maxQuestions)
	copy(out, curves[id][:])
	return out, nil
}

// LabelFor translates a curve value into a difficulty label using the fixed
// thresholds: < 0.4 easy, < 0.7 medium, else hard.
func LabelFor(v float64) string {
	switch {
	case v < easyBelow:
		return DifficultyEasy
	case v < mediumBelow:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
