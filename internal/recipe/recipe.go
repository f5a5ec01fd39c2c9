// Package recipe converts an opaque seed into a fully-specified, reproducible
// generation recipe. Every field is derived from its own labeled roll against
// the hash roller, so fields never correlate: pinning one knob leaves every
// other field untouched for the same seed.
package recipe

import (
	"fmt"

	"github.com/quizforge/quizforge/internal/rng"
)

// Label strings for each roll. These are part of the reproducibility
// contract: renaming a label silently re-rolls that field for every seed
// ever issued.
const (
	labelNumQuestions      = "numQuestions"
	labelDifficultyCurve   = "difficultyCurve"
	labelCategoryMixCount  = "categoryMixCount"
	labelCategoryMix       = "categoryMix"
	labelQuestionTypeCount = "questionTypeCount"
	labelQuestionTypes     = "questionTypes"
	labelTone              = "tone"
	labelEra               = "era"
	labelExplanationStyle  = "explanationStyle"
)

// Recipe is the immutable set of generation constraints derived from a seed.
// For a fixed seed and fixed NumQuestions override, every field is
// reproducible bit-for-bit.
type Recipe struct {
	Seed              string    `json:"seed"`
	NumQuestions      int       `json:"num_questions"`
	DifficultyCurveID int       `json:"difficulty_curve_id"`
	CategoryMix       []string  `json:"category_mix"`
	QuestionTypes     []string  `json:"question_types"`
	Tone              string    `json:"tone"`
	Era               string    `json:"era"`
	ExplanationStyle  string    `json:"explanation_style"`
	CurveValues       []float64 `json:"curve_values"`
	DifficultyLabels  []string  `json:"difficulty_labels"`
}

// Options tweaks recipe construction.
type Options struct {
	// FixedNumQuestions pins the otherwise-rolled 5-vs-10 choice. Zero means
	// roll it from the seed. Only 5 and 10 are valid.
	FixedNumQuestions int

	// Difficulty pins every question's difficulty label. Empty means mixed:
	// labels follow the curve thresholds. The curve values still ship with
	// the recipe either way, so the generator can pace phrasing difficulty
	// and question ordering even under a pinned label.
	Difficulty string
}

// Build derives a Recipe from a seed. Pure: no I/O, no randomness beyond the
// seed, safe to call concurrently and repeatedly.
func Build(seed string, opts *Options) (*Recipe, error) {
	if err := rng.ValidateSeed(seed); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	numQuestions := opts.FixedNumQuestions
	if numQuestions == 0 {
		n, err := rng.RollNumberInRange(seed, labelNumQuestions, 5, 10, 5)
		if err != nil {
			return nil, err
		}
		numQuestions = n
	} else if numQuestions != 5 && numQuestions != 10 {
		return nil, fmt.Errorf("recipe: fixed question count must be 5 or 10, got %d", numQuestions)
	}

	curveID, err := rng.RollIndex(seed, labelDifficultyCurve, CurveCount)
	if err != nil {
		return nil, err
	}

	mixCount, err := rng.RollNumberInRange(seed, labelCategoryMixCount, 4, 6, 1)
	if err != nil {
		return nil, err
	}
	categoryMix, err := rng.SampleWithoutReplacement(seed, labelCategoryMix, Categories, mixCount)
	if err != nil {
		return nil, err
	}

	typeCount, err := rng.RollNumberInRange(seed, labelQuestionTypeCount, 2, 3, 1)
	if err != nil {
		return nil, err
	}
	questionTypes, err := rng.SampleWithoutReplacement(seed, labelQuestionTypes, QuestionTypes, typeCount)
	if err != nil {
		return nil, err
	}

	tone, err := rng.RollFrom(seed, labelTone, Tones)
	if err != nil {
		return nil, err
	}
	era, err := rng.RollFrom(seed, labelEra, Eras)
	if err != nil {
		return nil, err
	}
	style, err := rng.RollFrom(seed, labelExplanationStyle, ExplanationStyles)
	if err != nil {
		return nil, err
	}

	curve, err := Curve(curveID)
	if err != nil {
		return nil, err
	}
	values := curve[:numQuestions]

	labels := make([]string, numQuestions)
	for i, v := range values {
		if opts.Difficulty != "" {
			labels[i] = opts.Difficulty
		} else {
			labels[i] = LabelFor(v)
		}
	}

	return &Recipe{
		Seed:              seed,
		NumQuestions:      numQuestions,
		DifficultyCurveID: curveID,
		CategoryMix:       categoryMix,
		QuestionTypes:     questionTypes,
		Tone:              tone,
		Era:               era,
		ExplanationStyle:  style,
		CurveValues:       values,
		DifficultyLabels:  labels,
	}, nil
}
