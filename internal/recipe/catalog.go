package recipe

// Canonical content pools. Order matters: roll and sample indices are taken
// against these exact slices, so reordering an entry changes every historical
// seed/recipe pairing.

// Categories is the fixed set of quiz categories. The campaign topology
// cycles through these in order, one full cycle per difficulty tier.
var Categories = []string{
	"general",
	"science",
	"history",
	"geography",
	"entertainment",
	"sports",
	"literature",
	"music",
	"technology",
	"nature",
}

// QuestionTypes the generator knows how to write.
var QuestionTypes = []string{
	"multiple_choice",
	"true_false",
	"fill_in_blank",
	"matching",
}

// Tones for question phrasing.
var Tones = []string{
	"playful",
	"scholarly",
	"dramatic",
	"deadpan",
	"enthusiastic",
}

// Eras biasing question subject matter.
var Eras = []string{
	"ancient",
	"medieval",
	"modern",
	"contemporary",
	"timeless",
}

// ExplanationStyles for post-answer explanations.
var ExplanationStyles = []string{
	"concise",
	"detailed",
	"storytelling",
	"socratic",
}

// Difficulty labels shared with the campaign topology.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)
