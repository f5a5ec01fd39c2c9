package campaign

import (
	"reflect"
	"testing"
	"time"
)

func testKey() *AnswerKey {
	return &AnswerKey{
		QuizID: "quiz-1",
		Mode:   "campaign",
		Entries: []KeyEntry{
			{QuestionID: "q1", Answer: "Paris", Type: "multiple_choice", Explanation: "Capital of France."},
			{QuestionID: "q2", Answer: "true", Type: "true_false"},
			{QuestionID: "q3", Answer: "Jupiter", Type: "multiple_choice"},
			{QuestionID: "q4", Answer: "1969", Type: "fill_in_blank"},
			{QuestionID: "q5", Answer: "Pacific", Type: "multiple_choice"},
		},
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func TestScoreAllCorrect(t *testing.T) {
	answers := []SubmittedAnswer{
		{QuestionID: "q1", Answer: "Paris"},
		{QuestionID: "q2", Answer: "true"},
		{QuestionID: "q3", Answer: "Jupiter"},
		{QuestionID: "q4", Answer: "1969"},
		{QuestionID: "q5", Answer: "Pacific"},
	}

	result := Score(testKey(), answers)
	if result.Correct != 5 {
		t.Errorf("Correct = %d, want 5", result.Correct)
	}
	if !result.Passed || !result.IsPerfect {
		t.Errorf("Expected passed and perfect, got passed=%t perfect=%t", result.Passed, result.IsPerfect)
	}
}

func TestScoreNormalization(t *testing.T) {
	// Case and surrounding whitespace must not matter.
	answers := []SubmittedAnswer{
		{QuestionID: "q1", Answer: "  PARIS "},
		{QuestionID: "q2", Answer: "True"},
		{QuestionID: "q3", Answer: "jupiter"},
	}

	result := Score(testKey(), answers)
	if result.Correct != 3 {
		t.Errorf("Correct = %d, want 3", result.Correct)
	}
	if !result.Passed {
		t.Error("3 of 5 should pass")
	}
	if result.IsPerfect {
		t.Error("3 of 5 is not perfect")
	}
}

func TestScoreThreshold(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		passed  bool
	}{
		{"zero", 0, false},
		{"below threshold", 2, false},
		{"at threshold", 3, true},
		{"above threshold", 4, true},
	}

	key := testKey()
	right := []string{"Paris", "true", "Jupiter", "1969", "Pacific"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := make([]SubmittedAnswer, 5)
			for i := 0; i < 5; i++ {
				answer := "wrong"
				if i < tt.correct {
					answer = right[i]
				}
				answers[i] = SubmittedAnswer{QuestionID: key.Entries[i].QuestionID, Answer: answer}
			}

			result := Score(key, answers)
			if result.Correct != tt.correct {
				t.Errorf("Correct = %d, want %d", result.Correct, tt.correct)
			}
			if result.Passed != tt.passed {
				t.Errorf("Passed = %t, want %t", result.Passed, tt.passed)
			}
		})
	}
}

func TestScoreUnknownQuestion(t *testing.T) {
	answers := []SubmittedAnswer{
		{QuestionID: "q1", Answer: "Paris"},
		{QuestionID: "ghost", Answer: "anything"},
	}

	result := Score(testKey(), answers)
	if result.Correct != 1 {
		t.Errorf("Correct = %d, want 1", result.Correct)
	}
	if len(result.PerQuestion) != 2 {
		t.Fatalf("PerQuestion length %d, want 2", len(result.PerQuestion))
	}
	if result.PerQuestion[1].Correct {
		t.Error("Unknown question id should score incorrect, not fail")
	}
}

func TestScoreIdempotent(t *testing.T) {
	key := testKey()
	answers := []SubmittedAnswer{
		{QuestionID: "q1", Answer: "Paris"},
		{QuestionID: "q2", Answer: "false"},
	}

	first := Score(key, answers)
	second := Score(key, answers)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Scoring is not idempotent:\n%+v\n%+v", first, second)
	}

	// The key must not have been mutated.
	if !reflect.DeepEqual(key.Entries, testKey().Entries) {
		t.Error("Score mutated the answer key")
	}
}
