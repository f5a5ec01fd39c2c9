package campaign

import (
	"log"
	"strings"
)

// Score grades submitted answers against an answer key. Grading never
// mutates the key and is idempotent: the same inputs always produce the same
// result.
//
// An answer whose question id is missing from the key is graded incorrect
// and logged as an anomaly rather than failing the whole submission: a user
// is never hard-failed for a question the grader cannot find.
func Score(key *AnswerKey, answers []SubmittedAnswer) *ScoreResult {
	canonical := make(map[string]KeyEntry, len(key.Entries))
	for _, e := range key.Entries {
		canonical[e.QuestionID] = e
	}

	result := &ScoreResult{
		PerQuestion: make([]QuestionResult, 0, len(answers)),
		Total:       len(key.Entries),
	}

	for _, a := range answers {
		entry, ok := canonical[a.QuestionID]
		if !ok {
			log.Printf("score_anomaly quiz=%s question=%s reason=unknown_question_id", key.QuizID, a.QuestionID)
			result.PerQuestion = append(result.PerQuestion, QuestionResult{
				QuestionID: a.QuestionID,
			})
			continue
		}

		correct := answersMatch(entry.Answer, a.Answer)
		if correct {
			result.Correct++
		}
		result.PerQuestion = append(result.PerQuestion, QuestionResult{
			QuestionID:    a.QuestionID,
			Correct:       correct,
			CorrectAnswer: entry.Answer,
			Explanation:   entry.Explanation,
		})
	}

	result.Passed = result.Correct >= PassingScore
	result.IsPerfect = result.Total > 0 && result.Correct == result.Total
	return result
}

// answersMatch compares a submitted answer to the canonical one, ignoring
// case and surrounding whitespace.
func answersMatch(canonical, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(canonical), strings.TrimSpace(submitted))
}
