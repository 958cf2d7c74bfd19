// Package scoring grades submitted answers against an exercise definition.
// It is a pure function over its inputs: no persistence, no clock, no
// side effects, so it can be tested in isolation.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/AmazzarK/back-edu-math-AI/models"
)

// Score grades the answers against the exercise and returns the overall
// score together with per-question detail.
//
// Answers shorter than the question list leave the tail unanswered (counted
// incorrect, never an error); answers beyond the question list are ignored.
// The overall score is correct/total * max_score, and 0 when the exercise has
// no questions.
func Score(ex *models.Exercise, answers []models.SubmittedAnswer) (float64, []models.ScoreDetail) {
	total := len(ex.Questions)
	if total == 0 {
		return 0, nil
	}

	detail := make([]models.ScoreDetail, total)
	correct := 0

	for i := range ex.Questions {
		detail[i].QuestionIndex = i

		if i >= len(answers) {
			continue
		}
		detail[i].Answered = true

		if checkAnswer(ex, i, answers[i]) {
			detail[i].Correct = true
			correct++
		}
	}

	score := float64(correct) / float64(total) * ex.MaxScore
	return score, detail
}

func checkAnswer(ex *models.Exercise, idx int, answer models.SubmittedAnswer) bool {
	if idx >= len(ex.Solutions) {
		return false
	}
	sol := ex.Solutions[idx]

	switch ex.Type {
	case models.TypeMultipleChoice:
		// Strict index equality, no fuzzy matching.
		return answer.SelectedOption != nil && sol.CorrectOption != nil &&
			*answer.SelectedOption == *sol.CorrectOption

	case models.TypeCalculation:
		if sol.Answer == nil {
			return false
		}
		submitted, err := strconv.ParseFloat(strings.TrimSpace(answer.Value), 64)
		if err != nil {
			// A non-numeric submission is just wrong, not an error.
			return false
		}
		tolerance := models.DefaultTolerance
		if sol.Tolerance != nil {
			tolerance = *sol.Tolerance
		}
		return math.Abs(submitted-*sol.Answer) <= tolerance

	case models.TypeShortAnswer:
		return normalize(answer.Value) == normalize(sol.Text)

	case models.TypeEssay:
		// Essays are graded manually downstream; the automatic pass always
		// contributes zero.
		return false

	default:
		return false
	}
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
