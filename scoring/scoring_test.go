package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AmazzarK/back-edu-math-AI/models"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func multipleChoiceExercise(maxScore float64, correct ...int) *models.Exercise {
	ex := &models.Exercise{
		Type:     models.TypeMultipleChoice,
		MaxScore: maxScore,
	}
	for _, c := range correct {
		ex.Questions = append(ex.Questions, models.Question{
			Text:    "pick one",
			Options: []string{"a", "b", "c", "d"},
		})
		ex.Solutions = append(ex.Solutions, models.Solution{CorrectOption: intPtr(c)})
	}
	return ex
}

func TestScoreMultipleChoice(t *testing.T) {
	ex := multipleChoiceExercise(100, 1, 2, 0)

	score, detail := Score(ex, []models.SubmittedAnswer{
		{SelectedOption: intPtr(1)},
		{SelectedOption: intPtr(3)},
		{SelectedOption: intPtr(0)},
	})

	assert.InDelta(t, 100.0*2/3, score, 1e-9)
	assert.Len(t, detail, 3)
	assert.True(t, detail[0].Correct)
	assert.False(t, detail[1].Correct)
	assert.True(t, detail[2].Correct)
}

func TestScoreMultipleChoiceNoSelection(t *testing.T) {
	ex := multipleChoiceExercise(10, 2)

	score, detail := Score(ex, []models.SubmittedAnswer{{}})

	assert.Equal(t, 0.0, score)
	assert.True(t, detail[0].Answered)
	assert.False(t, detail[0].Correct)
}

func TestScoreCalculationDefaultTolerance(t *testing.T) {
	ex := &models.Exercise{
		Type:      models.TypeCalculation,
		MaxScore:  100,
		Questions: []models.Question{{Text: "2+2?"}},
		Solutions: []models.Solution{{Answer: floatPtr(4)}},
	}

	score, _ := Score(ex, []models.SubmittedAnswer{{Value: "4.009"}})
	assert.Equal(t, 100.0, score, "within default tolerance of 0.01")

	score, _ = Score(ex, []models.SubmittedAnswer{{Value: "4.02"}})
	assert.Equal(t, 0.0, score, "outside default tolerance")
}

func TestScoreCalculationCustomTolerance(t *testing.T) {
	ex := &models.Exercise{
		Type:      models.TypeCalculation,
		MaxScore:  50,
		Questions: []models.Question{{Text: "pi?"}},
		Solutions: []models.Solution{{Answer: floatPtr(3.14159), Tolerance: floatPtr(0.01)}},
	}

	score, _ := Score(ex, []models.SubmittedAnswer{{Value: " 3.1406 "}})
	assert.Equal(t, 50.0, score)
}

func TestScoreCalculationNonNumeric(t *testing.T) {
	ex := &models.Exercise{
		Type:      models.TypeCalculation,
		MaxScore:  100,
		Questions: []models.Question{{Text: "2+2?"}},
		Solutions: []models.Solution{{Answer: floatPtr(4)}},
	}

	score, detail := Score(ex, []models.SubmittedAnswer{{Value: "four"}})

	assert.Equal(t, 0.0, score)
	assert.True(t, detail[0].Answered)
	assert.False(t, detail[0].Correct)
}

func TestScoreShortAnswerNormalization(t *testing.T) {
	ex := &models.Exercise{
		Type:      models.TypeShortAnswer,
		MaxScore:  100,
		Questions: []models.Question{{Text: "capital of France?"}},
		Solutions: []models.Solution{{Text: "Paris"}},
	}

	score, _ := Score(ex, []models.SubmittedAnswer{{Value: "  PARIS  "}})
	assert.Equal(t, 100.0, score)

	score, _ = Score(ex, []models.SubmittedAnswer{{Value: "Lyon"}})
	assert.Equal(t, 0.0, score)
}

func TestScoreEssayAlwaysZero(t *testing.T) {
	ex := &models.Exercise{
		Type:      models.TypeEssay,
		MaxScore:  100,
		Questions: []models.Question{{Text: "discuss"}},
	}

	score, detail := Score(ex, []models.SubmittedAnswer{{Value: "a long essay"}})

	assert.Equal(t, 0.0, score)
	assert.True(t, detail[0].Answered)
	assert.False(t, detail[0].Correct)
}

func TestScoreUnansweredTail(t *testing.T) {
	ex := multipleChoiceExercise(100, 0, 0, 0, 0)

	score, detail := Score(ex, []models.SubmittedAnswer{{SelectedOption: intPtr(0)}})

	assert.Equal(t, 25.0, score)
	assert.True(t, detail[0].Answered)
	for i := 1; i < 4; i++ {
		assert.False(t, detail[i].Answered)
		assert.False(t, detail[i].Correct)
	}
}

func TestScoreExtraAnswersIgnored(t *testing.T) {
	ex := multipleChoiceExercise(100, 1)

	score, detail := Score(ex, []models.SubmittedAnswer{
		{SelectedOption: intPtr(1)},
		{SelectedOption: intPtr(2)},
		{SelectedOption: intPtr(3)},
	})

	assert.Equal(t, 100.0, score)
	assert.Len(t, detail, 1)
}

func TestScoreNoQuestions(t *testing.T) {
	ex := &models.Exercise{Type: models.TypeMultipleChoice, MaxScore: 100}

	score, detail := Score(ex, nil)

	assert.Equal(t, 0.0, score)
	assert.Nil(t, detail)
}
