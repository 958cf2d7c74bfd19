package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func optPtr(i int) *int         { return &i }
func numPtr(f float64) *float64 { return &f }

func validMultipleChoice() ExerciseRequest {
	return ExerciseRequest{
		Title:    "fractions",
		Subject:  "math",
		Type:     TypeMultipleChoice,
		MaxScore: 100,
		Questions: []Question{
			{Text: "1/2 + 1/2 = ?", Options: []string{"1", "2", "0.5"}},
		},
		Solutions: []Solution{{CorrectOption: optPtr(0)}},
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := validMultipleChoice()
	assert.NoError(t, req.Validate())
}

func TestValidateUnknownType(t *testing.T) {
	req := validMultipleChoice()
	req.Type = "true_false"

	err := req.Validate()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateNonPositiveMaxScore(t *testing.T) {
	req := validMultipleChoice()
	req.MaxScore = 0

	assert.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestValidateNoQuestions(t *testing.T) {
	req := validMultipleChoice()
	req.Questions = nil
	req.Solutions = nil

	assert.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestValidateMisalignedSolutions(t *testing.T) {
	req := validMultipleChoice()
	req.Solutions = append(req.Solutions, Solution{CorrectOption: optPtr(1)})

	assert.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestValidateEssayMayOmitSolutions(t *testing.T) {
	req := ExerciseRequest{
		Title:     "essay",
		Type:      TypeEssay,
		MaxScore:  100,
		Questions: []Question{{Text: "discuss"}},
	}

	assert.NoError(t, req.Validate())
}

func TestValidateCorrectOptionOutOfRange(t *testing.T) {
	req := validMultipleChoice()
	req.Solutions[0].CorrectOption = optPtr(3)

	assert.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestValidateCalculation(t *testing.T) {
	req := ExerciseRequest{
		Title:     "arithmetic",
		Type:      TypeCalculation,
		MaxScore:  10,
		Questions: []Question{{Text: "2*3 = ?"}},
		Solutions: []Solution{{Answer: numPtr(6)}},
	}
	assert.NoError(t, req.Validate())

	req.Solutions[0].Answer = nil
	assert.ErrorIs(t, req.Validate(), ErrValidation)

	req.Solutions[0].Answer = numPtr(6)
	req.Solutions[0].Tolerance = numPtr(-0.5)
	assert.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestValidateShortAnswerNeedsText(t *testing.T) {
	req := ExerciseRequest{
		Title:     "capitals",
		Type:      TypeShortAnswer,
		MaxScore:  10,
		Questions: []Question{{Text: "capital of France?"}},
		Solutions: []Solution{{}},
	}

	assert.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestSanitizedStripsSolutions(t *testing.T) {
	ex := Exercise{
		Title:     "fractions",
		Questions: []Question{{Text: "q"}},
		Solutions: []Solution{{CorrectOption: optPtr(0)}},
	}

	clean := ex.Sanitized()

	assert.Nil(t, clean.Solutions)
	assert.NotNil(t, ex.Solutions, "original untouched")
	assert.Equal(t, ex.Questions, clean.Questions)
}
