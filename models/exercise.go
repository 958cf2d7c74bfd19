package models

import (
	"fmt"
	"time"
)

// Exercise types supported by the scoring engine.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeShortAnswer    = "short_answer"
	TypeCalculation    = "calculation"
	TypeEssay          = "essay"
)

// DefaultTolerance is applied to calculation questions whose solution does
// not specify one.
const DefaultTolerance = 0.01

// Question carries only the fields its exercise type needs. Order within an
// exercise is the correlation key with solutions and submitted answers and
// must never be changed once attempts exist.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"` // multiple_choice only
	Hint    string   `json:"hint,omitempty"`
}

// Solution is index-aligned 1:1 with the exercise's questions.
type Solution struct {
	CorrectOption *int     `json:"correct_option,omitempty"` // multiple_choice
	Answer        *float64 `json:"answer,omitempty"`         // calculation
	Tolerance     *float64 `json:"tolerance,omitempty"`      // calculation, optional
	Text          string   `json:"text,omitempty"`           // short_answer
}

// Exercise is an immutable-per-version definition of questions, solutions and
// scoring configuration. Unpublished exercises reject attempt starts.
type Exercise struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Subject     string     `json:"subject"`
	Difficulty  string     `json:"difficulty"`
	Type        string     `json:"type"`
	Questions   []Question `json:"questions"`
	Solutions   []Solution `json:"solutions,omitempty"`
	MaxScore    float64    `json:"max_score"`
	TimeLimit   *int       `json:"time_limit,omitempty"` // minutes
	IsPublished bool       `json:"is_published"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedBy   string     `json:"created_by"`
	ClassID     *int64     `json:"class_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExerciseRequest for creating/updating exercises
type ExerciseRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Difficulty  string     `json:"difficulty"`
	Type        string     `json:"type"`
	Questions   []Question `json:"questions"`
	Solutions   []Solution `json:"solutions"`
	MaxScore    float64    `json:"max_score"`
	TimeLimit   *int       `json:"time_limit,omitempty"`
	IsPublished bool       `json:"is_published"`
	Tags        []string   `json:"tags"`
	ClassID     *int64     `json:"class_id,omitempty"`
}

// Validate enforces the definition-time invariants: a known type, a positive
// max score, aligned question/solution sequences, and per-type solution
// fields. A definition that passes here can always be graded without
// missing-field surprises at submit time.
func (req *ExerciseRequest) Validate() error {
	switch req.Type {
	case TypeMultipleChoice, TypeShortAnswer, TypeCalculation, TypeEssay:
	default:
		return fmt.Errorf("%w: unknown exercise type %q", ErrValidation, req.Type)
	}

	if req.MaxScore <= 0 {
		return fmt.Errorf("%w: max_score must be positive", ErrValidation)
	}

	if len(req.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrValidation)
	}

	// Essay exercises are graded manually, so solutions may be omitted
	// entirely; everything else must align 1:1 with the questions.
	if len(req.Questions) != len(req.Solutions) &&
		!(req.Type == TypeEssay && len(req.Solutions) == 0) {
		return fmt.Errorf("%w: %d questions but %d solutions", ErrValidation,
			len(req.Questions), len(req.Solutions))
	}

	for i, q := range req.Questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrValidation, i)
		}

		switch req.Type {
		case TypeMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("%w: question %d needs at least 2 options", ErrValidation, i)
			}
			sol := req.Solutions[i]
			if sol.CorrectOption == nil {
				return fmt.Errorf("%w: solution %d is missing correct_option", ErrValidation, i)
			}
			if *sol.CorrectOption < 0 || *sol.CorrectOption >= len(q.Options) {
				return fmt.Errorf("%w: solution %d correct_option out of range", ErrValidation, i)
			}
		case TypeCalculation:
			sol := req.Solutions[i]
			if sol.Answer == nil {
				return fmt.Errorf("%w: solution %d is missing answer", ErrValidation, i)
			}
			if sol.Tolerance != nil && *sol.Tolerance < 0 {
				return fmt.Errorf("%w: solution %d has negative tolerance", ErrValidation, i)
			}
		case TypeShortAnswer:
			if req.Solutions[i].Text == "" {
				return fmt.Errorf("%w: solution %d is missing expected text", ErrValidation, i)
			}
		}
	}

	return nil
}

// Sanitized returns a copy safe to show to students: solutions stripped.
func (ex Exercise) Sanitized() Exercise {
	ex.Solutions = nil
	return ex
}
