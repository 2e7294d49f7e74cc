package domain

import (
	"fmt"
	"strings"
	"time"
)

type QuestionnaireID string

type Kind string

const (
	KindVote   Kind = "vote"
	KindMatrix Kind = "matrix"
)

func (k Kind) Valid() bool {
	switch k {
	case KindVote, KindMatrix:
		return true
	default:
		return false
	}
}

// Definition describes a questionnaire before any answer is recorded.
type Definition struct {
	Kind        Kind
	Title       string
	Description string
	Budget      Budget
	Matrix      Matrix
	Allocations Allocations
	Placements  Placements
}

func (d Definition) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDefinition)
	}

	switch d.Kind {
	case KindVote:
		if err := d.Budget.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
		}
	case KindMatrix:
		if err := d.Matrix.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
		}
	default:
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidDefinition, d.Kind)
	}

	return nil
}

// Questionnaire is the locally held state of one widget session.
type Questionnaire struct {
	ID          QuestionnaireID
	Kind        Kind
	Title       string
	Description string
	Budget      Budget
	Allocations Allocations
	Matrix      Matrix
	Placements  Placements
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt time.Time
}

func (q Questionnaire) Submitted() bool {
	return !q.SubmittedAt.IsZero()
}

// IsComplete reports whether Submit would accept the current answers.
func (q Questionnaire) IsComplete() bool {
	return q.Kind.Valid() && len(q.Violations()) == 0
}

func (q Questionnaire) Violations() []string {
	switch q.Kind {
	case KindVote:
		return q.Budget.Violations(q.Allocations)
	case KindMatrix:
		return q.Matrix.Violations(q.Placements)
	default:
		return []string{fmt.Sprintf("unsupported kind %q", q.Kind)}
	}
}
