package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/bip-questionnaire/internal/domain"
	"go.uber.org/zap"
)

// Submit checks the questionnaire is complete, stamps it as submitted and
// returns the final mapping.
func (s *Service) Submit(ctx context.Context, id domain.QuestionnaireID) (Submission, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if q.Submitted() {
		return Submission{}, fmt.Errorf("%w: %s", domain.ErrQuestionnaireSubmitted, id)
	}

	if violations := q.Violations(); len(violations) > 0 {
		s.logger.Info("submission rejected",
			zap.String("id", string(id)),
			zap.Strings("violations", violations),
		)
		return Submission{}, fmt.Errorf("%w: %s", domain.ErrIncomplete, strings.Join(violations, "; "))
	}

	q.SubmittedAt = s.clock.Now()
	q.UpdatedAt = q.SubmittedAt
	if err := s.repo.Save(ctx, q); err != nil {
		return Submission{}, fmt.Errorf("save questionnaire: %w", err)
	}

	s.logger.Info("questionnaire submitted", zap.String("id", string(id)))

	return NewSubmission(q), nil
}

func (s *Service) Export(ctx context.Context, id domain.QuestionnaireID) (Submission, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	return NewSubmission(q), nil
}

func NewSubmission(q domain.Questionnaire) Submission {
	sub := Submission{
		QuestionnaireID: q.ID,
		Kind:            q.Kind,
		Title:           q.Title,
		SubmittedAt:     q.SubmittedAt,
	}

	switch q.Kind {
	case domain.KindVote:
		sub.Allocations = make(map[string]int, len(q.Allocations))
		for id, points := range q.Allocations {
			sub.Allocations[string(id)] = points
		}
	case domain.KindMatrix:
		sub.Placements = make(map[string]Placement, len(q.Placements))
		for id, position := range q.Placements {
			sub.Placements[string(id)] = Placement{Effort: position.Effort, Impact: position.Impact}
		}
	}

	return sub
}
