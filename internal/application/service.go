package application

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/bnema/bip-questionnaire/internal/ports"
	"go.uber.org/zap"
)

type Service struct {
	repo   ports.QuestionnaireRepository
	loader ports.DefinitionLoader
	clock  ports.Clock
	ids    ports.IDGenerator
	logger *zap.Logger
}

func NewService(repo ports.QuestionnaireRepository, loader ports.DefinitionLoader, clock ports.Clock, ids ports.IDGenerator, logger *zap.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if ids == nil {
		ids = ports.UUIDGenerator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:   repo,
		loader: loader,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

func (s *Service) CreateFromFile(ctx context.Context, path string) (domain.Questionnaire, error) {
	if s.loader == nil {
		return domain.Questionnaire{}, errors.New("no definition loader configured")
	}

	def, err := s.loader.Load(ctx, path)
	if err != nil {
		return domain.Questionnaire{}, fmt.Errorf("load definition %s: %w", path, err)
	}

	return s.Create(ctx, CreateCommand{Definition: def})
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (domain.Questionnaire, error) {
	def := cmd.Definition
	if err := def.Validate(); err != nil {
		return domain.Questionnaire{}, err
	}

	now := s.clock.Now()
	q := domain.Questionnaire{
		ID:          domain.QuestionnaireID(s.ids.NewID()),
		Kind:        def.Kind,
		Title:       strings.TrimSpace(def.Title),
		Description: def.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch def.Kind {
	case domain.KindVote:
		q.Budget = def.Budget
		q.Allocations = def.Budget.Sanitize(def.Allocations)
	case domain.KindMatrix:
		q.Matrix = def.Matrix
		q.Placements = def.Matrix.Sanitize(def.Placements)
	}

	if err := s.repo.Save(ctx, q); err != nil {
		return domain.Questionnaire{}, fmt.Errorf("save questionnaire: %w", err)
	}

	s.logger.Info("questionnaire created",
		zap.String("id", string(q.ID)),
		zap.String("kind", string(q.Kind)),
	)

	return q, nil
}

func (s *Service) Get(ctx context.Context, id domain.QuestionnaireID) (domain.Questionnaire, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Questionnaire, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	return all, nil
}

func (s *Service) Delete(ctx context.Context, id domain.QuestionnaireID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("questionnaire deleted", zap.String("id", string(id)))
	return nil
}

func (s *Service) Allocate(ctx context.Context, cmd AllocateCommand) (Outcome, error) {
	return s.mutateVote(ctx, cmd.ID, "allocate", func(q domain.Questionnaire) domain.Allocations {
		return q.Budget.Propose(q.Allocations, cmd.OptionID, cmd.Points)
	})
}

func (s *Service) Increment(ctx context.Context, cmd StepCommand) (Outcome, error) {
	return s.mutateVote(ctx, cmd.ID, "increment", func(q domain.Questionnaire) domain.Allocations {
		return q.Budget.Increment(q.Allocations, cmd.OptionID)
	})
}

func (s *Service) Decrement(ctx context.Context, cmd StepCommand) (Outcome, error) {
	return s.mutateVote(ctx, cmd.ID, "decrement", func(q domain.Questionnaire) domain.Allocations {
		return q.Budget.Decrement(q.Allocations, cmd.OptionID)
	})
}

func (s *Service) ResetAllocations(ctx context.Context, id domain.QuestionnaireID) (Outcome, error) {
	return s.mutateVote(ctx, id, "reset", func(domain.Questionnaire) domain.Allocations {
		return domain.ResetAllocations()
	})
}

func (s *Service) Place(ctx context.Context, cmd PlaceCommand) (Outcome, error) {
	return s.mutateMatrix(ctx, cmd.ID, "place", func(q domain.Questionnaire) domain.Placements {
		return q.Matrix.Place(q.Placements, cmd.ItemID, cmd.Effort, cmd.Impact)
	})
}

func (s *Service) Remove(ctx context.Context, cmd RemoveCommand) (Outcome, error) {
	return s.mutateMatrix(ctx, cmd.ID, "remove", func(q domain.Questionnaire) domain.Placements {
		return q.Matrix.Remove(q.Placements, cmd.ItemID)
	})
}

func (s *Service) mutateVote(ctx context.Context, id domain.QuestionnaireID, op string, reduce func(domain.Questionnaire) domain.Allocations) (Outcome, error) {
	q, err := s.loadMutable(ctx, id, domain.KindVote)
	if err != nil {
		return Outcome{}, err
	}

	next := reduce(q)
	if maps.Equal(q.Allocations, next) {
		s.logger.Debug("allocation unchanged", zap.String("id", string(id)), zap.String("op", op))
		return Outcome{Questionnaire: q}, nil
	}

	q.Allocations = next
	return s.commit(ctx, q, op)
}

func (s *Service) mutateMatrix(ctx context.Context, id domain.QuestionnaireID, op string, reduce func(domain.Questionnaire) domain.Placements) (Outcome, error) {
	q, err := s.loadMutable(ctx, id, domain.KindMatrix)
	if err != nil {
		return Outcome{}, err
	}

	next := reduce(q)
	if maps.Equal(q.Placements, next) {
		s.logger.Debug("placement unchanged", zap.String("id", string(id)), zap.String("op", op))
		return Outcome{Questionnaire: q}, nil
	}

	q.Placements = next
	return s.commit(ctx, q, op)
}

func (s *Service) loadMutable(ctx context.Context, id domain.QuestionnaireID, kind domain.Kind) (domain.Questionnaire, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Questionnaire{}, err
	}
	if q.Kind != kind {
		return domain.Questionnaire{}, fmt.Errorf("%w: %s is a %s questionnaire", domain.ErrKindMismatch, id, q.Kind)
	}
	if q.Submitted() {
		return domain.Questionnaire{}, fmt.Errorf("%w: %s", domain.ErrQuestionnaireSubmitted, id)
	}
	return q, nil
}

func (s *Service) commit(ctx context.Context, q domain.Questionnaire, op string) (Outcome, error) {
	q.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, q); err != nil {
		return Outcome{}, fmt.Errorf("save questionnaire: %w", err)
	}

	s.logger.Debug("questionnaire updated",
		zap.String("id", string(q.ID)),
		zap.String("op", op),
		zap.Bool("complete", q.IsComplete()),
	)

	return Outcome{Questionnaire: q, Changed: true}, nil
}

func (s *Service) Summary(ctx context.Context, id domain.QuestionnaireID) (Summary, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(q), nil
}

// Summarize derives the read model shown to the user.
func Summarize(q domain.Questionnaire) Summary {
	summary := Summary{
		ID:          q.ID,
		Kind:        q.Kind,
		Title:       q.Title,
		Description: q.Description,
		Complete:    q.IsComplete(),
		Submitted:   q.Submitted(),
		Violations:  q.Violations(),
	}

	switch q.Kind {
	case domain.KindVote:
		summary.Vote = summarizeVote(q.Budget, q.Allocations)
	case domain.KindMatrix:
		summary.Matrix = summarizeMatrix(q.Matrix, q.Placements)
	}

	return summary
}

func summarizeVote(b domain.Budget, a domain.Allocations) *VoteSummary {
	rows := make([]OptionRow, 0, len(b.Options))
	for _, option := range b.Options {
		maxPoints := b.TotalPoints
		if option.MaxPoints != nil {
			maxPoints = *option.MaxPoints
		}
		rows = append(rows, OptionRow{
			ID:        option.ID,
			Label:     option.Label,
			Points:    a[option.ID],
			MinPoints: option.MinPoints,
			MaxPoints: maxPoints,
			Disabled:  option.Disabled,
		})
	}

	return &VoteSummary{
		TotalPoints:      b.TotalPoints,
		Step:             b.Step,
		PointsAllocated:  b.PointsAllocated(a),
		PointsRemaining:  b.PointsRemaining(a),
		RequireAllPoints: b.RequireAllPoints,
		Options:          rows,
	}
}

func summarizeMatrix(m domain.Matrix, p domain.Placements) *MatrixSummary {
	quadrants := make([]QuadrantRow, 0, 4)
	for _, position := range domain.Quadrants() {
		ids := m.ItemsInQuadrant(p, position.Effort, position.Impact)
		items := make([]ItemRow, 0, len(ids))
		for _, id := range ids {
			item, _ := m.Item(id)
			items = append(items, itemRow(item))
		}
		quadrants = append(quadrants, QuadrantRow{
			Name:   position.Name(),
			Effort: position.Effort,
			Impact: position.Impact,
			Items:  items,
		})
	}

	unplaced := []ItemRow{}
	for _, item := range m.UnplacedItems(p) {
		unplaced = append(unplaced, itemRow(item))
	}

	disabled := []ItemRow{}
	for _, item := range m.Items {
		if item.Disabled {
			disabled = append(disabled, itemRow(item))
		}
	}

	return &MatrixSummary{
		RequireAllItems: m.RequireAllItems,
		Quadrants:       quadrants,
		Unplaced:        unplaced,
		Disabled:        disabled,
	}
}

func itemRow(item domain.Item) ItemRow {
	return ItemRow{ID: item.ID, Label: item.Label, Disabled: item.Disabled}
}
