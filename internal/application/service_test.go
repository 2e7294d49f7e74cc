package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, repo *inMemoryQuestionnaireRepo) *Service {
	t.Helper()
	clock := fixedClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	return NewService(repo, stubLoader{}, clock, &sequenceIDs{}, zaptest.NewLogger(t))
}

func voteDefinition() domain.Definition {
	maxB := 20
	return domain.Definition{
		Kind:  domain.KindVote,
		Title: " Next features ",
		Budget: domain.Budget{
			TotalPoints:      100,
			Step:             10,
			RequireAllPoints: true,
			Options: []domain.Option{
				{ID: "a", Label: "Dark mode"},
				{ID: "b", Label: "Export", MaxPoints: &maxB},
				{ID: "c", Label: "SSO", MinPoints: 5},
				{ID: "d", Label: "Retired", Disabled: true},
			},
		},
	}
}

func matrixDefinition() domain.Definition {
	return domain.Definition{
		Kind:  domain.KindMatrix,
		Title: "Backlog triage",
		Matrix: domain.Matrix{
			RequireAllItems: true,
			Items: []domain.Item{
				{ID: "t1", Label: "Search"},
				{ID: "t2", Label: "Billing"},
				{ID: "t3", Label: "Old API", Disabled: true},
			},
		},
	}
}

func TestServiceCreateSanitizesInitialState(t *testing.T) {
	t.Parallel()

	repo := &inMemoryQuestionnaireRepo{}
	svc := newTestService(t, repo)

	def := voteDefinition()
	def.Allocations = domain.Allocations{"b": 50, "d": 10}

	q, err := svc.Create(context.Background(), CreateCommand{Definition: def})
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionnaireID("q-1"), q.ID)
	assert.Equal(t, "Next features", q.Title)
	assert.Equal(t, domain.Allocations{"b": 20}, q.Allocations)

	stored, err := repo.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q, stored)
}

func TestServiceCreateRejectsInvalidDefinition(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})

	_, err := svc.Create(context.Background(), CreateCommand{Definition: domain.Definition{Kind: domain.KindVote, Title: "x"}})
	require.ErrorIs(t, err, domain.ErrInvalidDefinition)
}

func TestServiceCreateFromFileUsesLoader(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})

	q, err := svc.CreateFromFile(context.Background(), "matrix.yaml")
	require.NoError(t, err)
	assert.Equal(t, domain.KindMatrix, q.Kind)

	_, err = svc.CreateFromFile(context.Background(), "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load definition missing.yaml")
}

func TestServiceAllocateReportsChanges(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateCommand{Definition: voteDefinition()})
	require.NoError(t, err)

	out, err := svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "a", Points: 30})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, domain.Allocations{"a": 30}, out.Questionnaire.Allocations)

	out, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "a", Points: 30})
	require.NoError(t, err)
	assert.False(t, out.Changed)

	out, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "d", Points: 30})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.NotContains(t, out.Questionnaire.Allocations, domain.OptionID("d"))

	out, err = svc.Increment(ctx, StepCommand{ID: q.ID, OptionID: "b"})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Questionnaire.Allocations["b"])

	out, err = svc.Decrement(ctx, StepCommand{ID: q.ID, OptionID: "a"})
	require.NoError(t, err)
	assert.Equal(t, domain.Allocations{"a": 20, "b": 10}, out.Questionnaire.Allocations)

	out, err = svc.ResetAllocations(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Empty(t, out.Questionnaire.Allocations)
}

func TestServicePlaceAndRemove(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateCommand{Definition: matrixDefinition()})
	require.NoError(t, err)

	out, err := svc.Place(ctx, PlaceCommand{ID: q.ID, ItemID: "t1", Effort: domain.LevelLow, Impact: domain.LevelHigh})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	out, err = svc.Place(ctx, PlaceCommand{ID: q.ID, ItemID: "t1", Effort: domain.LevelHigh, Impact: domain.LevelHigh})
	require.NoError(t, err)
	assert.Equal(t, domain.Placements{"t1": {Effort: domain.LevelHigh, Impact: domain.LevelHigh}}, out.Questionnaire.Placements)

	out, err = svc.Place(ctx, PlaceCommand{ID: q.ID, ItemID: "t3", Effort: domain.LevelLow, Impact: domain.LevelLow})
	require.NoError(t, err)
	assert.False(t, out.Changed)

	out, err = svc.Remove(ctx, RemoveCommand{ID: q.ID, ItemID: "t1"})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Empty(t, out.Questionnaire.Placements)

	out, err = svc.Remove(ctx, RemoveCommand{ID: q.ID, ItemID: "t1"})
	require.NoError(t, err)
	assert.False(t, out.Changed)
}

func TestServiceRejectsWrongKind(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateCommand{Definition: matrixDefinition()})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "t1", Points: 1})
	require.ErrorIs(t, err, domain.ErrKindMismatch)
}

func TestServiceSubmit(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateCommand{Definition: voteDefinition()})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "a", Points: 60})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, q.ID)
	require.ErrorIs(t, err, domain.ErrIncomplete)
	assert.Contains(t, err.Error(), "40 points left to allocate")

	_, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "b", Points: 20})
	require.NoError(t, err)
	_, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "c", Points: 20})
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 60, "b": 20, "c": 20}, sub.Allocations)
	assert.False(t, sub.SubmittedAt.IsZero())

	_, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "a", Points: 10})
	require.ErrorIs(t, err, domain.ErrQuestionnaireSubmitted)

	_, err = svc.Submit(ctx, q.ID)
	require.ErrorIs(t, err, domain.ErrQuestionnaireSubmitted)
}

func TestServiceSubmitRejectsUnmetMinimum(t *testing.T) {
	t.Parallel()

	repo := &inMemoryQuestionnaireRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateCommand{Definition: domain.Definition{
		Kind:  domain.KindVote,
		Title: "Minimums",
		Budget: domain.Budget{TotalPoints: 10, Step: 1, Options: []domain.Option{
			{ID: "a", Label: "Alpha"},
			{ID: "c", Label: "Gamma", MinPoints: 5},
		}},
	}})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, AllocateCommand{ID: q.ID, OptionID: "a", Points: 3})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, q.ID)
	require.ErrorIs(t, err, domain.ErrIncomplete)
	assert.Contains(t, err.Error(), "option c needs at least 5 points")

	stored, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, stored.Submitted())

	_, err = svc.Increment(ctx, StepCommand{ID: q.ID, OptionID: "c"})
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 3, "c": 5}, sub.Allocations)
}

func TestServiceResetWithoutAllocationsIsNoChange(t *testing.T) {
	t.Parallel()

	repo := &inMemoryQuestionnaireRepo{items: []domain.Questionnaire{{
		ID:     "q-nil",
		Kind:   domain.KindVote,
		Title:  "Untouched",
		Budget: voteDefinition().Budget,
	}}}
	svc := newTestService(t, repo)

	out, err := svc.ResetAllocations(context.Background(), "q-nil")
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Empty(t, out.Questionnaire.Allocations)
}

func TestServiceSummaryForMatrix(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateCommand{Definition: matrixDefinition()})
	require.NoError(t, err)
	_, err = svc.Place(ctx, PlaceCommand{ID: q.ID, ItemID: "t2", Effort: domain.LevelLow, Impact: domain.LevelHigh})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, summary.Matrix)
	assert.False(t, summary.Complete)
	assert.Equal(t, "Quick wins", summary.Matrix.Quadrants[0].Name)
	require.Len(t, summary.Matrix.Quadrants[0].Items, 1)
	assert.Equal(t, domain.ItemID("t2"), summary.Matrix.Quadrants[0].Items[0].ID)
	require.Len(t, summary.Matrix.Unplaced, 1)
	assert.Equal(t, domain.ItemID("t1"), summary.Matrix.Unplaced[0].ID)
	require.Len(t, summary.Matrix.Disabled, 1)
}

func TestServiceSummaryForVote(t *testing.T) {
	t.Parallel()

	summary := Summarize(domain.Questionnaire{
		ID:          "q-9",
		Kind:        domain.KindVote,
		Budget:      voteDefinition().Budget,
		Allocations: domain.Allocations{"a": 40},
	})

	require.NotNil(t, summary.Vote)
	assert.Equal(t, 40, summary.Vote.PointsAllocated)
	assert.Equal(t, 60, summary.Vote.PointsRemaining)
	assert.Equal(t, 20, summary.Vote.Options[1].MaxPoints)
	assert.Equal(t, 100, summary.Vote.Options[0].MaxPoints)
	assert.False(t, summary.Complete)
}

func TestServiceListOrdersByCreation(t *testing.T) {
	t.Parallel()

	repo := &inMemoryQuestionnaireRepo{}
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	repo.items = []domain.Questionnaire{
		{ID: "late", CreatedAt: base.Add(time.Hour)},
		{ID: "early", CreatedAt: base},
	}
	svc := newTestService(t, repo)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.QuestionnaireID("early"), all[0].ID)
}

func TestServiceDeleteMissing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &inMemoryQuestionnaireRepo{})
	err := svc.Delete(context.Background(), "nope")
	require.True(t, errors.Is(err, domain.ErrQuestionnaireNotFound))
}

type inMemoryQuestionnaireRepo struct {
	items []domain.Questionnaire
}

func (r *inMemoryQuestionnaireRepo) GetByID(_ context.Context, id domain.QuestionnaireID) (domain.Questionnaire, error) {
	for _, q := range r.items {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Questionnaire{}, domain.ErrQuestionnaireNotFound
}

func (r *inMemoryQuestionnaireRepo) List(_ context.Context) ([]domain.Questionnaire, error) {
	out := make([]domain.Questionnaire, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *inMemoryQuestionnaireRepo) Save(_ context.Context, q domain.Questionnaire) error {
	for i := range r.items {
		if r.items[i].ID == q.ID {
			r.items[i] = q
			return nil
		}
	}
	r.items = append(r.items, q)
	return nil
}

func (r *inMemoryQuestionnaireRepo) Delete(_ context.Context, id domain.QuestionnaireID) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrQuestionnaireNotFound
}

type stubLoader struct{}

func (stubLoader) Load(_ context.Context, path string) (domain.Definition, error) {
	if path == "matrix.yaml" {
		return matrixDefinition(), nil
	}
	return domain.Definition{}, fmt.Errorf("open %s: no such file", path)
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() string {
	s.next++
	return fmt.Sprintf("q-%d", s.next)
}
