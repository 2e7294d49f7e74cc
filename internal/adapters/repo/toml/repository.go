package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/bip-questionnaire/internal/config"
	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/bnema/bip-questionnaire/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	fileMode        = 0o600
	dirMode         = 0o700
	tempFilePattern = ".questionnaires-*.toml.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.QuestionnaireRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	var path string
	if cfg != nil {
		path = cfg.GetString(config.QuestionnairesPathKey)
	}
	if path == "" {
		return nil, fmt.Errorf("%s is not configured", config.QuestionnairesPathKey)
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Save(ctx context.Context, q domain.Questionnaire) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(q)
	updated := false
	for i := range file.Questionnaires {
		if file.Questionnaires[i].ID == encoded.ID {
			file.Questionnaires[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Questionnaires = append(file.Questionnaires, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.QuestionnaireID) (domain.Questionnaire, error) {
	if err := ctx.Err(); err != nil {
		return domain.Questionnaire{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Questionnaire{}, err
	}

	for _, entry := range file.Questionnaires {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Questionnaire{}, fmt.Errorf("%w: %s", domain.ErrQuestionnaireNotFound, id)
}

func (r *Repository) List(ctx context.Context) ([]domain.Questionnaire, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Questionnaire, 0, len(file.Questionnaires))
	for _, entry := range file.Questionnaires {
		out = append(out, fromSchema(entry))
	}

	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id domain.QuestionnaireID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Questionnaires[:0]
	found := false
	for _, entry := range file.Questionnaires {
		if entry.ID == string(id) {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrQuestionnaireNotFound, id)
	}
	file.Questionnaires = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read questionnaires file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode questionnaires file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), dirMode); err != nil {
		return fmt.Errorf("create questionnaires directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode questionnaires file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp questionnaires file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp questionnaires file: %w", err)
	}

	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp questionnaires file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp questionnaires file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace questionnaires file: %w", err)
	}

	cleanup = false

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve questionnaires path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(q domain.Questionnaire) questionnaireSchema {
	out := questionnaireSchema{
		ID:          string(q.ID),
		Kind:        string(q.Kind),
		Title:       q.Title,
		Description: q.Description,
		CreatedAt:   formatTime(q.CreatedAt),
		UpdatedAt:   formatTime(q.UpdatedAt),
		SubmittedAt: formatTime(q.SubmittedAt),
	}

	switch q.Kind {
	case domain.KindVote:
		out.Budget = toBudgetSchema(q.Budget, q.Allocations)
	case domain.KindMatrix:
		out.Matrix = toMatrixSchema(q.Matrix, q.Placements)
	}

	return out
}

func toBudgetSchema(b domain.Budget, a domain.Allocations) *budgetSchema {
	options := make([]optionSchema, 0, len(b.Options))
	allocations := make([]allocationSchema, 0, len(a))
	for _, option := range b.Options {
		options = append(options, optionSchema{
			ID:        string(option.ID),
			Label:     option.Label,
			MinPoints: option.MinPoints,
			MaxPoints: option.MaxPoints,
			Disabled:  option.Disabled,
		})
		if points, ok := a[option.ID]; ok {
			allocations = append(allocations, allocationSchema{OptionID: string(option.ID), Points: points})
		}
	}

	return &budgetSchema{
		TotalPoints:      b.TotalPoints,
		Step:             b.Step,
		RequireAllPoints: b.RequireAllPoints,
		Options:          options,
		Allocations:      allocations,
	}
}

func toMatrixSchema(m domain.Matrix, p domain.Placements) *matrixSchema {
	items := make([]itemSchema, 0, len(m.Items))
	placements := make([]placementSchema, 0, len(p))
	for _, item := range m.Items {
		items = append(items, itemSchema{ID: string(item.ID), Label: item.Label, Disabled: item.Disabled})
		if position, ok := p[item.ID]; ok {
			placements = append(placements, placementSchema{
				ItemID: string(item.ID),
				Effort: string(position.Effort),
				Impact: string(position.Impact),
			})
		}
	}

	return &matrixSchema{
		RequireAllItems: m.RequireAllItems,
		Items:           items,
		Placements:      placements,
	}
}

// fromSchema decodes a stored questionnaire. Stored answers are replayed
// through the engines so hand-edited files cannot break invariants.
func fromSchema(s questionnaireSchema) domain.Questionnaire {
	q := domain.Questionnaire{
		ID:          domain.QuestionnaireID(s.ID),
		Kind:        domain.Kind(s.Kind),
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   parseTime(s.CreatedAt),
		UpdatedAt:   parseTime(s.UpdatedAt),
		SubmittedAt: parseTime(s.SubmittedAt),
	}

	if s.Budget != nil {
		options := make([]domain.Option, 0, len(s.Budget.Options))
		for _, option := range s.Budget.Options {
			options = append(options, domain.Option{
				ID:        domain.OptionID(option.ID),
				Label:     option.Label,
				MinPoints: option.MinPoints,
				MaxPoints: option.MaxPoints,
				Disabled:  option.Disabled,
			})
		}
		q.Budget = domain.Budget{
			TotalPoints:      s.Budget.TotalPoints,
			Step:             s.Budget.Step,
			RequireAllPoints: s.Budget.RequireAllPoints,
			Options:          options,
		}

		raw := make(domain.Allocations, len(s.Budget.Allocations))
		for _, allocation := range s.Budget.Allocations {
			raw[domain.OptionID(allocation.OptionID)] = allocation.Points
		}
		q.Allocations = q.Budget.Sanitize(raw)
	}

	if s.Matrix != nil {
		items := make([]domain.Item, 0, len(s.Matrix.Items))
		for _, item := range s.Matrix.Items {
			items = append(items, domain.Item{ID: domain.ItemID(item.ID), Label: item.Label, Disabled: item.Disabled})
		}
		q.Matrix = domain.Matrix{RequireAllItems: s.Matrix.RequireAllItems, Items: items}

		raw := make(domain.Placements, len(s.Matrix.Placements))
		for _, placement := range s.Matrix.Placements {
			raw[domain.ItemID(placement.ItemID)] = domain.Position{
				Effort: domain.Level(placement.Effort),
				Impact: domain.Level(placement.Impact),
			}
		}
		q.Placements = q.Matrix.Sanitize(raw)
	}

	return q
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
