package application

import (
	"time"

	"github.com/bnema/bip-questionnaire/internal/domain"
)

type OptionRow struct {
	ID        domain.OptionID `json:"id"`
	Label     string          `json:"label"`
	Points    int             `json:"points"`
	MinPoints int             `json:"min_points"`
	MaxPoints int             `json:"max_points"`
	Disabled  bool            `json:"disabled,omitempty"`
}

type VoteSummary struct {
	TotalPoints      int         `json:"total_points"`
	Step             int         `json:"step"`
	PointsAllocated  int         `json:"points_allocated"`
	PointsRemaining  int         `json:"points_remaining"`
	RequireAllPoints bool        `json:"require_all_points"`
	Options          []OptionRow `json:"options"`
}

type ItemRow struct {
	ID       domain.ItemID `json:"id"`
	Label    string        `json:"label"`
	Disabled bool          `json:"disabled,omitempty"`
}

type QuadrantRow struct {
	Name   string       `json:"name"`
	Effort domain.Level `json:"effort"`
	Impact domain.Level `json:"impact"`
	Items  []ItemRow    `json:"items"`
}

type MatrixSummary struct {
	RequireAllItems bool          `json:"require_all_items"`
	Quadrants       []QuadrantRow `json:"quadrants"`
	Unplaced        []ItemRow     `json:"unplaced"`
	Disabled        []ItemRow     `json:"disabled"`
}

type Summary struct {
	ID          domain.QuestionnaireID `json:"id"`
	Kind        domain.Kind            `json:"kind"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Complete    bool                   `json:"complete"`
	Submitted   bool                   `json:"submitted"`
	Violations  []string               `json:"violations,omitempty"`
	Vote        *VoteSummary           `json:"vote,omitempty"`
	Matrix      *MatrixSummary         `json:"matrix,omitempty"`
}

// Submission is the final mapping handed to whatever stores responses.
type Submission struct {
	QuestionnaireID domain.QuestionnaireID `json:"questionnaire_id" yaml:"questionnaire_id"`
	Kind            domain.Kind            `json:"kind" yaml:"kind"`
	Title           string                 `json:"title" yaml:"title"`
	SubmittedAt     time.Time              `json:"submitted_at" yaml:"submitted_at"`
	Allocations     map[string]int         `json:"allocations,omitempty" yaml:"allocations,omitempty"`
	Placements      map[string]Placement   `json:"placements,omitempty" yaml:"placements,omitempty"`
}

type Placement struct {
	Effort domain.Level `json:"effort" yaml:"effort"`
	Impact domain.Level `json:"impact" yaml:"impact"`
}
