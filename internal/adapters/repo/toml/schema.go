package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version        int                   `toml:"version"`
	Questionnaires []questionnaireSchema `toml:"questionnaires"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported questionnaires schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type questionnaireSchema struct {
	ID          string        `toml:"id"`
	Kind        string        `toml:"kind"`
	Title       string        `toml:"title"`
	Description string        `toml:"description,omitempty"`
	CreatedAt   string        `toml:"created_at"`
	UpdatedAt   string        `toml:"updated_at"`
	SubmittedAt string        `toml:"submitted_at,omitempty"`
	Budget      *budgetSchema `toml:"budget,omitempty"`
	Matrix      *matrixSchema `toml:"matrix,omitempty"`
}

type budgetSchema struct {
	TotalPoints      int                `toml:"total_points"`
	Step             int                `toml:"step"`
	RequireAllPoints bool               `toml:"require_all_points"`
	Options          []optionSchema     `toml:"options"`
	Allocations      []allocationSchema `toml:"allocations"`
}

type optionSchema struct {
	ID        string `toml:"id"`
	Label     string `toml:"label"`
	MinPoints int    `toml:"min_points,omitempty"`
	MaxPoints *int   `toml:"max_points,omitempty"`
	Disabled  bool   `toml:"disabled,omitempty"`
}

type allocationSchema struct {
	OptionID string `toml:"option_id"`
	Points   int    `toml:"points"`
}

type matrixSchema struct {
	RequireAllItems bool              `toml:"require_all_items"`
	Items           []itemSchema      `toml:"items"`
	Placements      []placementSchema `toml:"placements"`
}

type itemSchema struct {
	ID       string `toml:"id"`
	Label    string `toml:"label"`
	Disabled bool   `toml:"disabled,omitempty"`
}

type placementSchema struct {
	ItemID string `toml:"item_id"`
	Effort string `toml:"effort"`
	Impact string `toml:"impact"`
}
