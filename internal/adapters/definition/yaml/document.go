package yaml

import "github.com/bnema/bip-questionnaire/internal/domain"

type definitionDocument struct {
	Kind             string                       `yaml:"kind"`
	Title            string                       `yaml:"title"`
	Description      string                       `yaml:"description"`
	TotalPoints      int                          `yaml:"total_points"`
	Step             int                          `yaml:"step"`
	RequireAllPoints bool                         `yaml:"require_all_points"`
	Options          []optionDocument             `yaml:"options"`
	Allocations      map[string]int               `yaml:"allocations"`
	RequireAllItems  bool                         `yaml:"require_all_items"`
	Items            []itemDocument               `yaml:"items"`
	Placements       map[string]placementDocument `yaml:"placements"`
}

type optionDocument struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	MinPoints int    `yaml:"min_points"`
	MaxPoints *int   `yaml:"max_points"`
	Disabled  bool   `yaml:"disabled"`
}

type itemDocument struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Disabled bool   `yaml:"disabled"`
}

type placementDocument struct {
	Effort string `yaml:"effort"`
	Impact string `yaml:"impact"`
}

func (d definitionDocument) toDomain() domain.Definition {
	def := domain.Definition{
		Kind:        domain.Kind(d.Kind),
		Title:       d.Title,
		Description: d.Description,
	}

	switch def.Kind {
	case domain.KindVote:
		step := d.Step
		if step == 0 {
			step = 1
		}
		options := make([]domain.Option, 0, len(d.Options))
		for _, option := range d.Options {
			options = append(options, domain.Option{
				ID:        domain.OptionID(option.ID),
				Label:     labelOrID(option.Label, option.ID),
				MinPoints: option.MinPoints,
				MaxPoints: option.MaxPoints,
				Disabled:  option.Disabled,
			})
		}
		def.Budget = domain.Budget{
			TotalPoints:      d.TotalPoints,
			Step:             step,
			RequireAllPoints: d.RequireAllPoints,
			Options:          options,
		}
		def.Allocations = make(domain.Allocations, len(d.Allocations))
		for id, points := range d.Allocations {
			def.Allocations[domain.OptionID(id)] = points
		}
	case domain.KindMatrix:
		items := make([]domain.Item, 0, len(d.Items))
		for _, item := range d.Items {
			items = append(items, domain.Item{
				ID:       domain.ItemID(item.ID),
				Label:    labelOrID(item.Label, item.ID),
				Disabled: item.Disabled,
			})
		}
		def.Matrix = domain.Matrix{RequireAllItems: d.RequireAllItems, Items: items}
		def.Placements = make(domain.Placements, len(d.Placements))
		for id, placement := range d.Placements {
			def.Placements[domain.ItemID(id)] = domain.Position{
				Effort: domain.Level(placement.Effort),
				Impact: domain.Level(placement.Impact),
			}
		}
	}

	return def
}

func labelOrID(label, id string) string {
	if label == "" {
		return id
	}
	return label
}
