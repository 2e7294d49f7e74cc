package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ItemID string

type Level string

const (
	LevelLow  Level = "low"
	LevelHigh Level = "high"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelHigh:
		return true
	default:
		return false
	}
}

func ParseLevel(raw string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(raw)))
	if !level.Valid() {
		return "", fmt.Errorf("invalid level %q (want low or high)", raw)
	}
	return level, nil
}

type Position struct {
	Effort Level
	Impact Level
}

func (p Position) Valid() bool {
	return p.Effort.Valid() && p.Impact.Valid()
}

// Name returns the conventional label of the quadrant.
func (p Position) Name() string {
	switch p {
	case Position{Effort: LevelLow, Impact: LevelHigh}:
		return "Quick wins"
	case Position{Effort: LevelHigh, Impact: LevelHigh}:
		return "Major projects"
	case Position{Effort: LevelLow, Impact: LevelLow}:
		return "Fill-ins"
	case Position{Effort: LevelHigh, Impact: LevelLow}:
		return "Thankless tasks"
	default:
		return "Unknown"
	}
}

// Quadrants lists the four positions in display order.
func Quadrants() []Position {
	return []Position{
		{Effort: LevelLow, Impact: LevelHigh},
		{Effort: LevelHigh, Impact: LevelHigh},
		{Effort: LevelLow, Impact: LevelLow},
		{Effort: LevelHigh, Impact: LevelLow},
	}
}

type Item struct {
	ID       ItemID
	Label    string
	Disabled bool
}

type Placements map[ItemID]Position

func (p Placements) Clone() Placements {
	out := make(Placements, len(p))
	for id, position := range p {
		out[id] = position
	}
	return out
}

type Matrix struct {
	Items           []Item
	RequireAllItems bool
}

func (m Matrix) Item(id ItemID) (Item, bool) {
	for _, item := range m.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Place puts id into the given quadrant, replacing any earlier position.
func (m Matrix) Place(current Placements, id ItemID, effort, impact Level) Placements {
	next := current.Clone()

	item, ok := m.Item(id)
	if !ok || item.Disabled {
		return next
	}

	position := Position{Effort: effort, Impact: impact}
	if !position.Valid() {
		return next
	}

	next[id] = position
	return next
}

func (m Matrix) Remove(current Placements, id ItemID) Placements {
	next := current.Clone()
	delete(next, id)
	return next
}

func (m Matrix) UnplacedItems(p Placements) []Item {
	unplaced := make([]Item, 0, len(m.Items))
	for _, item := range m.Items {
		if item.Disabled {
			continue
		}
		if _, ok := p[item.ID]; ok {
			continue
		}
		unplaced = append(unplaced, item)
	}
	return unplaced
}

// ItemsInQuadrant returns the items placed at effort/impact in item order.
func (m Matrix) ItemsInQuadrant(p Placements, effort, impact Level) []ItemID {
	want := Position{Effort: effort, Impact: impact}
	ids := make([]ItemID, 0)
	for _, item := range m.Items {
		if position, ok := p[item.ID]; ok && position == want {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (m Matrix) IsComplete(p Placements) bool {
	if !m.RequireAllItems {
		return true
	}
	return len(m.UnplacedItems(p)) == 0
}

func (m Matrix) Sanitize(initial Placements) Placements {
	out := Placements{}
	for _, item := range m.Items {
		position, ok := initial[item.ID]
		if !ok {
			continue
		}
		out = m.Place(out, item.ID, position.Effort, position.Impact)
	}
	return out
}

func (m Matrix) Violations(p Placements) []string {
	if m.IsComplete(p) {
		return nil
	}

	unplaced := m.UnplacedItems(p)
	ids := make([]string, 0, len(unplaced))
	for _, item := range unplaced {
		ids = append(ids, string(item.ID))
	}
	return []string{fmt.Sprintf("%d items not placed: %s", len(ids), strings.Join(ids, ", "))}
}

func (m Matrix) Validate() error {
	var errs []error
	if len(m.Items) == 0 {
		errs = append(errs, fmt.Errorf("at least one item is required"))
	}

	seen := make(map[ItemID]struct{}, len(m.Items))
	for i, item := range m.Items {
		if strings.TrimSpace(string(item.ID)) == "" {
			errs = append(errs, fmt.Errorf("item %d: id is required", i))
			continue
		}
		if _, ok := seen[item.ID]; ok {
			errs = append(errs, fmt.Errorf("item %s: duplicate id", item.ID))
		}
		seen[item.ID] = struct{}{}
	}

	return errors.Join(errs...)
}
