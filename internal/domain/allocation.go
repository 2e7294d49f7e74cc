package domain

import (
	"errors"
	"fmt"
	"strings"
)

type OptionID string

type Option struct {
	ID        OptionID
	Label     string
	MinPoints int
	// MaxPoints is nil when the option is only bounded by the budget total.
	MaxPoints *int
	Disabled  bool
}

// Allocations maps an option to its assigned points. Options without an
// entry hold zero points; zero is never stored.
type Allocations map[OptionID]int

func (a Allocations) Clone() Allocations {
	out := make(Allocations, len(a))
	for id, points := range a {
		out[id] = points
	}
	return out
}

type Budget struct {
	TotalPoints      int
	Step             int
	RequireAllPoints bool
	Options          []Option
}

func (b Budget) Option(id OptionID) (Option, bool) {
	for _, option := range b.Options {
		if option.ID == id {
			return option, true
		}
	}
	return Option{}, false
}

func (b Budget) bounds(option Option) (int, int) {
	maxPoints := b.TotalPoints
	if option.MaxPoints != nil {
		maxPoints = *option.MaxPoints
	}
	return option.MinPoints, maxPoints
}

// Propose returns the allocations that result from setting id to requested
// points. Requests that cannot be honoured return an equal mapping.
func (b Budget) Propose(current Allocations, id OptionID, requested int) Allocations {
	next := current.Clone()

	option, ok := b.Option(id)
	if !ok || option.Disabled {
		return next
	}

	minPoints, maxPoints := b.bounds(option)
	points := clamp(requested, minPoints, maxPoints)

	currentPoints := current[id]
	remaining := b.PointsRemaining(current)
	if points-currentPoints > remaining {
		points = currentPoints + remaining
	}

	if points == currentPoints {
		return next
	}
	// Budget truncation can push a value under the option minimum.
	if points > 0 && points < minPoints {
		return next
	}

	if points <= 0 {
		delete(next, id)
		return next
	}

	next[id] = points
	return next
}

func (b Budget) Increment(current Allocations, id OptionID) Allocations {
	return b.Propose(current, id, current[id]+b.step())
}

func (b Budget) Decrement(current Allocations, id OptionID) Allocations {
	return b.Propose(current, id, current[id]-b.step())
}

func (b Budget) step() int {
	if b.Step < 1 {
		return 1
	}
	return b.Step
}

func ResetAllocations() Allocations {
	return Allocations{}
}

func (b Budget) PointsAllocated(a Allocations) int {
	total := 0
	for _, points := range a {
		total += points
	}
	return total
}

func (b Budget) PointsRemaining(a Allocations) int {
	return b.TotalPoints - b.PointsAllocated(a)
}

func (b Budget) IsComplete(a Allocations) bool {
	if !b.RequireAllPoints {
		return true
	}
	return b.PointsRemaining(a) == 0
}

// Sanitize replays an externally supplied mapping through Propose in option
// order, dropping entries that would break an invariant.
func (b Budget) Sanitize(initial Allocations) Allocations {
	out := ResetAllocations()
	for _, option := range b.Options {
		points, ok := initial[option.ID]
		if !ok {
			continue
		}
		out = b.Propose(out, option.ID, points)
	}
	return out
}

// Violations lists what keeps a mapping from being submitted.
func (b Budget) Violations(a Allocations) []string {
	var problems []string
	if !b.IsComplete(a) {
		problems = append(problems, fmt.Sprintf("%d points left to allocate", b.PointsRemaining(a)))
	}
	for _, option := range b.Options {
		minPoints, maxPoints := b.bounds(option)
		points, ok := a[option.ID]
		if !ok {
			// An untouched option still owes its minimum.
			if !option.Disabled && minPoints > 0 {
				problems = append(problems, fmt.Sprintf("option %s needs at least %d points", option.ID, minPoints))
			}
			continue
		}
		if points < minPoints || points > maxPoints {
			problems = append(problems, fmt.Sprintf("option %s has %d points, allowed %d-%d", option.ID, points, minPoints, maxPoints))
		}
	}
	return problems
}

func (b Budget) Validate() error {
	var errs []error
	if b.TotalPoints < 0 {
		errs = append(errs, fmt.Errorf("total points must not be negative"))
	}
	if b.Step < 1 {
		errs = append(errs, fmt.Errorf("step must be at least 1"))
	}
	if len(b.Options) == 0 {
		errs = append(errs, fmt.Errorf("at least one option is required"))
	}

	seen := make(map[OptionID]struct{}, len(b.Options))
	required := 0
	for i, option := range b.Options {
		if strings.TrimSpace(string(option.ID)) == "" {
			errs = append(errs, fmt.Errorf("option %d: id is required", i))
			continue
		}
		if _, ok := seen[option.ID]; ok {
			errs = append(errs, fmt.Errorf("option %s: duplicate id", option.ID))
		}
		seen[option.ID] = struct{}{}

		minPoints, maxPoints := b.bounds(option)
		if minPoints < 0 {
			errs = append(errs, fmt.Errorf("option %s: min points must not be negative", option.ID))
		}
		if maxPoints < minPoints {
			errs = append(errs, fmt.Errorf("option %s: max points %d below min points %d", option.ID, maxPoints, minPoints))
		}
		if maxPoints > b.TotalPoints {
			errs = append(errs, fmt.Errorf("option %s: max points %d exceed total %d", option.ID, maxPoints, b.TotalPoints))
		}
		if !option.Disabled {
			required += minPoints
		}
	}
	if required > b.TotalPoints {
		errs = append(errs, fmt.Errorf("minimum points %d exceed total %d", required, b.TotalPoints))
	}

	return errors.Join(errs...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
