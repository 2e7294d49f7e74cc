package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/termtext"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 24

type RenderOptions struct {
	BarWidth int
}

func renderView(summaries []application.Summary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Questionnaires"),
		s.header.Render(fmt.Sprintf("questionnaires: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No questionnaires yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, summary := range summaries {
		lines = append(lines, s.section.Render(renderSummary(summary, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(summary application.Summary, opts RenderOptions, s styles) string {
	parts := []string{
		s.heading.Render(fmt.Sprintf("%s (%s)", strings.TrimSpace(termtext.Sanitize(summary.Title)), termtext.Sanitize(string(summary.ID)))),
		s.header.Render(fmt.Sprintf("kind: %s  state:", summary.Kind)) + " " + stateStyle(summary, s).Render(stateLabel(summary)),
	}
	if summary.Description != "" {
		parts = append(parts, s.muted.Render(termtext.Sanitize(summary.Description)))
	}

	switch {
	case summary.Vote != nil:
		parts = append(parts, voteLines(summary.Vote, opts, s)...)
	case summary.Matrix != nil:
		parts = append(parts, matrixLines(summary.Matrix, s)...)
	}

	for _, violation := range summary.Violations {
		parts = append(parts, s.warning.Render("! "+termtext.Sanitize(violation)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func stateLabel(summary application.Summary) string {
	switch {
	case summary.Submitted:
		return "submitted"
	case summary.Complete:
		return "ready"
	default:
		return "in progress"
	}
}

func stateStyle(summary application.Summary, s styles) lipgloss.Style {
	if summary.Complete && !summary.Submitted {
		return s.success
	}
	return s.header
}

func voteLines(vote *application.VoteSummary, opts RenderOptions, s styles) []string {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	lines := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render("budget:"),
			" ",
			renderProgressBar(vote.PointsAllocated, vote.TotalPoints, width, s),
			" ",
			s.detail.Render(fmt.Sprintf("%d/%d allocated, %d left", vote.PointsAllocated, vote.TotalPoints, vote.PointsRemaining)),
		),
	}

	for _, option := range vote.Options {
		label := fmt.Sprintf("  %-20s %4d pts", truncate(termtext.Sanitize(option.Label), 20), option.Points)
		meta := boundsLabel(option)
		if option.Disabled {
			lines = append(lines, s.muted.Render(label+"  (disabled)"))
			continue
		}
		lines = append(lines, s.detail.Render(label)+" "+s.muted.Render(meta))
	}

	return lines
}

func boundsLabel(option application.OptionRow) string {
	return fmt.Sprintf("[%d-%d]", option.MinPoints, option.MaxPoints)
}

func matrixLines(matrix *application.MatrixSummary, s styles) []string {
	lines := make([]string, 0, len(matrix.Quadrants)+2)
	for _, quadrant := range matrix.Quadrants {
		lines = append(lines, s.quadrant.Render(fmt.Sprintf("  %s (effort %s, impact %s): %s",
			quadrant.Name,
			quadrant.Effort,
			quadrant.Impact,
			itemList(quadrant.Items),
		)))
	}

	if len(matrix.Unplaced) > 0 {
		lines = append(lines, s.detail.Render("  unplaced: "+itemList(matrix.Unplaced)))
	}
	if len(matrix.Disabled) > 0 {
		lines = append(lines, s.muted.Render("  disabled: "+itemList(matrix.Disabled)))
	}

	return lines
}

func itemList(items []application.ItemRow) string {
	if len(items) == 0 {
		return "-"
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, termtext.Sanitize(item.Label))
	}
	return strings.Join(labels, ", ")
}

func renderProgressBar(used, total, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := 0.0
	if total > 0 {
		fraction = float64(used) / float64(total)
	}
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
