package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/bnema/bip-questionnaire/internal/termtext"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedModel = errors.New("unexpected final bubbletea model type")

// Actions is the subset of the application service the widget drives.
type Actions interface {
	Allocate(ctx context.Context, cmd application.AllocateCommand) (application.Outcome, error)
	Increment(ctx context.Context, cmd application.StepCommand) (application.Outcome, error)
	Decrement(ctx context.Context, cmd application.StepCommand) (application.Outcome, error)
	ResetAllocations(ctx context.Context, id domain.QuestionnaireID) (application.Outcome, error)
	Place(ctx context.Context, cmd application.PlaceCommand) (application.Outcome, error)
	Remove(ctx context.Context, cmd application.RemoveCommand) (application.Outcome, error)
}

type outcomeMsg struct {
	outcome application.Outcome
	err     error
}

type Model struct {
	ctx     context.Context
	actions Actions
	q       domain.Questionnaire
	cursor  int
	keys    keyMap
	status  string
	err     error
	styles  styles
}

func NewModel(ctx context.Context, actions Actions, q domain.Questionnaire) Model {
	return Model{
		ctx:     ctx,
		actions: actions,
		q:       q,
		keys:    newKeyMap(),
		styles:  newStyles(),
	}
}

func (m Model) Questionnaire() domain.Questionnaire {
	return m.q
}

func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.q = msg.outcome.Questionnaire
		if msg.outcome.Changed {
			m.status = "saved"
		} else {
			m.status = "no change"
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.q.Kind {
	case domain.KindVote:
		return m, m.voteCommand(msg)
	case domain.KindMatrix:
		return m, m.matrixCommand(msg)
	default:
		return m, nil
	}
}

func (m Model) voteCommand(msg tea.KeyMsg) tea.Cmd {
	if len(m.q.Budget.Options) == 0 {
		return nil
	}
	id := m.q.ID
	option := m.q.Budget.Options[m.cursor].ID

	switch {
	case key.Matches(msg, m.keys.Increment):
		return m.run(func(ctx context.Context) (application.Outcome, error) {
			return m.actions.Increment(ctx, application.StepCommand{ID: id, OptionID: option})
		})
	case key.Matches(msg, m.keys.Decrement):
		return m.run(func(ctx context.Context) (application.Outcome, error) {
			return m.actions.Decrement(ctx, application.StepCommand{ID: id, OptionID: option})
		})
	case key.Matches(msg, m.keys.Clear):
		return m.run(func(ctx context.Context) (application.Outcome, error) {
			return m.actions.Allocate(ctx, application.AllocateCommand{ID: id, OptionID: option, Points: 0})
		})
	case key.Matches(msg, m.keys.Reset):
		return m.run(func(ctx context.Context) (application.Outcome, error) {
			return m.actions.ResetAllocations(ctx, id)
		})
	default:
		return nil
	}
}

func (m Model) matrixCommand(msg tea.KeyMsg) tea.Cmd {
	if len(m.q.Matrix.Items) == 0 {
		return nil
	}
	id := m.q.ID
	item := m.q.Matrix.Items[m.cursor].ID

	switch {
	case key.Matches(msg, m.keys.Place):
		quadrants := domain.Quadrants()
		index := int(msg.String()[0] - '1')
		if index < 0 || index >= len(quadrants) {
			return nil
		}
		position := quadrants[index]
		return m.run(func(ctx context.Context) (application.Outcome, error) {
			return m.actions.Place(ctx, application.PlaceCommand{ID: id, ItemID: item, Effort: position.Effort, Impact: position.Impact})
		})
	case key.Matches(msg, m.keys.Remove):
		return m.run(func(ctx context.Context) (application.Outcome, error) {
			return m.actions.Remove(ctx, application.RemoveCommand{ID: id, ItemID: item})
		})
	default:
		return nil
	}
}

func (m Model) run(fn func(context.Context) (application.Outcome, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := fn(ctx)
		return outcomeMsg{outcome: outcome, err: err}
	}
}

func (m Model) rowCount() int {
	switch m.q.Kind {
	case domain.KindVote:
		return len(m.q.Budget.Options)
	case domain.KindMatrix:
		return len(m.q.Matrix.Items)
	default:
		return 0
	}
}

func (m Model) View() string {
	lines := []string{m.styles.title.Render(termtext.Sanitize(m.q.Title))}

	switch m.q.Kind {
	case domain.KindVote:
		lines = append(lines, m.voteRows()...)
		lines = append(lines, m.styles.footer.Render(fmt.Sprintf("%d of %d points left", m.q.Budget.PointsRemaining(m.q.Allocations), m.q.Budget.TotalPoints)))
		lines = append(lines, m.styles.help.Render(helpLine(m.keys.voteHelp())))
	case domain.KindMatrix:
		lines = append(lines, m.matrixRows()...)
		lines = append(lines, m.styles.footer.Render(fmt.Sprintf("%d items unplaced", len(m.q.Matrix.UnplacedItems(m.q.Placements)))))
		lines = append(lines, m.styles.help.Render(quadrantLegend()))
		lines = append(lines, m.styles.help.Render(helpLine(m.keys.matrixHelp())))
	}

	if m.status != "" {
		lines = append(lines, m.styles.status.Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) voteRows() []string {
	rows := make([]string, 0, len(m.q.Budget.Options))
	for i, option := range m.q.Budget.Options {
		row := fmt.Sprintf("%s %-24s %4d", m.marker(i), termtext.Sanitize(option.Label), m.q.Allocations[option.ID])
		if option.Disabled {
			rows = append(rows, m.styles.disabled.Render(row+"  disabled"))
			continue
		}
		rows = append(rows, m.rowStyle(i).Render(row))
	}
	return rows
}

func (m Model) matrixRows() []string {
	rows := make([]string, 0, len(m.q.Matrix.Items))
	for i, item := range m.q.Matrix.Items {
		where := "unplaced"
		if position, ok := m.q.Placements[item.ID]; ok {
			where = position.Name()
		}
		row := fmt.Sprintf("%s %-24s %s", m.marker(i), termtext.Sanitize(item.Label), where)
		if item.Disabled {
			rows = append(rows, m.styles.disabled.Render(row+"  disabled"))
			continue
		}
		rows = append(rows, m.rowStyle(i).Render(row))
	}
	return rows
}

func (m Model) marker(i int) string {
	if i == m.cursor {
		return ">"
	}
	return " "
}

func (m Model) rowStyle(i int) lipgloss.Style {
	if i == m.cursor {
		return m.styles.selected
	}
	return m.styles.row
}

func quadrantLegend() string {
	parts := make([]string, 0, 4)
	for i, position := range domain.Quadrants() {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, position.Name()))
	}
	return strings.Join(parts, "  ")
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run drives the interactive widget until the user quits and returns the
// last state it saw.
func Run(ctx context.Context, actions Actions, q domain.Questionnaire, in io.Reader, out io.Writer) (domain.Questionnaire, error) {
	p := tea.NewProgram(
		NewModel(ctx, actions, q),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	finalModel, err := p.Run()
	if err != nil {
		return q, err
	}

	final, ok := finalModel.(Model)
	if !ok {
		return q, ErrUnexpectedModel
	}

	return final.Questionnaire(), final.Err()
}
