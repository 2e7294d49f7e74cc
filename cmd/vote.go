package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/spf13/cobra"
)

func newVoteCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Distribute points in a feature vote",
	}

	cmd.AddCommand(
		newVoteSetCmd(app),
		newVoteStepCmd(app, "inc", "Add one step of points to an option", app.service.Increment),
		newVoteStepCmd(app, "dec", "Remove one step of points from an option", app.service.Decrement),
		newVoteResetCmd(app),
	)

	return cmd
}

func newVoteSetCmd(app *app) *cobra.Command {
	var optionID string
	var points int

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Set the points of an option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := app.service.Allocate(cmd.Context(), application.AllocateCommand{
				ID:       domain.QuestionnaireID(args[0]),
				OptionID: domain.OptionID(optionID),
				Points:   points,
			})
			if err != nil {
				return err
			}

			writeVoteOutcome(cmd.OutOrStdout(), outcome, domain.OptionID(optionID))
			return nil
		},
	}

	cmd.Flags().StringVar(&optionID, "option", "", "Option ID")
	cmd.Flags().IntVar(&points, "points", 0, "Requested points")
	_ = cmd.MarkFlagRequired("option")
	_ = cmd.MarkFlagRequired("points")

	return cmd
}

type stepFunc func(ctx context.Context, cmd application.StepCommand) (application.Outcome, error)

func newVoteStepCmd(app *app, use, short string, step stepFunc) *cobra.Command {
	var optionID string

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := step(cmd.Context(), application.StepCommand{
				ID:       domain.QuestionnaireID(args[0]),
				OptionID: domain.OptionID(optionID),
			})
			if err != nil {
				return err
			}

			writeVoteOutcome(cmd.OutOrStdout(), outcome, domain.OptionID(optionID))
			return nil
		},
	}

	cmd.Flags().StringVar(&optionID, "option", "", "Option ID")
	_ = cmd.MarkFlagRequired("option")

	return cmd
}

func newVoteResetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <id>",
		Short: "Clear every allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := app.service.ResetAllocations(cmd.Context(), domain.QuestionnaireID(args[0]))
			if err != nil {
				return err
			}

			b := outcome.Questionnaire.Budget
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Allocations cleared (%d points left)\n", b.PointsRemaining(outcome.Questionnaire.Allocations))
			return nil
		},
	}
}

func writeVoteOutcome(w io.Writer, outcome application.Outcome, optionID domain.OptionID) {
	q := outcome.Questionnaire
	remaining := q.Budget.PointsRemaining(q.Allocations)
	name := sanitizeForTerminal(string(optionID))

	if !outcome.Changed {
		_, _ = fmt.Fprintf(w, "No change for %s: %d points (%d left)\n", name, q.Allocations[optionID], remaining)
		return
	}

	_, _ = fmt.Fprintf(w, "%s: %d points (%d left)\n", name, q.Allocations[optionID], remaining)
}
