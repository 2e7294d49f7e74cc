package cmd

import (
	"fmt"
	"io"

	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/spf13/cobra"
)

func newMatrixCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Sort items into effort/impact quadrants",
	}

	cmd.AddCommand(newMatrixPlaceCmd(app), newMatrixRemoveCmd(app))

	return cmd
}

func newMatrixPlaceCmd(app *app) *cobra.Command {
	var itemID, effort, impact string

	cmd := &cobra.Command{
		Use:   "place <id>",
		Short: "Place an item in a quadrant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			effortLevel, err := domain.ParseLevel(effort)
			if err != nil {
				return fmt.Errorf("effort: %w", err)
			}
			impactLevel, err := domain.ParseLevel(impact)
			if err != nil {
				return fmt.Errorf("impact: %w", err)
			}

			outcome, err := app.service.Place(cmd.Context(), application.PlaceCommand{
				ID:     domain.QuestionnaireID(args[0]),
				ItemID: domain.ItemID(itemID),
				Effort: effortLevel,
				Impact: impactLevel,
			})
			if err != nil {
				return err
			}

			writeMatrixOutcome(cmd.OutOrStdout(), outcome, domain.ItemID(itemID))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Item ID")
	cmd.Flags().StringVar(&effort, "effort", "", "Effort level (low or high)")
	cmd.Flags().StringVar(&impact, "impact", "", "Impact level (low or high)")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("effort")
	_ = cmd.MarkFlagRequired("impact")

	return cmd
}

func newMatrixRemoveCmd(app *app) *cobra.Command {
	var itemID string

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Take an item out of the matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := app.service.Remove(cmd.Context(), application.RemoveCommand{
				ID:     domain.QuestionnaireID(args[0]),
				ItemID: domain.ItemID(itemID),
			})
			if err != nil {
				return err
			}

			writeMatrixOutcome(cmd.OutOrStdout(), outcome, domain.ItemID(itemID))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Item ID")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func writeMatrixOutcome(w io.Writer, outcome application.Outcome, itemID domain.ItemID) {
	q := outcome.Questionnaire
	name := sanitizeForTerminal(string(itemID))
	unplaced := len(q.Matrix.UnplacedItems(q.Placements))

	where := "unplaced"
	if position, ok := q.Placements[itemID]; ok {
		where = position.Name()
	}

	if !outcome.Changed {
		_, _ = fmt.Fprintf(w, "No change for %s: %s (%d items unplaced)\n", name, where, unplaced)
		return
	}

	_, _ = fmt.Fprintf(w, "%s: %s (%d items unplaced)\n", name, where, unplaced)
}
