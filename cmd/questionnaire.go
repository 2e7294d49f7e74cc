package cmd

import (
	"encoding/json"
	"fmt"

	summaryadapter "github.com/bnema/bip-questionnaire/internal/adapters/render/summary"
	"github.com/bnema/bip-questionnaire/internal/adapters/tui"
	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/bnema/bip-questionnaire/internal/termtext"
	"github.com/spf13/cobra"
)

func newNewCmd(app *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a questionnaire from a YAML definition",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := app.service.CreateFromFile(cmd.Context(), file)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s questionnaire %s\n", q.Kind, q.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the questionnaire definition (YAML)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questionnaires",
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := app.service.List(cmd.Context())
			if err != nil {
				return err
			}

			summaries := make([]application.Summary, 0, len(all))
			for _, q := range all {
				summaries = append(summaries, application.Summarize(q))
			}

			return writeSummaries(cmd, app, summaries, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON")

	return cmd
}

func newShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a questionnaire with its current answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.service.Summary(cmd.Context(), domain.QuestionnaireID(args[0]))
			if err != nil {
				return err
			}

			return writeSummaries(cmd, app, []application.Summary{summary}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

func newDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a questionnaire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.Delete(cmd.Context(), domain.QuestionnaireID(args[0])); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted questionnaire %s\n", sanitizeForTerminal(args[0]))
			return nil
		},
	}
}

func newPlayCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Answer a questionnaire interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := app.service.Get(cmd.Context(), domain.QuestionnaireID(args[0]))
			if err != nil {
				return err
			}
			if q.Submitted() {
				return fmt.Errorf("%w: %s", domain.ErrQuestionnaireSubmitted, q.ID)
			}

			final, err := tui.Run(cmd.Context(), app.service, q, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if final.IsComplete() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nReady to submit: bipq submit %s\n", final.ID)
			}
			return nil
		},
	}
}

func writeSummaries(cmd *cobra.Command, app *app, summaries []application.Summary, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	rendered, err := app.summaryRenderer(summaries, summaryadapter.RenderOptions{})
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func sanitizeForTerminal(value string) string {
	return termtext.Sanitize(value)
}
