package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/bip-questionnaire/internal/application"
	"github.com/bnema/bip-questionnaire/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newSubmitCmd(app *app) *cobra.Command {
	return newSubmissionCmd(
		"submit <id>",
		"Submit the final answers once every rule is satisfied",
		app.service.Submit,
	)
}

func newExportCmd(app *app) *cobra.Command {
	return newSubmissionCmd(
		"export <id>",
		"Print the current answers without submitting",
		app.service.Export,
	)
}

func newSubmissionCmd(use, short string, produce func(context.Context, domain.QuestionnaireID) (application.Submission, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}

			sub, err := produce(cmd.Context(), domain.QuestionnaireID(args[0]))
			if err != nil {
				return err
			}

			return writeSubmission(cmd.OutOrStdout(), sub, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format (json or yaml)")

	return cmd
}

func writeSubmission(w io.Writer, sub application.Submission, format string) error {
	if format == formatYAML {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(sub); err != nil {
			return fmt.Errorf("encode submission: %w", err)
		}
		return encoder.Close()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sub); err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	return nil
}
