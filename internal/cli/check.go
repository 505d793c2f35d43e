package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	phase string
}

// finding is one validation result in JSON output.
type finding struct {
	Severity string `json:"severity"`
	Subject  string `json:"subject,omitempty"`
	Message  string `json:"message"`
}

func newCheckCommand(a *app) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <scene>",
		Short: "Report problems that would abort or surprise a run",
		Long: `Validate the scope boxes and phase elements of a scene without writing
anything. Errors (empty labels, inverted boxes, non-invertible transforms,
duplicate ids) would abort a run; warnings (overlapping boxes, repeated
labels, elements with no geometry) only affect which label wins.

Exits with status 3 when any error is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			phase := orDefault(flags.phase, a.cfg.Phase)
			result := scene.ValidateAll(a.sceneFor(doc, phase))

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				err = renderFindingsJSON(out, result)
			} else {
				err = renderFindingsText(out, result)
			}
			if err != nil {
				return err
			}
			if !result.OK() {
				return NewCLIError(ExitInvalidScene, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.phase, "phase", "", "Phase to check (default from config)")
	return cmd
}

func findings(r scene.ValidationResult) []finding {
	out := make([]finding, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		out = append(out, finding{Severity: e.Severity.String(), Subject: e.Subject, Message: e.Message})
	}
	for _, w := range r.Warnings {
		out = append(out, finding{Severity: scene.SeverityWarning.String(), Subject: w.Subject, Message: w.Message})
	}
	return out
}

func renderFindingsText(w io.Writer, r scene.ValidationResult) error {
	for _, f := range findings(r) {
		subject := f.Subject
		if subject != "" {
			subject += ": "
		}
		if _, err := fmt.Fprintf(w, "%-7s %s%s\n", f.Severity, subject, f.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", len(r.Errors), len(r.Warnings))
	return err
}

func renderFindingsJSON(w io.Writer, r scene.ValidationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		OK       bool      `json:"ok"`
		Findings []finding `json:"findings"`
	}{r.OK(), findings(r)})
}
