package cli

import (
	"context"
	"fmt"

	"github.com/chazu/zonelabel/pkg/classify"
	"github.com/chazu/zonelabel/pkg/zone"
	"github.com/spf13/cobra"
)

type runFlags struct {
	phase   string
	param   string
	dryRun  bool
	workers int
	noPrune bool
	results bool
}

func newRunCommand(a *app) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <scene>",
		Short: "Label phase elements with the scope box containing them",
		Long: `Load a scene, collect the conduits, conduit fittings and electrical
fixtures created in the configured phase, and write the name of the first
scope box containing each element's midpoint into the configured parameter.

All writes happen in one transaction. Elements outside every scope box are
counted as unwritten; elements whose parameter is missing or read-only are
skipped.

Examples:
  zonelabel run site.yaml
  zonelabel run site.zl --phase Lighting --param Zone
  zonelabel run site.jsonc --dry-run --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				flags.workers = a.cfg.Workers
			}
			return runRun(cmd.Context(), a, cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.phase, "phase", "", "Phase to label (default from config)")
	cmd.Flags().StringVar(&flags.param, "param", "", "Parameter to write (default from config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Classify and report without committing writes")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Planning goroutines (default from config)")
	cmd.Flags().BoolVar(&flags.noPrune, "no-prune", false, "Test every zone instead of using the spatial index")
	cmd.Flags().BoolVar(&flags.results, "results", false, "List every element with its label and status")

	return cmd
}

func runRun(ctx context.Context, a *app, cmd *cobra.Command, path string, flags *runFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	phase := orDefault(flags.phase, a.cfg.Phase)
	param := orDefault(flags.param, a.cfg.Param)

	doc, err := a.loadDocument(ctx, path)
	if err != nil {
		return err
	}
	s := a.sceneFor(doc, phase)
	if len(s.Elements) == 0 {
		return NewCLIError(ExitCancelled, fmt.Sprintf("No elements found in phase '%s'.", phase))
	}
	if len(s.Zones) == 0 {
		return NewCLIError(ExitCancelled, fmt.Sprintf("No %s found. Nothing to map %s from.", a.cfg.ZoneCategory, param))
	}

	indexOps := a.indexOptions()
	if flags.noPrune {
		indexOps = append(indexOps, zone.WithoutPruning())
	}
	log := a.logFor("classify")
	c := classify.New(classify.Options{
		Workers:      flags.workers,
		IndexOptions: indexOps,
		Logger:       &log,
	})

	tx := doc.Begin(a.cfg.Transaction, param)
	defer tx.Rollback()

	report, err := c.Run(ctx, s.Elements, s.Zones, tx)
	if err != nil {
		return WrapCLIError(ExitInvalidScene, "classification aborted, nothing written", err)
	}
	if !flags.dryRun {
		if err := tx.Commit(); err != nil {
			return WrapCLIError(ExitGeneralError, "commit labels", err)
		}
		a.log.Debug().Str("transaction", tx.Name()).Int("written", report.Written()).Msg("committed")
	}

	view := newReportView(report, phase, param, a.cfg.ZoneCategory, flags.dryRun)
	out := cmd.OutOrStdout()
	if a.jsonOutput {
		return renderJSON(out, view, flags.results)
	}
	return renderText(out, view, flags.results)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
