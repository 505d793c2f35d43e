package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/zone"
	"github.com/spf13/cobra"
)

func newLocateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <scene> <x> <y> <z>",
		Short: "Print the scope box label for a point",
		Long: `Print the label of the first scope box, in document order, that contains
the point. Prints "-" when no box contains it.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var xyz [3]float64
			for i, s := range args[1:] {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return WrapCLIError(ExitGeneralError, fmt.Sprintf("invalid coordinate %q", s), err)
				}
				xyz[i] = f
			}
			p := geom.Point3{X: xyz[0], Y: xyz[1], Z: xyz[2]}

			doc, err := a.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			zones := doc.ScopeZones(a.cfg.ZoneCategory)
			idx, err := zone.NewIndex(zones, a.indexOptions()...)
			if err != nil {
				return WrapCLIError(ExitInvalidScene, "build zone index", err)
			}

			i, found := idx.Match(p)
			label := ""
			if found {
				label = zones[i].Label
			} else {
				i = -1
			}
			a.log.Debug().Int("zones", idx.Len()).Bool("pruned", idx.Pruned()).Bool("found", found).Msg("located point")

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Point geom.Point3 `json:"point"`
					Found bool        `json:"found"`
					Zone  int         `json:"zone"`
					Label string      `json:"label,omitempty"`
				}{p, found, i, label})
			}
			if !found {
				label = "-"
			}
			_, err = fmt.Fprintln(out, label)
			return err
		},
	}
	// Coordinates may be negative; stop flag parsing at the first
	// positional so "-1" is not read as a shorthand flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
