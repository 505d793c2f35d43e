package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/zonelabel/pkg/kernel"
	"github.com/chazu/zonelabel/pkg/kernel/sdfx"
	"github.com/chazu/zonelabel/pkg/tessellate"
	"github.com/spf13/cobra"
)

const (
	exportSTL  = "stl"
	exportJSON = "json"
)

type exportFlags struct {
	output   string
	format   string
	cells    int
	elements bool
	phase    string
	workers  int
}

func newExportCommand(a *app) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <scene>",
		Short: "Mesh scope boxes for preview",
		Long: `Tessellate every scope box, and optionally a marker at each phase
element's midpoint, and write the meshes as binary STL or JSON.

The format defaults from the output extension, then to STL. Without
--output the meshes go to stdout.

Examples:
  zonelabel export site.yaml -o zones.stl
  zonelabel export site.zl --elements --format json > zones.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				flags.workers = a.cfg.Workers
			}
			return runExport(cmd.Context(), a, cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Mesh format: stl or json")
	cmd.Flags().IntVar(&flags.cells, "cells", sdfx.DefaultMeshCells, "Marching cubes cells along the longest axis")
	cmd.Flags().BoolVar(&flags.elements, "elements", false, "Add a marker cube per phase element")
	cmd.Flags().StringVar(&flags.phase, "phase", "", "Phase for element markers (default from config)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Meshing goroutines (default from config)")

	return cmd
}

func exportFormat(flag, output string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		if strings.EqualFold(filepath.Ext(output), ".json") {
			return exportJSON, nil
		}
		return exportSTL, nil
	}
	if f != exportSTL && f != exportJSON {
		return "", NewCLIError(ExitGeneralError, fmt.Sprintf("unknown export format %q (want stl or json)", flag))
	}
	return f, nil
}

func runExport(ctx context.Context, a *app, cmd *cobra.Command, path string, flags *exportFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := exportFormat(flags.format, flags.output)
	if err != nil {
		return err
	}
	if flags.cells < 1 {
		return NewCLIError(ExitGeneralError, fmt.Sprintf("--cells must be positive, got %d", flags.cells))
	}

	doc, err := a.loadDocument(ctx, path)
	if err != nil {
		return err
	}
	phase := flags.phase
	if phase == "" {
		phase = a.cfg.Phase
	}
	sc := a.sceneFor(doc, phase)

	meshes, err := tessellate.Tessellate(ctx, sc, sdfx.NewWithCells(flags.cells), tessellate.Options{
		Elements: flags.elements,
		Workers:  flags.workers,
	})
	if err != nil {
		if ctx.Err() != nil {
			return WrapCLIError(ExitCancelled, "export cancelled", err)
		}
		return WrapCLIError(ExitInvalidScene, "export aborted", err)
	}

	triangles := 0
	for _, m := range meshes {
		triangles += m.TriangleCount()
	}
	log := a.logFor("tessellate")
	log.Debug().Int("meshes", len(meshes)).Int("triangles", triangles).Int("cells", flags.cells).Str("format", format).Msg("tessellated scene")

	if flags.output == "" {
		if err := writeMeshes(cmd.OutOrStdout(), format, path, meshes); err != nil {
			return WrapCLIError(ExitGeneralError, "write meshes", err)
		}
		return nil
	}

	f, err := os.Create(flags.output)
	if err != nil {
		return WrapCLIError(ExitGeneralError, "create output", err)
	}
	err = writeMeshes(f, format, path, meshes)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return WrapCLIError(ExitGeneralError, "write meshes", err)
	}

	out := cmd.OutOrStdout()
	if a.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Output    string `json:"output"`
			Format    string `json:"format"`
			Meshes    int    `json:"meshes"`
			Triangles int    `json:"triangles"`
		}{flags.output, format, len(meshes), triangles})
	}
	noun := "meshes"
	if len(meshes) == 1 {
		noun = "mesh"
	}
	_, err = fmt.Fprintf(out, "Wrote %d %s (%d triangles) to %s\n", len(meshes), noun, triangles, flags.output)
	return err
}

func writeMeshes(w io.Writer, format, scenePath string, meshes []*kernel.Mesh) error {
	name := filepath.Base(scenePath)
	if format == exportJSON {
		return json.NewEncoder(w).Encode(struct {
			Scene  string         `json:"scene"`
			Meshes []*kernel.Mesh `json:"meshes"`
		}{name, meshes})
	}
	return kernel.WriteSTL(w, "zonelabel "+name, meshes)
}
