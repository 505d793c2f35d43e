// Package cli implements the zonelabel command line: run a labeling pass
// over a scene, check a scene for problems, locate a single point, or
// export scope box meshes.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/zonelabel/internal/config"
	"github.com/chazu/zonelabel/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version, Commit and Date are set from main at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// app holds global flag values and what PersistentPreRunE derives from
// them. Subcommands share one app.
type app struct {
	jsonOutput bool
	verbose    bool
	configPath string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "zonelabel",
		Short: "Label elements by the scope box that contains them",
		Long: `zonelabel assigns each conduit, conduit fitting and electrical fixture in a
phase the name of the first scope box containing its midpoint, writes it to
an element parameter, and reports what was written and what fell outside
every box.

Scenes are YAML or JSON documents (.yaml, .yml, .json, .jsonc) or scene
scripts (.zl).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: search "+config.ConfigFileName+" and XDG paths)")

	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newLocateCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(logOut io.Writer) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return WrapCLIError(ExitConfig, "load config", err)
	}
	a.cfg = cfg

	opts := cfg.LoggerOptions()
	opts.Writer = logOut
	if a.verbose {
		opts.Level = "debug"
	}
	a.log = logger.New(opts)
	if path != "" {
		a.log.Debug().Str("path", path).Msg("loaded config")
	}
	return nil
}

// Execute runs rootCmd and exits with the code carried by its error.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("json")
	printError(os.Stderr, jsonOut, err)

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		os.Exit(int(cliErr.Code))
	}
	os.Exit(int(ExitGeneralError))
}

// printError writes err as text or as a JSON error object.
func printError(w io.Writer, jsonOut bool, err error) {
	message, detail := err.Error(), ""
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		if cliErr.Err != nil {
			detail = cliErr.Err.Error()
		}
	}

	if jsonOut {
		obj := map[string]any{"message": message}
		if detail != "" {
			obj["detail"] = detail
		}
		if cliErr != nil {
			obj["code"] = int(cliErr.Code)
		}
		data, _ := json.MarshalIndent(map[string]any{"error": obj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	prefix := "Error"
	if cliErr != nil && cliErr.Code == ExitCancelled {
		prefix = "Cancelled"
	}
	if detail != "" {
		fmt.Fprintf(w, "%s: %s: %s\n", prefix, message, detail)
	} else {
		fmt.Fprintf(w, "%s: %s\n", prefix, message)
	}
}
