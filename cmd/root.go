// Package cmd implements the notnow CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// envDir overrides the data directory lookup.
const envDir = "NOTNOW_DIR"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "notnow",
	Short: "A terminal task list for things that can wait",
	Long: `notnow keeps a list of pending tasks and a list of completed ones.
Run notnow without arguments to open the interactive UI, or use the
subcommands to script it.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" || !output.ColorSupported(os.Stdout) {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the notnow data directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// reportError prints err for the active output format and returns the exit
// code. SilentErrors print nothing; their output was already written.
func reportError(stdout, stderr io.Writer, err error) int {
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	if outputFormat() == output.FormatJSON {
		output.JSONError(stdout, err)
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}

	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return 2 //nolint:mnd // exit code 2 for internal errors
}

// resolveDir returns the data directory: --dir, then NOTNOW_DIR, then a
// .notnow directory found walking up from the working directory, then
// ~/.config/notnow.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if dir := os.Getenv(envDir); dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}

	return config.HomeDir()
}

// loadConfig finds and loads the config. The per-user home store is
// created on first use; any other missing store is an error.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, configError(err)
	}

	homeDir, homeErr := config.HomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.Newf(clierr.StoreNotFound,
			"no notnow store in %s (run 'notnow init' to create one)", dir).
			WithDetails(map[string]any{"dir": dir})
	}

	return config.InitDefault(homeDir, "notnow")
}

// configError maps validation failures to INVALID_INPUT.
func configError(err error) error {
	if errors.Is(err, config.ErrInvalid) {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	return err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}
