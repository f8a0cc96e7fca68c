package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/codec"
	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new notnow store",
	Long: `Creates a .notnow directory with config.yml in the current directory
(or --dir). Commands run below that directory use it automatically.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "store name (defaults to current directory name)")
	initCmd.Flags().String("backend", config.DefaultBackend, "persistence backend (file, sqlite)")
	initCmd.Flags().String("format", config.DefaultFormat, "list encoding (json, yaml, toml)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = os.Getenv(envDir)
	}
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.StoreAlreadyExists, "store already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)
	cfg.Backend, _ = cmd.Flags().GetString("backend")
	format, _ := cmd.Flags().GetString("format")
	f, err := codec.Parse(format)
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	cfg.Format = string(f)

	if err := config.Init(cfg); err != nil {
		return configError(err)
	}

	// Create the backend's files up front so a bad backend fails here.
	backend, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("creating %s backend: %w", cfg.Backend, err)
	}
	_ = backend.Close()

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"backend": cfg.Backend,
			"format":  cfg.Format,
		})
	}

	output.Messagef(os.Stdout, "Initialized store %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Backend: %s (%s)", cfg.Backend, cfg.Format)
	return nil
}
