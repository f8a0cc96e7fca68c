package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
	"github.com/twiced-technology-gmbh/notnow/internal/stamp"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify store configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

// configAccessors returns the accessor for every key. backend, format and
// keys are fixed at init because changing them would orphan stored lists.
func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"name": {
			get:      func(c *config.Config) any { return c.Name },
			set:      func(c *config.Config, v string) error { c.Name = v; return nil },
			writable: true,
		},
		"backend": {
			get: func(c *config.Config) any { return c.Backend },
		},
		"format": {
			get: func(c *config.Config) any { return c.Format },
		},
		"keys.pending": {
			get: func(c *config.Config) any { return c.Keys.Pending },
		},
		"keys.completed": {
			get: func(c *config.Config) any { return c.Keys.Completed },
		},
		"stamp_layout": {
			get: func(c *config.Config) any { return c.Layout() },
			set: func(c *config.Config, v string) error {
				if err := stamp.ValidateLayout(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid stamp_layout: %v", err)
				}
				c.StampLayout = v
				return nil
			},
			writable: true,
		},
		"tui.theme": {
			get: func(c *config.Config) any { return c.Theme() },
			set: func(c *config.Config, v string) error {
				if !slices.Contains(config.Themes(), v) {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.theme %q; allowed: %s", v, strings.Join(config.Themes(), ", "))
				}
				c.TUI.Theme = v
				return nil
			},
			writable: true,
		},
		"tui.description_lines": {
			get: func(c *config.Config) any { return c.DescriptionLines() },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.description_lines %q: must be an integer", v)
				}
				c.TUI.DescriptionLines = n
				return nil // validation handles range check
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"dir",
		"name",
		"backend",
		"format",
		"keys.pending",
		"keys.completed",
		"stamp_layout",
		"tui.theme",
		"tui.description_lines",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-22s %v\n", key, accessors[key].get(cfg))
	}
	return nil
}

func lookupAccessor(key string) (configAccessor, error) {
	acc, ok := configAccessors()[key]
	if !ok {
		return configAccessor{}, clierr.Newf(clierr.InvalidConfigKey, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "keys": allConfigKeys()})
	}
	return acc, nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, err := lookupAccessor(args[0])
	if err != nil {
		return err
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, val)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, err := lookupAccessor(key)
	if err != nil {
		return err
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidConfigKey, "config key %q is read-only", key).
			WithDetails(map[string]any{"key": key})
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, acc.get(cfg))
	return nil
}
