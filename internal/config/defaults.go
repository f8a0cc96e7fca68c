// Package config handles notnow data directory configuration.
package config

import (
	"github.com/twiced-technology-gmbh/notnow/internal/codec"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/stamp"
	"github.com/twiced-technology-gmbh/notnow/internal/store"
)

const (
	// DefaultDir is the default data directory name.
	DefaultDir = ".notnow"
	// HomeDirName is the fallback data directory below the user config dir.
	HomeDirName = ".config/notnow"

	// DefaultBackend is the persistence backend for new stores.
	DefaultBackend = string(kv.BackendFile)
	// DefaultFormat is the list encoding for new stores.
	DefaultFormat = string(codec.JSON)
	// DefaultStampLayout is the completion stamp layout.
	DefaultStampLayout = stamp.DefaultLayout

	// DefaultPendingKey and DefaultCompletedKey name the persisted lists.
	DefaultPendingKey   = store.DefaultPendingKey
	DefaultCompletedKey = store.DefaultCompletedKey

	// DefaultTheme is the TUI theme.
	DefaultTheme = ThemeDark
	// DefaultDescriptionLines is the number of description lines shown per
	// task in the TUI list.
	DefaultDescriptionLines = 1

	// ConfigFileName is the name of the config file within the data directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// TUI themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Themes lists the accepted tui.theme values.
func Themes() []string {
	return []string{ThemeDark, ThemeLight}
}
