package cmd

import (
	"context"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/tui"
	"github.com/twiced-technology-gmbh/notnow/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	sess, err := openSession(interactive)
	if err != nil {
		return err
	}
	defer sess.Close()

	cfg := sess.cfg
	model := tui.New(sess.store, tui.Options{
		Theme:            cfg.Theme(),
		DescriptionLines: cfg.DescriptionLines(),
		OnThemeChange:    func(theme string) { saveTheme(cfg, theme) },
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, cfg, p)

	_, err = p.Run()
	return err
}

// saveTheme remembers the toggled theme. Failing to save only loses the
// preference.
func saveTheme(cfg *config.Config, theme string) {
	cfg.TUI.Theme = theme
	_ = cfg.Save()
}

func startTUIWatcher(ctx context.Context, cfg *config.Config, p *tea.Program) {
	path, filter := watchTarget(cfg)
	w, err := watcher.New([]string{path}, func() {
		p.Send(tui.ReloadMsg{})
	}, watcher.WithFilter(filter))
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}

// watchTarget returns the directory holding the persisted lists and a
// filter matching the files the backend writes.
func watchTarget(cfg *config.Config) (string, watcher.Filter) {
	if kv.Backend(cfg.Backend) == kv.BackendSQLite {
		return cfg.Dir(), func(path string) bool {
			return strings.HasPrefix(filepath.Base(path), kv.SQLiteFileName)
		}
	}
	return filepath.Join(cfg.Dir(), kv.DataDirName), watcher.Visible
}
