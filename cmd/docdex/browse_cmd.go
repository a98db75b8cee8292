package main

import (
	"flag"

	tea "github.com/charmbracelet/bubbletea"

	"docdex/internal/config"
	"docdex/internal/index"
	"docdex/internal/store"
	"docdex/internal/tui"
)

func runBrowse(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	entries, err := index.LoadTitles(cfg.Docs.Titles)
	if err != nil {
		return fatalf("Failed to load title index: %v (run `docdex titles` first)", err)
	}

	st := store.New(cfg.Docs.Corpus)
	m := tui.New(st, entries)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fatalf("Browser failed: %v", err)
	}
	return 0
}
