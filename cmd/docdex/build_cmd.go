package main

import (
	"flag"
	"fmt"
	"sort"
	"time"

	"docdex/internal/config"
	"docdex/internal/index"
)

func runIndex(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	out := fs.String("out", "", "sidecar index path (default: <corpus>.index.json)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	corpus := cfg.Docs.Corpus
	if fs.NArg() > 0 {
		corpus = fs.Arg(0)
	}
	sidecar := *out
	if sidecar == "" {
		sidecar = index.SidecarPath(corpus)
	}

	start := time.Now()
	idx, err := index.Build(corpus)
	if err != nil {
		return fatalf("Indexing failed: %v", err)
	}
	if err := index.WriteIndex(sidecar, idx); err != nil {
		return fatalf("Failed to write index: %v", err)
	}
	fmt.Printf("Indexed %d records from %s -> %s in %v\n", len(idx), corpus, sidecar, time.Since(start).Round(time.Millisecond))
	return 0
}

func runTitles(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("titles", flag.ContinueOnError)
	out := fs.String("out", "", "title index path (default from config)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	manifest := cfg.Docs.Manifest
	if fs.NArg() > 0 {
		manifest = fs.Arg(0)
	}
	dest := *out
	if dest == "" {
		dest = cfg.Docs.Titles
	}

	entries, err := index.BuildTitles(manifest)
	if err != nil {
		return fatalf("Title index build failed: %v", err)
	}
	if err := index.WriteTitles(dest, entries); err != nil {
		return fatalf("Failed to write title index: %v", err)
	}
	fmt.Printf("Indexed %d titles -> %s\n", len(entries), dest)
	return 0
}

func runModules(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("modules", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	m, err := index.LoadManifest(cfg.Docs.Manifest)
	if err != nil {
		return fatalf("Failed to load manifest: %v (expected at %s)", err, cfg.Docs.Manifest)
	}

	mods := make([]string, 0, len(m.Modules))
	byName := map[string]int{}
	for _, mod := range m.Modules {
		mods = append(mods, mod.Module)
		byName[mod.Module] = mod.Records
	}
	sort.Strings(mods)

	fmt.Printf("Found %d modules:\n\n", len(mods))
	for _, name := range mods {
		fmt.Printf("%-35s (%d records)\n", name, byName[name])
	}
	return 0
}
