package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"docdex/internal/config"
	"docdex/internal/domain"
	"docdex/internal/logging"
	"docdex/internal/search"
	"docdex/internal/store"
	"docdex/internal/summarize"
)

// runRead resolves a target first as an id through the sidecar index, then
// as a rel_path suffix, then as an exact title scanned across the manifest
// modules. A miss exits 1: not finding the target is this tool's primary
// failure mode.
func runRead(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	var modules stringList
	fs.Var(&modules, "m", "module name or substring to restrict the title scan (repeatable)")
	fs.Var(&modules, "module", "module name or substring to restrict the title scan (repeatable)")
	summary := fs.Bool("summary", false, "print a frequency-ranked sentence summary instead of the full body")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		return fatalf("Usage: docdex read <id|rel_path|exact title> [-m MODULE]... [--summary]")
	}
	target := fs.Arg(0)
	log := logging.ForComponent("read")

	rec, err := resolveTarget(cfg, target, modules)
	if err != nil {
		return fatalf("Read failed: %v", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "Could not find record %q.\n", target)
		return 1
	}
	log.Debug("record resolved", "id", rec.ID, "title", rec.Title)

	printRecord(rec, *summary)
	return 0
}

func resolveTarget(cfg *config.AppConfig, target string, modules stringList) (*domain.Record, error) {
	st := store.New(cfg.Docs.Corpus)

	rec, err := st.GetDoc(target)
	if err != nil && !errors.Is(err, store.ErrNoIndex) {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	if err == nil {
		rec, err = st.FindByPath(target)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}

	// Fall back to an exact id/title scan over the per-module files. This
	// also covers setups that only have module docs and no main corpus.
	rec, err = search.FindInModules(cfg.Docs.Manifest, modules, target)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return rec, nil
}

func printRecord(rec *domain.Record, summary bool) {
	fmt.Printf("%s  %s\n", rec.ID, rec.Title)
	if rec.Module != "" {
		fmt.Printf("module: %s\n", rec.Module)
	}
	if rec.RelPath != "" {
		fmt.Printf("path:   %s\n", rec.RelPath)
	}
	fmt.Println()

	body := rec.Body()
	if body == "" {
		fmt.Println("(record has no body text)")
		return
	}
	if summary {
		fmt.Println(summarize.NewFrequencySummarizer().Summarize(body, 5))
		return
	}
	fmt.Println(body)
	if len(rec.Properties) > 0 {
		fmt.Printf("\nProperties (%d):\n", len(rec.Properties))
		for _, p := range rec.Properties {
			fmt.Printf("  %-30s %-12s %-12s %s\n", p.Name, p.Type, p.DataType, p.BOTitle)
		}
	}
}
