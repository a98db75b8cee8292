package main

import (
	"flag"
	"fmt"

	"docdex/internal/config"
	"docdex/internal/index"
	"docdex/internal/search"
	"docdex/internal/store"
)

func runFind(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	var ids, modules stringList
	maxResults := fs.Int("n", cfg.Search.MaxResults, "maximum number of results")
	fs.IntVar(maxResults, "max", cfg.Search.MaxResults, "maximum number of results")
	exact := fs.Bool("e", false, "exact title match instead of substring")
	fs.BoolVar(exact, "exact", false, "exact title match instead of substring")
	includePath := fs.Bool("include-path", false, "also match against rel_path")
	rangeFlag := fs.String("r", "", "numeric id range MIN-MAX (either side optional)")
	fs.StringVar(rangeFlag, "range", "", "numeric id range MIN-MAX (either side optional)")
	fs.Var(&ids, "i", "explicit id list (repeatable, comma-splittable)")
	fs.Var(&ids, "ids", "explicit id list (repeatable, comma-splittable)")
	fs.Var(&modules, "m", "search the title index, restricted to matching modules (repeatable)")
	fs.Var(&modules, "module", "search the title index, restricted to matching modules (repeatable)")
	rank := fs.Bool("rank", false, "order by token-overlap relevance instead of first-N (not combinable with -m)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		return fatalf("Usage: docdex find <text> [-n MAX] [-e] [--include-path] [-r MIN-MAX] [-i IDS] [-m MODULE] [--rank]")
	}
	if len(modules) > 0 && *rank {
		return fatalf("--rank cannot be combined with -m: ranked mode runs over the sidecar index, which carries no module names")
	}
	text := fs.Arg(0)

	q := search.TitleQuery{
		Text:        text,
		Exact:       *exact,
		IncludePath: *includePath,
		Max:         *maxResults,
	}
	if *rangeFlag != "" {
		minID, maxID, err := parseRange(*rangeFlag)
		if err != nil {
			return fatalf("Bad --range: %v", err)
		}
		q.Filter.IDMin, q.Filter.IDMax = minID, maxID
	}
	q.Filter.IDs = ids

	// Module-scoped searches go through the flat title index, which carries
	// the module name the sidecar index does not.
	if len(modules) > 0 {
		entries, err := index.LoadTitles(cfg.Docs.Titles)
		if err != nil {
			return fatalf("Failed to load title index: %v (run `docdex titles` first)", err)
		}
		hits := search.TitleIndex(entries, q, modules)
		if len(hits) == 0 {
			fmt.Println("No matches found.")
			return 0
		}
		for _, e := range hits {
			fmt.Printf("%s  [%s]  %s\n", e.ID, e.Module, e.Title)
		}
		return 0
	}

	st := store.New(cfg.Docs.Corpus)

	if *rank {
		ranked, err := search.Rank(st, text, *maxResults, q.Filter)
		if err != nil {
			return fatalf("Search failed: %v", err)
		}
		if len(ranked) == 0 {
			fmt.Println("No matches found.")
			return 0
		}
		for _, r := range ranked {
			fmt.Printf("%.3f  %s  %s\n", r.Score, r.Meta.ID, r.Meta.Title)
			if rec, err := st.GetDoc(r.Meta.ID); err == nil && rec != nil {
				if snip := search.Snippet(rec.Body(), text, 1); snip != "" {
					fmt.Printf("       %s\n", snip)
				}
			}
		}
		return 0
	}

	hits, err := search.Titles(st, q)
	if err != nil {
		return fatalf("Search failed: %v", err)
	}
	if len(hits) == 0 {
		fmt.Println("No matches found.")
		return 0
	}
	for _, m := range hits {
		fmt.Printf("%s  %s  (%s)\n", m.ID, m.Title, m.RelPath)
	}
	return 0
}

func runSearch(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	var modules stringList
	maxResults := fs.Int("n", cfg.Search.MaxResults, "maximum number of results")
	fs.IntVar(maxResults, "max", cfg.Search.MaxResults, "maximum number of results")
	fs.Var(&modules, "m", "search the per-module files of matching modules instead of the main corpus (repeatable)")
	fs.Var(&modules, "module", "search the per-module files of matching modules instead of the main corpus (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		return fatalf("Usage: docdex search <regex> [-n MAX] [-m MODULE]...")
	}

	var matches []search.ContentMatch
	var err error
	if len(modules) > 0 {
		matches, err = search.ContentInModules(cfg.Docs.Manifest, modules, fs.Arg(0), *maxResults)
	} else {
		matches, err = search.Content(cfg.Docs.Corpus, fs.Arg(0), *maxResults)
	}
	if err != nil {
		return fatalf("Search failed: %v", err)
	}
	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return 0
	}
	for _, m := range matches {
		fmt.Printf("%s  %s\n", m.ID, m.Title)
	}
	return 0
}

func runProps(cfg *config.AppConfig, args []string) int {
	fs := flag.NewFlagSet("props", flag.ContinueOnError)
	maxResults := fs.Int("n", cfg.Search.MaxResults, "maximum number of results")
	fs.IntVar(maxResults, "max", cfg.Search.MaxResults, "maximum number of results")
	exact := fs.Bool("e", false, "exact property name match instead of substring")
	fs.BoolVar(exact, "exact", false, "exact property name match instead of substring")
	bo := fs.String("bo", "", "business object title substring filter")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	var name string
	if fs.NArg() > 0 {
		name = fs.Arg(0)
	}
	if name == "" && *bo == "" {
		return fatalf("Usage: docdex props <name> [-n MAX] [-e] [--bo TITLE]")
	}

	props, err := search.LoadProperties(cfg.Docs.Properties)
	if err != nil {
		return fatalf("Failed to load property index: %v", err)
	}

	hits := search.Properties(props, search.PropertyQuery{
		Name:    name,
		Exact:   *exact,
		BOTitle: *bo,
		Max:     *maxResults,
	})
	if len(hits) == 0 {
		fmt.Println("No matches found.")
		return 0
	}
	for _, p := range hits {
		fmt.Printf("%-30s %-12s %-12s %s\n", p.Name, p.Type, p.DataType, p.BOTitle)
	}
	return 0
}
