package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"docdex/internal/config"
	"docdex/internal/logging"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./docdex.yaml or ~/.config/docdex/config.yaml if not provided)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Init(logging.Config{Dir: cfg.Logging.Dir, Level: cfg.Logging.Level})

	command, rest := args[0], args[1:]
	switch command {
	case "index":
		os.Exit(runIndex(cfg, rest))
	case "titles":
		os.Exit(runTitles(cfg, rest))
	case "modules":
		os.Exit(runModules(cfg, rest))
	case "read":
		os.Exit(runRead(cfg, rest))
	case "find":
		os.Exit(runFind(cfg, rest))
	case "search":
		os.Exit(runSearch(cfg, rest))
	case "props":
		os.Exit(runProps(cfg, rest))
	case "browse":
		os.Exit(runBrowse(cfg, rest))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("docdex - documentation corpus index and search toolset")
	fmt.Println("Usage:")
	fmt.Println("  docdex [--config path] <command> [flags] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  index   [corpus.jsonl]                 build the byte-offset sidecar index")
	fmt.Println("  titles  [manifest.json]                build titles.json across all modules")
	fmt.Println("  modules                                list manifest modules with record counts")
	fmt.Println("  read    <id|path|title> [-m MOD]...    print one record's body")
	fmt.Println("  find    <text>                         search record titles")
	fmt.Println("  search  <regex> [-m MOD]...            regex search over raw record bodies")
	fmt.Println("  props   <name>                         search the flattened property index")
	fmt.Println("  browse                                 interactive title browser")
}

func fatalf(format string, a ...any) int {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	return 1
}
