package search

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"

	"docdex/internal/index"
	"docdex/internal/logging"
)

var (
	idFieldRe    = regexp.MustCompile(`"id"\s*:\s*"([^"]*)"`)
	titleFieldRe = regexp.MustCompile(`"title"\s*:\s*"([^"]*)"`)
)

// ContentMatch is one record whose raw corpus line matched a content search.
// ID and title are pulled out of the raw line with field regexes; the full
// record is not parsed.
type ContentMatch struct {
	ID    string
	Title string
}

// Content runs a case-insensitive regex search over the raw corpus,
// delegating to ripgrep when it is on PATH and falling back to an in-process
// line scan otherwise. Matches are deduplicated by id as they stream in: the
// first occurrence wins and order is preserved. max caps the number of
// distinct records.
func Content(corpusPath, pattern string, max int) ([]ContentMatch, error) {
	if _, err := compilePattern(pattern); err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	if rg, err := exec.LookPath("rg"); err == nil {
		matches, err := contentRipgrep(rg, corpusPath, pattern, max)
		if err == nil {
			return matches, nil
		}
		logging.ForComponent("search").Warn("ripgrep failed, falling back", "error", err)
	}
	return contentScan(corpusPath, pattern, max)
}

// ContentInModules runs the same case-insensitive regex over the per-module
// corpus files named by the manifest, restricted to modules whose name
// contains one of the patterns. Raw lines are matched, so title, rel_path and
// body fields all count. Missing module files are skipped; dedupe and cap
// semantics match Content.
func ContentInModules(manifestPath string, modulePatterns []string, pattern string, max int) ([]ContentMatch, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	m, err := index.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var matches []ContentMatch
	for _, mod := range index.FilterModules(m, modulePatterns) {
		var full bool
		matches, full, err = scanFile(index.ModuleFile(manifestPath, mod), re, seen, matches, max)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("module %s: %w", mod.Module, err)
		}
		if full {
			break
		}
	}
	return matches, nil
}

// compilePattern compiles a user pattern case-insensitively, matching what
// ripgrep is invoked with.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

func contentRipgrep(rg, corpusPath, pattern string, max int) ([]ContentMatch, error) {
	cmd := exec.Command(rg, "-i", "--no-filename", "--no-line-number", "-e", pattern, "--", corpusPath)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	matches, full := collectMatches(stdout, max)
	if !full {
		if err := cmd.Wait(); err != nil {
			// Exit code 1 means no matches, which is a normal outcome.
			if ee, ok := err.(*exec.ExitError); !ok || ee.ExitCode() != 1 {
				return nil, err
			}
		}
		return matches, nil
	}
	// Cap reached mid-stream; stop ripgrep instead of draining the rest.
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	return matches, nil
}

func contentScan(corpusPath, pattern string, max int) ([]ContentMatch, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	matches, _, err := scanFile(corpusPath, re, make(map[string]struct{}), nil, max)
	if err != nil {
		return matches, fmt.Errorf("scan corpus: %w", err)
	}
	return matches, nil
}

// scanFile appends deduplicated matches from one corpus file. The second
// return reports whether the cap cut the scan short.
func scanFile(path string, re *regexp.Regexp, seen map[string]struct{}, matches []ContentMatch, max int) ([]ContentMatch, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return matches, false, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 && re.Match(line) {
			if m, ok := matchFromLine(line, seen); ok {
				matches = append(matches, m)
				if max > 0 && len(matches) >= max {
					return matches, true, nil
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return matches, false, nil
			}
			return matches, false, readErr
		}
	}
}

// collectMatches reads matched lines from a stream until EOF or the cap.
// The second return reports whether the cap cut the stream short.
func collectMatches(rd io.Reader, max int) ([]ContentMatch, bool) {
	var matches []ContentMatch
	seen := make(map[string]struct{})
	r := bufio.NewReaderSize(rd, 1<<20)
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			if m, ok := matchFromLine(line, seen); ok {
				matches = append(matches, m)
				if max > 0 && len(matches) >= max {
					return matches, true
				}
			}
		}
		if readErr != nil {
			return matches, false
		}
	}
}

func matchFromLine(line []byte, seen map[string]struct{}) (ContentMatch, bool) {
	idm := idFieldRe.FindSubmatch(line)
	if idm == nil {
		return ContentMatch{}, false
	}
	id := string(idm[1])
	if _, dup := seen[id]; dup {
		return ContentMatch{}, false
	}
	seen[id] = struct{}{}
	m := ContentMatch{ID: id}
	if tm := titleFieldRe.FindSubmatch(line); tm != nil {
		m.Title = string(tm[1])
	}
	return m, true
}
