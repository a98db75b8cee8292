package search

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdex/internal/domain"
)

func writeRawCorpus(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	var data []byte
	for _, l := range lines {
		data = append(data, l...)
		data = append(data, '\n')
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestContentScan_MatchesAndExtractsFields(t *testing.T) {
	corpus := writeRawCorpus(t,
		`{"id": "DOC000001", "title": "Session Login", "content": "how to call login"}`,
		`{"id": "DOC000002", "title": "File Upload", "content": "upload a dataset"}`,
		`{"id": "DOC000003", "title": "Logout", "content": "login and logout pair"}`,
	)

	matches, err := contentScan(corpus, "login", 0)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, ContentMatch{ID: "DOC000001", Title: "Session Login"}, matches[0])
	assert.Equal(t, ContentMatch{ID: "DOC000003", Title: "Logout"}, matches[1])
}

func TestContentScan_DeduplicatesByIDFirstWins(t *testing.T) {
	corpus := writeRawCorpus(t,
		`{"id": "DOC000001", "title": "First", "content": "query query"}`,
		`{"id": "DOC000001", "title": "Second", "content": "query again"}`,
	)

	matches, err := contentScan(corpus, "query", 0)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "First", matches[0].Title)
}

func TestContentScan_CapStopsEarly(t *testing.T) {
	corpus := writeRawCorpus(t,
		`{"id": "DOC000001", "title": "A", "content": "term"}`,
		`{"id": "DOC000002", "title": "B", "content": "term"}`,
		`{"id": "DOC000003", "title": "C", "content": "term"}`,
	)

	matches, err := contentScan(corpus, "term", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestContentScan_SkipsLinesWithoutID(t *testing.T) {
	corpus := writeRawCorpus(t,
		`{"title": "No ID here", "content": "needle"}`,
		`{"id": "DOC000002", "title": "Has ID", "content": "needle"}`,
	)

	matches, err := contentScan(corpus, "needle", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "DOC000002", matches[0].ID)
}

func TestContent_InvalidPattern(t *testing.T) {
	corpus := writeRawCorpus(t, `{"id": "DOC000001", "title": "A", "content": "x"}`)
	_, err := Content(corpus, `[unclosed`, 5)
	assert.Error(t, err)
}

func TestContentScan_CaseInsensitive(t *testing.T) {
	corpus := writeRawCorpus(t,
		`{"id": "DOC000001", "title": "Session Login", "content": "how to call login"}`,
	)

	matches, err := contentScan(corpus, "LOGIN", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "DOC000001", matches[0].ID)

	matches, err = contentScan(corpus, "session", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestContent_RegexSemantics(t *testing.T) {
	corpus := writeRawCorpus(t,
		`{"id": "DOC000001", "title": "Alpha", "content": "ItemRevision master"}`,
		`{"id": "DOC000002", "title": "Beta", "content": "item revision notes"}`,
		`{"id": "DOC000003", "title": "Gamma", "content": "itemrevision shortcut"}`,
	)

	// Structure is honored (no letter after "item" in DOC000002), while the
	// character class itself matches regardless of case.
	matches, err := contentScan(corpus, `Item[A-Z]`, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "DOC000001", matches[0].ID)
	assert.Equal(t, "DOC000003", matches[1].ID)
}

func TestContentInModules_ScopesAndMatchesBodies(t *testing.T) {
	manifest := writeModuleFixture(t)

	matches, err := ContentInModules(manifest, nil, "docs", 0)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "DOC000001", matches[0].ID)
	assert.Equal(t, "DOC000003", matches[2].ID)

	// The module filter is a case-insensitive name substring.
	matches, err = ContentInModules(manifest, []string{"vendor"}, "docs", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Vendor Upload", matches[0].Title)

	// The pattern is case-insensitive against the raw line, titles included.
	matches, err = ContentInModules(manifest, []string{"session"}, "LOGOUT", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "DOC000002", matches[0].ID)
}

func TestContentInModules_CapStopsAcrossFiles(t *testing.T) {
	manifest := writeModuleFixture(t)

	matches, err := ContentInModules(manifest, nil, "docs", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = ContentInModules(manifest, nil, `[unclosed`, 0)
	assert.Error(t, err)
}

func TestContentInModules_SkipsMissingModuleFile(t *testing.T) {
	dir := filepath.Dir(writeModuleFixture(t))
	m := domain.Manifest{Modules: []domain.ModuleInfo{
		{Module: "Ghost", File: "Ghost.jsonl"},
		{Module: "Vendor", File: "Vendor.jsonl", Records: 1},
	}}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	manifest := filepath.Join(dir, "with_ghost.json")
	require.NoError(t, os.WriteFile(manifest, data, 0o644))

	matches, err := ContentInModules(manifest, nil, "docs", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "DOC000003", matches[0].ID)
}

func TestMatchFromLine(t *testing.T) {
	seen := map[string]struct{}{}

	m, ok := matchFromLine([]byte(`{"id":"DOC000007","title":"T7"}`), seen)
	require.True(t, ok)
	assert.Equal(t, "DOC000007", m.ID)
	assert.Equal(t, "T7", m.Title)

	// Whitespace around the colon is tolerated.
	m, ok = matchFromLine([]byte(`{"id" : "DOC000008", "title" : "T8"}`), seen)
	require.True(t, ok)
	assert.Equal(t, "DOC000008", m.ID)

	// Duplicate of an already seen id is dropped.
	_, ok = matchFromLine([]byte(`{"id":"DOC000007","title":"dup"}`), seen)
	assert.False(t, ok)

	// A line without an id field cannot become a match.
	_, ok = matchFromLine([]byte(`{"title":"no id"}`), seen)
	assert.False(t, ok)
}
