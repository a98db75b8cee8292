package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, lines ...string) string {
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

func TestBuild_SkipsMalformedLinesKeepsOffsets(t *testing.T) {
	line1 := `{"id":"DOC000001","title":"Alpha","rel_path":"a/alpha.md","content":"Alpha body."}`
	line2 := `{"id":"DOC000002","title":"Beta","rel_path":"b/beta.md","content":"Beta body."}`
	line3 := `{this is not json`
	corpus := writeCorpus(t, line1, line2, line3)

	idx, err := Build(corpus)
	require.NoError(t, err)

	require.Len(t, idx, 2)
	alpha, ok := idx["DOC000001"]
	require.True(t, ok)
	assert.Equal(t, int64(0), alpha.Offset)
	assert.Equal(t, "Alpha", alpha.Title)
	assert.Equal(t, "a/alpha.md", alpha.RelPath)

	beta, ok := idx["DOC000002"]
	require.True(t, ok)
	assert.Equal(t, int64(len(line1)+1), beta.Offset)
	assert.Equal(t, "Beta", beta.Title)
}

func TestBuild_OffsetsAdvancePastMalformedLine(t *testing.T) {
	line1 := `{"id":"DOC000001","title":"Alpha","rel_path":"","content":"x"}`
	bad := `{broken`
	line3 := `{"id":"DOC000003","title":"Gamma","rel_path":"","content":"y"}`
	corpus := writeCorpus(t, line1, bad, line3)

	idx, err := Build(corpus)
	require.NoError(t, err)

	gamma, ok := idx["DOC000003"]
	require.True(t, ok)
	assert.Equal(t, int64(len(line1)+1+len(bad)+1), gamma.Offset)
}

func TestBuild_DuplicateIDLastWins(t *testing.T) {
	line1 := `{"id":"DOC000007","title":"First","rel_path":"","content":"a"}`
	line2 := `{"id":"DOC000007","title":"Second","rel_path":"","content":"b"}`
	corpus := writeCorpus(t, line1, line2)

	idx, err := Build(corpus)
	require.NoError(t, err)

	require.Len(t, idx, 1)
	assert.Equal(t, "Second", idx["DOC000007"].Title)
	assert.Equal(t, int64(len(line1)+1), idx["DOC000007"].Offset)
}

func TestBuild_FallsBackToFullParseWithoutContentMarker(t *testing.T) {
	line := `{"id":"DOC000010","title":"Markdown Only","rel_path":"m/only.md","markdown":"# body"}`
	corpus := writeCorpus(t, line)

	idx, err := Build(corpus)
	require.NoError(t, err)

	entry, ok := idx["DOC000010"]
	require.True(t, ok)
	assert.Equal(t, "Markdown Only", entry.Title)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	corpus := filepath.Join(t.TempDir(), "empty.jsonl")
	require.NoError(t, os.WriteFile(corpus, nil, 0o644))

	idx, err := Build(corpus)
	require.NoError(t, err)
	assert.Empty(t, idx)

	out := filepath.Join(t.TempDir(), "empty.index.json")
	require.NoError(t, WriteIndex(out, idx))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestBuild_MissingCorpus(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild_DeterministicOutput(t *testing.T) {
	corpus := writeCorpus(t,
		`{"id":"DOC000002","title":"Beta","rel_path":"b","content":"b"}`,
		`{"id":"DOC000001","title":"Alpha","rel_path":"a","content":"a"}`,
		`{"id":"DOC000003","title":"Gamma","rel_path":"g","content":"g"}`,
	)

	first, err := Build(corpus)
	require.NoError(t, err)
	second, err := Build(corpus)
	require.NoError(t, err)

	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.json")
	p2 := filepath.Join(dir, "two.json")
	require.NoError(t, WriteIndex(p1, first))
	require.NoError(t, WriteIndex(p2, second))

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestBuild_LastLineWithoutNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	line1 := `{"id":"DOC000001","title":"Alpha","rel_path":"","content":"a"}`
	line2 := `{"id":"DOC000002","title":"Beta","rel_path":"","content":"b"}`
	require.NoError(t, os.WriteFile(path, []byte(line1+"\n"+line2), 0o644))

	idx, err := Build(path)
	require.NoError(t, err)
	require.Len(t, idx, 2)
	assert.Equal(t, int64(len(line1)+1), idx["DOC000002"].Offset)
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "docs/data_structures.index.json", SidecarPath("docs/data_structures.jsonl"))
	assert.Equal(t, "corpus.index.json", SidecarPath("corpus.jsonl"))
}

func TestExtractMeta_IgnoresContentBody(t *testing.T) {
	// The body contains text that would break a naive parse if materialized
	// wrong; the cheap path must only see the prefix.
	line := []byte(`{"id":"DOC000042","title":"Tricky","rel_path":"t.md","content":"has \"content\": marker inside"}`)
	meta, ok := extractMeta(line)
	require.True(t, ok)
	assert.Equal(t, "DOC000042", meta.ID)
	assert.Equal(t, "Tricky", meta.Title)
}
