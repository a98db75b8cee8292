package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdex/internal/domain"
)

type fakeDocs map[string]*domain.Record

func (f fakeDocs) GetDoc(id string) (*domain.Record, error) { return f[id], nil }

func testEntries() []domain.TitleEntry {
	return []domain.TitleEntry{
		{Title: "Session Login", Module: "Core", ID: "DOC000001"},
		{Title: "Dataset Upload", Module: "Files", ID: "DOC000002"},
	}
}

func testModel() Model {
	docs := fakeDocs{
		"DOC000001": {ID: "DOC000001", Title: "Session Login", Content: "Login body."},
		"DOC000002": {ID: "DOC000002", Title: "Dataset Upload", Content: "Upload body."},
	}
	m := New(docs, testEntries())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestModel_FuzzyFilterNarrowsList(t *testing.T) {
	m := testModel()

	for _, r := range "upload" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}

	require.Len(t, m.filtered, 1)
	assert.Equal(t, "DOC000002", m.entries[m.filtered[0]].ID)
}

func TestModel_EnterOpensRecordEscReturns(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.True(t, m.viewing)
	require.NotNil(t, m.record)
	assert.Equal(t, "DOC000001", m.record.ID)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.False(t, m.viewing)
	assert.Nil(t, m.record)
}

func TestModel_CursorWraps(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestModel_QuitKeys(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
