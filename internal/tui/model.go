package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"docdex/internal/domain"
	"docdex/internal/search"
	"docdex/internal/store"
)

// DocPort is the TUI-facing subset of the record store.
type DocPort interface {
	GetDoc(id string) (*domain.Record, error)
}

var _ DocPort = (*store.Store)(nil)

// Model is the Bubble Tea model for the interactive title browser: a fuzzy
// filterable title list on top of the record store's seek-and-read path.
type Model struct {
	docs    DocPort
	entries []domain.TitleEntry

	input    textinput.Model
	viewport viewport.Model

	filtered []int // indices into entries
	cursor   int
	viewing  bool
	record   *domain.Record
	status   string
	ready    bool
}

// New creates a browser over a title index backed by a record store.
func New(docs DocPort, entries []domain.TitleEntry) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type to filter titles"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		docs:     docs,
		entries:  entries,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("%d titles loaded. Enter opens a record, Esc goes back.", len(entries)),
	}
	m.filtered = allIndices(len(entries))
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := listBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-rh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if !m.viewing && len(m.filtered) > 0 {
				entry := m.entries[m.filtered[m.cursor]]
				rec, err := m.docs.GetDoc(entry.ID)
				switch {
				case err != nil:
					m.status = "Error: " + err.Error()
				case rec == nil:
					m.status = fmt.Sprintf("Record %s not in the index", entry.ID)
				default:
					m.record = rec
					m.viewing = true
					m.status = fmt.Sprintf("%s: %s", rec.ID, rec.Title)
					m.viewport.GotoTop()
				}
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "esc":
			if m.viewing {
				m.viewing = false
				m.record = nil
				m.status = fmt.Sprintf("%d of %d titles", len(m.filtered), len(m.entries))
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "down":
			if !m.viewing && len(m.filtered) > 0 {
				m.cursor = (m.cursor + 1) % len(m.filtered)
				m.viewport.SetContent(m.renderBody())
				m.scrollToCursor()
				return m, nil
			}
		case "up":
			if !m.viewing && len(m.filtered) > 0 {
				m.cursor = (m.cursor - 1 + len(m.filtered)) % len(m.filtered)
				m.viewport.SetContent(m.renderBody())
				m.scrollToCursor()
				return m, nil
			}
		}
		if m.viewing {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.applyFilter()
		m.viewport.SetContent(m.renderBody())
		m.viewport.GotoTop()
	}
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docdex browser")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := listBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	m.cursor = 0
	if query == "" {
		m.filtered = allIndices(len(m.entries))
		m.status = fmt.Sprintf("%d titles", len(m.entries))
		return
	}
	matches := fuzzy.FindFrom(query, titleSource(m.entries))
	m.filtered = make([]int, len(matches))
	for i, match := range matches {
		m.filtered[i] = match.Index
	}
	m.status = fmt.Sprintf("%d of %d titles", len(m.filtered), len(m.entries))
}

func (m Model) renderBody() string {
	if m.viewing && m.record != nil {
		return m.renderRecord()
	}
	return m.renderList()
}

func (m Model) renderList() string {
	if len(m.filtered) == 0 {
		return "No matching titles."
	}
	var b strings.Builder
	for i, idx := range m.filtered {
		e := m.entries[idx]
		line := fmt.Sprintf("%s  [%s]  %s", e.ID, e.Module, e.Title)
		if i == m.cursor {
			line = cursorStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRecord() string {
	body := m.record.Body()
	if body == "" {
		return "Record has no body text."
	}
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return body
	}
	sentences := search.SplitSentences(body)
	if len(sentences) == 0 {
		return body
	}
	best := search.BestSentenceIndex(sentences, query)
	sentences[best] = highlightStyle.Render(sentences[best])
	return strings.Join(sentences, " ")
}

func (m *Model) scrollToCursor() {
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

type titleSource []domain.TitleEntry

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

var (
	listBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
