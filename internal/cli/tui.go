package cli

import (
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/editor"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/tree"
)

// tuiCommand opens a tree file in the interactive editor.
func (c *CLI) tuiCommand() *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "tui [tree.json|tree.yaml]",
		Short: "Edit a tree interactively in the terminal",
		Long: `Edit a tree interactively in the terminal.

A missing file starts from a single node and is created on save.

  ←/→ h/l   previous / next node on the same row
  ↑ k       parent
  ↓ j       middle child (or the closest node on the next row)
  space     toggle selection   ctrl+a  select all
  r         select the root    esc  clear selection (quit when empty)
  a         add child          d  delete subtree(s)
  e         edit label         1-9  palette highlight
  c         clear highlight    s  save
  q         quit

d, c and 1-9 act on the selection, or on the cursor node when nothing is
selected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, &lf)
			if err != nil {
				return err
			}

			doc := editor.New()
			if _, err := os.Stat(args[0]); err == nil {
				if doc, err = loadDocument(args[0]); err != nil {
					return err
				}
			}

			m, err := newEditorModel(doc, args[0], cfg)
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if em, ok := final.(editorModel); ok && em.dirty {
				printWarning("Quit with unsaved changes")
			}
			return nil
		},
	}
	lf.register(cmd.Flags())

	return cmd
}

// =============================================================================
// editorModel - Interactive tree editing
// =============================================================================

var (
	tuiNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tuiMarkStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	tuiPickedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow).Reverse(true)
	tuiErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// labelWidth is the number of cells a node label may take in the view.
const labelWidth = 8

type editorModel struct {
	doc  *editor.Document
	path string
	cfg  config.Config

	cursor   int
	selected map[int]bool
	res      layout.Result

	editing bool
	input   string

	dirty  bool
	status string
	err    error
}

func newEditorModel(doc *editor.Document, path string, cfg config.Config) (editorModel, error) {
	m := editorModel{doc: doc, path: path, cfg: cfg, cursor: doc.RootID(), selected: map[int]bool{}}
	if err := m.relayout(); err != nil {
		return editorModel{}, err
	}
	return m, nil
}

func (m *editorModel) relayout() error {
	res, err := m.doc.Layout(m.cfg.Layout)
	if err != nil {
		return err
	}
	m.res = res
	return nil
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil
	if m.editing {
		return m.updateEditing(key)
	}

	var err error
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if len(m.selected) == 0 {
			return m, tea.Quit
		}
		m.selected = map[int]bool{}
		m.status = "selection cleared"
	case " ", "space":
		m.toggle(m.cursor)
	case "ctrl+a":
		m.selectAll()
	case "r":
		m.cursor = m.doc.RootID()
		m.selected[m.cursor] = true
		m.status = m.selectionStatus()
	case "up", "k":
		m.cursor, err = m.doc.Parent(m.cursor)
	case "down", "j":
		m.cursor, err = m.doc.MiddleChild(m.cursor)
	case "left", "h":
		m.cursor, err = m.doc.Prev(m.cursor)
	case "right", "l":
		m.cursor, err = m.doc.Next(m.cursor)
	case "a":
		var id int
		if id, err = m.doc.AddChild(m.cursor); err == nil {
			m.cursor = id
			m.changed("added node")
		}
	case "d", "x":
		err = m.deleteTargets()
	case "e":
		n, nerr := m.doc.Node(m.cursor)
		if nerr != nil {
			err = nerr
			break
		}
		m.editing, m.input = true, n.Text
	case "c":
		if err = m.highlightTargets(nil); err == nil {
			m.changed("cleared highlight")
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key.String()[0] - '1')
		if idx >= len(m.cfg.Style.Highlights) {
			err = errors.New(errors.ErrCodeInvalidInput, "palette has %d colors", len(m.cfg.Style.Highlights))
			break
		}
		if err = m.highlightTargets(tree.Global(idx)); err == nil {
			m.changed(fmt.Sprintf("highlight %d", idx+1))
		}
	case "s":
		if err = saveDocument(m.path, m.doc, m.cfg); err == nil {
			m.dirty = false
			m.status = "saved " + m.path
		}
	}
	if err != nil {
		m.err = err
	}
	return m, nil
}

// targets returns the selected ids in ascending order, or the cursor when
// nothing is selected.
func (m editorModel) targets() []int {
	if len(m.selected) == 0 {
		return []int{m.cursor}
	}
	return slices.Sorted(maps.Keys(m.selected))
}

func (m *editorModel) toggle(id int) {
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	m.status = m.selectionStatus()
}

func (m *editorModel) selectAll() {
	for _, row := range m.res.Rows {
		for _, id := range row {
			m.selected[id] = true
		}
	}
	m.status = m.selectionStatus()
}

func (m editorModel) selectionStatus() string {
	return fmt.Sprintf("%d selected", len(m.selected))
}

func (m *editorModel) highlightTargets(h *tree.Highlight) error {
	for _, id := range m.targets() {
		if err := m.doc.SetHighlight(id, h); err != nil {
			return err
		}
	}
	return nil
}

// deleteTargets removes every target subtree. With a selection the root is
// skipped, as are nodes already removed with an ancestor. The cursor moves
// to its closest surviving ancestor.
func (m *editorModel) deleteTargets() error {
	if len(m.selected) == 0 {
		return m.deleteCurrent()
	}

	ancestors, err := m.ancestors(m.cursor)
	if err != nil {
		return err
	}

	root := m.doc.RootID()
	removed := 0
	for _, id := range m.targets() {
		if id == root {
			continue
		}
		ok, err := m.doc.DeleteSubtree(id)
		if errors.Is(err, errors.ErrCodeNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if ok {
			removed++
		}
	}
	if removed == 0 {
		return errors.ProtectedNode(root)
	}

	m.selected = map[int]bool{}
	for _, id := range ancestors {
		if _, err := m.doc.Node(id); err == nil {
			m.cursor = id
			break
		}
	}
	m.changed(fmt.Sprintf("deleted %d subtrees", removed))
	return nil
}

// ancestors returns id followed by its ancestors up to the root.
func (m editorModel) ancestors(id int) ([]int, error) {
	out := []int{id}
	for {
		p, err := m.doc.Parent(id)
		if err != nil {
			return nil, err
		}
		if p == id {
			return out, nil
		}
		out = append(out, p)
		id = p
	}
}

func (m *editorModel) deleteCurrent() error {
	parent, err := m.doc.Parent(m.cursor)
	if err != nil {
		return err
	}
	if _, err := m.doc.DeleteSubtree(m.cursor); err != nil {
		return err
	}
	m.cursor = parent
	m.changed("deleted subtree")
	return nil
}

func (m editorModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		if err := m.doc.SetText(m.cursor, m.input); err != nil {
			m.err = err
			return m, nil
		}
		m.editing = false
		m.changed("label updated")
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

// changed records a mutation and refreshes positions.
func (m *editorModel) changed(status string) {
	m.dirty = true
	m.status = status
	if err := m.relayout(); err != nil {
		m.err = err
	}
}

func (m editorModel) View() string {
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  space select  a add  d delete  e edit  1-9 highlight  c clear  s save  q quit"))
	b.WriteString("\n\n")

	for _, row := range m.res.Rows {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n\n")
	}

	switch {
	case m.editing:
		b.WriteString(StyleHighlight.Render("label: ") + m.input + "█")
	case m.err != nil:
		b.WriteString(tuiErrorStyle.Render(errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(StyleDim.Render(m.status))
	}
	for _, w := range m.res.Warnings {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("depth %d: %s", w.Depth, w.Message)))
	}
	return b.String()
}

// renderRow places each node of a depth row at a column proportional to its
// x coordinate, so the terminal view keeps the shape of the drawing.
func (m editorModel) renderRow(row []int) string {
	scale := m.cfg.Layout.HorizontalSpacing / (labelWidth + 2)
	if scale <= 0 {
		scale = 1
	}

	var b strings.Builder
	col := 0
	for _, id := range row {
		n, ok := m.res.Node(id)
		if !ok {
			continue
		}
		want := int(math.Round((n.X-m.cfg.Layout.HorizontalMargin)/scale)) - labelWidth/2
		if pad := want - col; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
		} else if col > 0 {
			b.WriteString(" ")
			col++
		}
		label := m.label(n)
		b.WriteString(label)
		col += lipgloss.Width(label)
	}
	return b.String()
}

func (m editorModel) label(n layout.Node) string {
	text := truncate(n.Text, labelWidth)
	style := tuiNodeStyle
	switch {
	case n.ID == m.cursor:
		style = tuiSelectedStyle
	case m.selected[n.ID]:
		style = tuiPickedStyle
	}
	out := style.Render(text)
	if n.Highlight != nil {
		out += tuiMarkStyle.Render("*")
	}
	return out
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
