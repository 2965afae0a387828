package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/castdeck/castdeck/pkg/workspace"
)

// List styles
var (
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// layoutTUICommand creates the "layout tui" subcommand: an interactive
// terminal inspector over the persisted workspace.
func (c *CLI) layoutTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the workspace interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutTUI(cmd.Context())
		},
	}
}

func (c *CLI) runLayoutTUI(ctx context.Context) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	model := newWorkspaceModel(ctx, sess.Workspace)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run inspector: %w", err)
	}
	return nil
}

// =============================================================================
// WorkspaceModel - Interactive card inspector
// =============================================================================

// WorkspaceModel is the bubbletea model for browsing workspace cards.
type WorkspaceModel struct {
	ctx    context.Context
	ws     *workspace.Store
	nodes  []*workspace.Node
	cursor int
	height int
	offset int
	status string
}

func newWorkspaceModel(ctx context.Context, ws *workspace.Store) WorkspaceModel {
	return WorkspaceModel{
		ctx:    ctx,
		ws:     ws,
		nodes:  ws.Nodes(),
		height: 15,
	}
}

func (m WorkspaceModel) Init() tea.Cmd {
	return nil
}

func (m WorkspaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "f":
			if n := m.current(); n != nil {
				if m.ws.BringToFront(m.ctx, n.ID) {
					m.status = "fronted " + string(n.Kind)
				} else {
					m.status = "only preview cards stack"
				}
				m.refresh()
			}
		case "c":
			if m.ws.CollapseIfExpanded(m.ctx) {
				m.status = "collapsed"
			} else {
				m.status = "nothing expanded"
			}
			m.refresh()
		case "d":
			if n := m.current(); n != nil {
				m.ws.RemoveCard(m.ctx, n.ID, false)
				m.status = "removed " + string(n.Kind)
				m.refresh()
				if m.cursor >= len(m.nodes) && m.cursor > 0 {
					m.cursor--
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m *WorkspaceModel) current() *workspace.Node {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return nil
	}
	return m.nodes[m.cursor]
}

func (m *WorkspaceModel) refresh() {
	m.nodes = m.ws.Nodes()
}

func (m WorkspaceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Workspace Cards"))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("↑/↓ navigate  f front  c collapse  d delete  q quit"))
	b.WriteString("\n\n")

	if len(m.nodes) == 0 {
		b.WriteString(tuiDimStyle.Render("  workspace is empty"))
		b.WriteString("\n")
		return b.String()
	}

	expanded := m.ws.ExpandedID()

	end := m.offset + m.height
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		z := "—"
		if n.ZIndex != workspace.ZUnset {
			z = fmt.Sprintf("%d", n.ZIndex)
		}
		state := ""
		if n.ID == expanded {
			state = "expanded"
		}

		rows = append(rows, []string{
			cursor,
			workspace.Title(n.Kind),
			fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y),
			fmt.Sprintf("%.0f×%.0f", n.Size.Width, n.Size.Height),
			z,
			state,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Card", "Position", "Size", "Z", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.offset + row
			if actualIdx == m.cursor {
				return tuiSelectedStyle
			}
			if actualIdx >= 0 && actualIdx < len(m.nodes) && m.nodes[actualIdx].ID == expanded {
				return styleExpanded
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.nodes))))
	if m.status != "" {
		b.WriteString(tuiDimStyle.Render("  " + m.status))
	}

	return b.String()
}
