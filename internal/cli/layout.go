package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/render"
	"github.com/castdeck/castdeck/pkg/workspace"
)

// defaultExportVisible stands in for the browser canvas size when an
// export runs without a live frontend attached.
var defaultExportVisible = geometry.Size{Width: 1920, Height: 1080}

// layoutCommand creates the layout command group for inspecting and
// exporting the persisted workspace.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and export the workspace layout",
	}

	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutExportCommand())
	cmd.AddCommand(c.layoutTUICommand())

	return cmd
}

// layoutShowCommand creates the "layout show" subcommand.
func (c *CLI) layoutShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the persisted card layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutShow(cmd.Context())
		},
	}
}

func (c *CLI) runLayoutShow(ctx context.Context) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	nodes := sess.Workspace.Nodes()
	if len(nodes) == 0 {
		printInfo("Workspace is empty")
		return nil
	}

	expanded := sess.Workspace.ExpandedID()

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		z := "—"
		if n.ZIndex != workspace.ZUnset {
			z = fmt.Sprintf("%d", n.ZIndex)
		}
		state := ""
		if n.ID == expanded {
			state = "expanded"
		}
		rows = append(rows, []string{
			workspace.Title(n.Kind),
			string(n.Kind),
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
		Headers("Card", "Kind", "Position", "Size", "Z", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	fmt.Println(t.Render())
	printStats(len(nodes), expanded != "")
	return nil
}

// layoutExportCommand creates the "layout export" subcommand.
func (c *CLI) layoutExportCommand() *cobra.Command {
	var (
		output string
		dark   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the workspace layout as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutExport(cmd.Context(), output, dark)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "layout.svg", "output file")
	cmd.Flags().BoolVar(&dark, "dark", false, "use the dark palette")

	return cmd
}

func (c *CLI) runLayoutExport(ctx context.Context, output string, dark bool) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	prog := newProgress(loggerFromContext(ctx))

	var opts []render.SVGOption
	if dark {
		opts = append(opts, render.WithDarkTheme())
	}
	if sess.ViewportFound {
		// The persisted viewport has no visible size; assume a common
		// canvas so the frame overlay is still useful.
		opts = append(opts, render.WithViewportFrame(sess.Viewport, defaultExportVisible))
	}

	data := render.RenderSVG(sess.Workspace.Nodes(), opts...)
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	prog.done(fmt.Sprintf("Exported %d cards", len(sess.Workspace.Nodes())))
	printSuccess("Export complete")
	printFile(output)
	return nil
}

// kindSuggestions returns completion candidates for kind arguments.
func kindSuggestions(toComplete string) []string {
	var out []string
	for _, k := range workspace.StaticKinds() {
		if strings.HasPrefix(string(k), toComplete) {
			out = append(out, string(k))
		}
	}
	return out
}
