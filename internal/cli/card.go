package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/castdeck/castdeck/pkg/errors"
	"github.com/castdeck/castdeck/pkg/workspace"
)

// cardCommand creates the card command group for scripting workspace
// mutations without a running server.
func (c *CLI) cardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Add, remove, and stack workspace cards",
	}

	cmd.AddCommand(c.cardAddCommand())
	cmd.AddCommand(c.cardRemoveCommand())
	cmd.AddCommand(c.cardFrontCommand())
	cmd.AddCommand(c.cardCollapseCommand())

	return cmd
}

// cardAddCommand creates the "card add" subcommand.
func (c *CLI) cardAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <kind>",
		Short: "Add a card, or front the existing one of that kind",
		Long: `Add a card, or front the existing one of that kind.

Kinds are either a catalog name (chat-settings, viewer-list, ...) or a
channel preview in the form "preview:<channel>".`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return kindSuggestions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCardAdd(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runCardAdd(ctx context.Context, raw string) error {
	kind, ok := workspace.ParseKind(raw)
	if !ok {
		return errors.New(errors.ErrCodeInvalidKind, "unknown card kind %q", raw)
	}

	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	node, created := sess.Workspace.AddCard(ctx, kind)
	if created {
		printSuccess("Added %s", workspace.Title(kind))
		printInfo("at %.0f,%.0f · %.0f×%.0f", node.Position.X, node.Position.Y, node.Size.Width, node.Size.Height)
	} else {
		printInfo("%s is already on the workspace", workspace.Title(kind))
	}
	return nil
}

// cardRemoveCommand creates the "card remove" subcommand.
func (c *CLI) cardRemoveCommand() *cobra.Command {
	var disconnect bool

	cmd := &cobra.Command{
		Use:   "remove <kind>",
		Short: "Remove the card of the given kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCardRemove(cmd.Context(), args[0], disconnect)
		},
	}

	cmd.Flags().BoolVar(&disconnect, "disconnect", false, "also disconnect a channel preview's stream")

	return cmd
}

func (c *CLI) runCardRemove(ctx context.Context, raw string, disconnect bool) error {
	kind, ok := workspace.ParseKind(raw)
	if !ok {
		return errors.New(errors.ErrCodeInvalidKind, "unknown card kind %q", raw)
	}

	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	node, ok := sess.Workspace.NodeByKind(kind)
	if !ok {
		return errors.New(errors.ErrCodeCardNotFound, "no %q card on the workspace", kind)
	}
	sess.Workspace.RemoveCard(ctx, node.ID, disconnect)
	printSuccess("Removed %s", workspace.Title(kind))
	return nil
}

// cardFrontCommand creates the "card front" subcommand.
func (c *CLI) cardFrontCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "front <kind>",
		Short: "Bring the card of the given kind to the front",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCardOp(cmd.Context(), args[0], func(ctx context.Context, ws *workspace.Store, id string) {
				ws.BringToFront(ctx, id)
			}, "Fronted")
		},
	}
}

// cardCollapseCommand creates the "card collapse" subcommand. Expanding
// needs a mounted canvas, so the CLI only offers the collapse side: it
// rescues a layout stuck with a stale expanded card.
func (c *CLI) cardCollapseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collapse",
		Short: "Collapse the expanded card, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCardCollapse(cmd.Context())
		},
	}
}

func (c *CLI) runCardCollapse(ctx context.Context) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if sess.Workspace.CollapseIfExpanded(ctx) {
		printSuccess("Collapsed")
	} else {
		printInfo("No card is expanded")
	}
	return nil
}

func (c *CLI) runCardOp(ctx context.Context, raw string, op func(context.Context, *workspace.Store, string), verb string) error {
	kind, ok := workspace.ParseKind(raw)
	if !ok {
		return errors.New(errors.ErrCodeInvalidKind, "unknown card kind %q", raw)
	}

	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	node, ok := sess.Workspace.NodeByKind(kind)
	if !ok {
		return errors.New(errors.ErrCodeCardNotFound, "no %q card on the workspace", kind)
	}
	op(ctx, sess.Workspace, node.ID)
	printSuccess("%s %s", verb, workspace.Title(kind))
	return nil
}
