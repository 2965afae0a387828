package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castdeck/castdeck/pkg/config"
	kvstore "github.com/castdeck/castdeck/pkg/store"
	"github.com/castdeck/castdeck/pkg/workspace"
)

// storeCommand creates the store management command group.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the persisted workspace state",
	}

	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storeInfoCommand())

	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all persisted workspace records",
		Long: `Delete all persisted workspace records.

Removes the stored card layout, viewport, and expansion state from the
configured backend. The next launch starts with an empty workspace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return c.runStoreClear(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	return cmd
}

func (c *CLI) runStoreClear(ctx context.Context) error {
	cfg, kv, err := c.openKV(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := workspace.NewPersister(kv).Clear(ctx); err != nil {
		return fmt.Errorf("clear %s store: %w", cfg.Store.Backend, err)
	}
	printSuccess("Workspace state cleared")
	return nil
}

// storeInfoCommand creates the "store info" subcommand.
func (c *CLI) storeInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured backend and stored layout summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStoreInfo(cmd.Context())
		},
	}
}

func (c *CLI) runStoreInfo(ctx context.Context) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	printInfo("backend: %s", sess.Config.Store.Backend)
	if sess.ViewportFound {
		printInfo("viewport: %.0f,%.0f @ %.2fx", sess.Viewport.X, sess.Viewport.Y, sess.Viewport.Zoom)
	}
	printStats(len(sess.Workspace.Nodes()), sess.Workspace.ExpandedID() != "")
	return nil
}

// openKV opens just the configured key-value backend, without restoring
// a workspace over it.
func (c *CLI) openKV(ctx context.Context) (config.Config, kvstore.Store, error) {
	path := c.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	kv, err := cfg.OpenStore(ctx)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, kv, nil
}
