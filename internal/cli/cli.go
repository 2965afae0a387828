// Package cli implements the castdeck command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/castdeck/castdeck/pkg/buildinfo"
	"github.com/castdeck/castdeck/pkg/config"
	"github.com/castdeck/castdeck/pkg/store"
	"github.com/castdeck/castdeck/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "castdeck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location when set
	// via the --config flag.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Castdeck manages the streaming companion workspace",
		Long:         `Castdeck is the backend for a card-based streaming companion workspace: it places, stacks, expands, and persists the cards the browser canvas shows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/castdeck/config.toml)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.cardCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Workspace Bootstrap
// =============================================================================

// session bundles the live objects behind one config: the key-value
// store, the workspace store over it, and the viewport mirror.
type session struct {
	Config    config.Config
	KV        store.Store
	Workspace *workspace.Store
	Mirror    *workspace.MirrorViewport

	// Viewport is the persisted canvas viewport, when one was stored.
	Viewport      workspace.Viewport
	ViewportFound bool
}

func (s *session) Close() {
	_ = s.KV.Close()
}

// openSession loads configuration, opens the configured backend, and
// restores the persisted layout.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	path := c.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	kv, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	mirror := workspace.NewMirrorViewport()
	ws := workspace.New(workspace.Options{
		Viewport: mirror,
		Persist:  workspace.NewPersister(kv),
		Logger:   c.Logger,
		Grid:     cfg.Grid,
	})
	vp, found := ws.Load(ctx)

	return &session{
		Config:        cfg,
		KV:            kv,
		Workspace:     ws,
		Mirror:        mirror,
		Viewport:      vp,
		ViewportFound: found,
	}, nil
}
