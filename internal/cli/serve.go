package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/castdeck/castdeck/internal/api"
)

// serveCommand creates the serve command that runs the HTTP API the
// browser frontend talks to.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the workspace API server",
		Long: `Run the workspace API server.

The server is the mutation and sync channel for the browser canvas:
card lifecycle, stacking, expand/collapse, viewport mirroring, and
layout export. Layout state is restored from the configured store on
startup and written back on every mutation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen string) error {
	logger := loggerFromContext(ctx)
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if listen == "" {
		listen = sess.Config.Listen
	}

	var apiOpts []api.ServerOption
	if sess.ViewportFound {
		apiOpts = append(apiOpts, api.WithInitialViewport(sess.Viewport))
	}
	srv := &http.Server{
		Addr:              listen,
		Handler:           api.NewServer(sess.Workspace, sess.Mirror, logger, apiOpts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving workspace API",
			"addr", listen,
			"backend", sess.Config.Store.Backend,
			"cards", len(sess.Workspace.Nodes()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return ctx.Err()
}
