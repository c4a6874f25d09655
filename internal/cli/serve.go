package cli

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/openmodel/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			srv := server.New(s, loggerFromContext(ctx), server.Options{
				Render:       c.cfg.Render.Options(),
				Smooth:       c.cfg.Render.Smooth,
				Compress:     c.cfg.Store.Compress,
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
			})
			err = srv.ListenAndServe(ctx, addr, c.cfg.Server.ReadTimeout.Duration, c.cfg.Server.WriteTimeout.Duration)
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, http.ErrServerClosed) {
				printInfo("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
