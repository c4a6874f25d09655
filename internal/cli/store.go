package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/openmodel/pkg/document"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage documents in the configured store",
		Long: `Store saves, fetches, lists and removes documents in the backend chosen
by the [store] section of the config file: a local directory (default),
Redis or MongoDB.`,
	}

	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// withStore opens the store, runs fn and closes the store again.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (c *CLI) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put FILE...",
		Short: "Validate and store documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				save := store.Save
				if c.cfg.Store.Compress {
					save = store.SaveCompressed
				}
				for _, path := range args {
					doc, err := document.ImportFile(path)
					if err != nil {
						return err
					}
					if err := doc.Validate(); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					if err := save(ctx, s, doc); err != nil {
						return err
					}
					printSuccess("Stored %s %s", doc.Name, StyleDim.Render(doc.ID.String()))
				}
				return nil
			})
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Fetch a document",
		Long:  "Get writes the stored document to --output, encoded by its extension, or prints it as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity.Parse(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				doc, err := store.Load(ctx, s, id)
				if err != nil {
					return err
				}
				if output == "" {
					return document.WriteJSON(doc, stdout)
				}
				if err := document.ExportFile(doc, output); err != nil {
					return err
				}
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				ids, err := s.List(ctx)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					printInfo("Store is empty")
					return nil
				}
				for _, id := range ids {
					doc, err := store.Load(ctx, s, id)
					if err != nil {
						printWarning("%s: %s", id, err)
						continue
					}
					st := doc.Stats()
					printKeyValue(shortID(id.String()), fmt.Sprintf("%s  %s meshes, %s members",
						doc.Name, humanize.Comma(int64(st.Meshes)), humanize.Comma(int64(st.Members))))
				}
				printDetail("%d documents", len(ids))
				return nil
			})
		},
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"remove"},
		Short:   "Remove stored documents",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				for _, arg := range args {
					id, err := identity.Parse(arg)
					if err != nil {
						return err
					}
					if err := s.Delete(ctx, id); err != nil {
						return err
					}
					printSuccess("Removed %s", id)
				}
				return nil
			})
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Store.Backend != "" && c.cfg.Store.Backend != store.BackendFile {
				printWarning("backend is %s, not file", c.cfg.Store.Backend)
				return nil
			}
			fmt.Fprintln(stdout, c.cfg.Store.Dir)
			if _, err := os.Stat(c.cfg.Store.Dir); os.IsNotExist(err) {
				printDetail("(does not exist yet)")
			}
			return nil
		},
	}
}
