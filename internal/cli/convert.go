package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/openmodel/pkg/document"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert INPUT OUTPUT",
		Short: "Convert a document between JSON and YAML",
		Long: `Convert reads INPUT and writes OUTPUT, choosing each encoding from the
file extension: .json or .yaml/.yml, optionally followed by .zst for zstd
compression. The document is fully validated on the way through.`,
		Example: `  openmodel convert pavilion.json pavilion.yaml
  openmodel convert pavilion.json pavilion.json.zst`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			if err := convertFile(args[0], args[1]); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Converted %s", args[0]))
			printFile(args[1])
			return nil
		},
	}
}

func convertFile(in, out string) error {
	doc, err := document.ImportFile(in)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	return document.ExportFile(doc, out)
}
