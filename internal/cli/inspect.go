package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/openmodel/pkg/document"
	"github.com/matzehuels/openmodel/pkg/errors"
)

// inspection is the outcome of reading one file.
type inspection struct {
	path string
	size int64
	doc  *document.Document
	err  error // read, parse or validation failure
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Validate documents and summarize their contents",
		Long: `Inspect reads each document, validates it and prints entity counts,
mesh bounds and structural summaries. Files are read concurrently; a bad file
is reported without stopping the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			results, err := inspectFiles(ctx, args)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				printInspection(r)
				if r.err != nil {
					failed++
				}
			}
			prog.done(fmt.Sprintf("Inspected %d documents", len(results)))
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(results))
			}
			return nil
		},
	}
}

// inspectFiles reads and validates paths concurrently. Per-file failures
// are recorded in the result; only cancellation aborts the whole run.
func inspectFiles(ctx context.Context, paths []string) ([]inspection, error) {
	results := make([]inspection, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = inspectFile(path)
			loggerFromContext(ctx).Debug("inspected", "path", path, "err", results[i].err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func inspectFile(path string) inspection {
	r := inspection{path: path}
	info, err := os.Stat(path)
	if err != nil {
		r.err = err
		return r
	}
	r.size = info.Size()
	if r.doc, r.err = document.ImportFile(path); r.err != nil {
		return r
	}
	r.err = r.doc.Validate()
	return r
}

func printInspection(r inspection) {
	printTitle("%s", r.path)
	if r.doc == nil {
		printError("%s", r.err)
		return
	}
	doc := r.doc
	printKeyValue("name", doc.Name)
	printKeyValue("id", doc.ID.String())
	printKeyValue("size", humanize.Bytes(uint64(r.size)))

	st := doc.Stats()
	printCounts(
		count{"meshes", st.Meshes}, count{"vertices", st.Vertices}, count{"faces", st.Faces},
		count{"nodes", st.Nodes}, count{"members", st.Members},
		count{"supports", st.Supports}, count{"loads", st.Loads},
	)
	for _, m := range doc.Meshes {
		lo, hi, ok := m.Bounds()
		if !ok {
			printDetail("mesh %q: no vertices", m.Name)
			continue
		}
		printDetail("mesh %q: %s vertices, %s faces, bounds %v .. %v",
			m.Name, humanize.Comma(int64(m.VertexCount())), humanize.Comma(int64(m.FaceCount())), lo, hi)
	}
	if s := doc.Structure; s != nil {
		total := 0.0
		for _, mb := range s.Members() {
			if l, err := s.MemberLength(mb.ID); err == nil {
				total += l
			}
		}
		printDetail("structure %q: total member length %s", s.Name, humanize.FormatFloat("#,###.##", total))
	}

	if r.err != nil {
		printWarning("invalid: %s", errors.UserMessage(r.err))
		return
	}
	printSuccess("valid")
}
