package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/openmodel/pkg/document"
	"github.com/matzehuels/openmodel/pkg/render"
)

// bufferCommand creates the buffer command.
func (c *CLI) bufferCommand() *cobra.Command {
	var (
		output   string
		meshName string
		smooth   bool
		raw      bool
		aspect   float32
	)

	cmd := &cobra.Command{
		Use:   "buffer FILE",
		Short: "Export a mesh as an interleaved vertex buffer",
		Long: `Buffer writes position, normal and color for every vertex of a mesh,
nine float32 values each, together with camera and lighting uniforms that
frame the mesh. The default output is JSON; --raw writes little-endian
float32 vertex data only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ImportFile(args[0])
			if err != nil {
				return err
			}
			meshes, err := selectMeshes(doc, meshName)
			if err != nil {
				return err
			}
			if len(meshes) == 0 {
				return fmt.Errorf("%s has no meshes", args[0])
			}
			m := meshes[0]

			if !cmd.Flags().Changed("smooth") {
				smooth = c.cfg.Render.Smooth
			}
			build := render.BuildFlat
			if smooth {
				build = render.BuildSmooth
			}
			buf, err := build(m, c.cfg.Render.Options())
			if err != nil {
				return err
			}
			var u *render.Uniforms
			if !raw {
				placed := m
				if m.HasTransformation() {
					placed = m.Clone()
					placed.Transform(m.Transformation())
				}
				lo, hi, _ := placed.Bounds()
				if u, err = render.NewUniforms(m.Transformation(), render.FrameBounds(lo, hi, aspect), render.DefaultLighting()); err != nil {
					return err
				}
			}
			if output == "" {
				output = defaultOutput(args[0], m.Name, raw)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if raw {
				_, err = buf.WriteTo(f)
			} else {
				err = json.NewEncoder(f).Encode(bufferFile{Mesh: m.Name, Stride: render.Stride, Buffer: buf, Uniforms: u})
			}
			if err != nil {
				return err
			}
			printSuccess("Exported %q: %d vertices, %d triangles", m.Name, buf.VertexCount(), buf.TriangleCount())
			printFile(output)
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.<mesh>.buffer.json)")
	cmd.Flags().StringVar(&meshName, "mesh", "", "mesh name (default first mesh)")
	cmd.Flags().BoolVar(&smooth, "smooth", false, "shared vertices with vertex normals")
	cmd.Flags().BoolVar(&raw, "raw", false, "write raw float32 vertex data")
	cmd.Flags().Float32Var(&aspect, "aspect", 16.0/9, "viewport aspect ratio for the camera uniforms")
	return cmd
}

type bufferFile struct {
	Mesh     string           `json:"mesh"`
	Stride   int              `json:"stride"`
	Buffer   *render.Buffer   `json:"buffer"`
	Uniforms *render.Uniforms `json:"uniforms"`
}

func defaultOutput(input, mesh string, raw bool) string {
	base := input[:len(input)-len(filepath.Ext(input))]
	if raw {
		return base + "." + mesh + ".buffer.bin"
	}
	return base + "." + mesh + ".buffer.json"
}
