package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/openmodel/pkg/document"
	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/mesh"
)

// normalsCommand creates the normals command.
func (c *CLI) normalsCommand() *cobra.Command {
	var meshName string
	var vertices bool

	cmd := &cobra.Command{
		Use:   "normals FILE",
		Short: "Print face normals, areas, perimeters and centroids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ImportFile(args[0])
			if err != nil {
				return err
			}
			meshes, err := selectMeshes(doc, meshName)
			if err != nil {
				return err
			}
			for _, m := range meshes {
				printMeshNormals(m, vertices)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&meshName, "mesh", "", "only this mesh (name)")
	cmd.Flags().BoolVar(&vertices, "vertices", false, "print area-weighted vertex normals instead")
	return cmd
}

func selectMeshes(doc *document.Document, name string) ([]*mesh.Mesh, error) {
	if name == "" {
		return doc.Meshes, nil
	}
	m, ok := doc.MeshByName(name)
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "mesh %q not found", name)
	}
	return []*mesh.Mesh{m}, nil
}

func printMeshNormals(m *mesh.Mesh, vertices bool) {
	printTitle("%s", m.Name)
	if vertices {
		for _, v := range m.Vertices() {
			if len(m.FacesUsing(v.ID)) == 0 {
				continue
			}
			n, err := m.VertexNormal(v.ID)
			if err != nil {
				printWarning("%s: %s", v.ID, errors.UserMessage(err))
				continue
			}
			printKeyValue(shortID(v.ID.String()), n.String())
		}
		return
	}
	for _, f := range m.Faces() {
		n, err := m.FaceNormal(f.ID)
		if err != nil {
			printWarning("%s: %s", f.ID, errors.UserMessage(err))
			continue
		}
		area, _ := m.FaceArea(f.ID)
		centroid, _ := m.FaceCentroid(f.ID)
		boundary, _ := m.FaceBoundary(f.ID)
		printKeyValue(shortID(f.ID.String()), fmt.Sprintf("%v  area %.6g  perimeter %.6g  at %v", n, area, boundary.Length(), centroid))
	}
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
