// Package render exports meshes in the form a rasterizing shader consumes.
//
// # Overview
//
// The package does not draw anything and owns no GPU resources. It turns a
// [mesh.Mesh] into an interleaved float32 vertex [Buffer] and computes the
// [Uniforms] a Blinn-Phong vertex/fragment shader pair expects: model, view,
// projection and normal matrices plus a small lighting parameter set.
//
// # Vertex Layout
//
// Every vertex occupies [Stride] consecutive float32 values:
//
//	offset 0: position x, y, z
//	offset 3: normal   x, y, z
//	offset 6: color    r, g, b
//
// [BuildFlat] emits three vertices per triangle with the face normal, which
// gives hard edges. [BuildSmooth] emits one vertex per mesh vertex with an
// area-weighted vertex normal and an index list of triangles.
//
// # Colors
//
// Colors come from "color" vector attributes and are passed through
// unchanged. The first match wins: face, then vertex, then mesh, then
// [Options.DefaultColor]. A "color" attribute of any other kind is an
// ATTRIBUTE_TYPE error rather than being ignored.
//
// # Uniforms
//
// Matrices use cogentcore's math32 types so they can be uploaded directly:
//
//	u, err := render.NewUniforms(geometry.Identity(), render.FrameBounds(lo, hi, 16.0/9), render.DefaultLighting())
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output, such as diagrams from the
// [nodelink] subpackage, using the external rsvg-convert tool.
//
// [nodelink]: github.com/matzehuels/openmodel/pkg/render/nodelink
package render
