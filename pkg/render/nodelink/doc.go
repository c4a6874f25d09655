// Package nodelink renders structural models as node-link diagrams.
//
// # Overview
//
// Nodes appear as circles and members as undirected edges. Supports are
// drawn as grey boxes and loads as red labels, each linked to the node they
// act on. The output is a quick visual check of connectivity, not an
// engineering drawing.
//
// # Usage
//
//	dot := nodelink.ToDOT(model, nodelink.Options{View: nodelink.ViewXZ})
//	svg, err := nodelink.RenderSVG(dot)
//
// With [ViewTopology] Graphviz chooses node positions. The other views pin
// every node to its coordinates projected onto a world plane and switch to
// the neato layout engine so the pins are honoured.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
