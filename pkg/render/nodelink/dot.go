package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/render"
	"github.com/matzehuels/openmodel/pkg/structure"
)

// View selects the world plane node positions are projected onto.
type View int

const (
	// ViewTopology ignores coordinates and lets Graphviz place nodes.
	ViewTopology View = iota
	ViewXY
	ViewXZ
	ViewYZ
)

// ParseView accepts "topology", "xy", "xz" and "yz".
func ParseView(s string) (View, error) {
	switch strings.ToLower(s) {
	case "", "topology":
		return ViewTopology, nil
	case "xy":
		return ViewXY, nil
	case "xz":
		return ViewXZ, nil
	case "yz":
		return ViewYZ, nil
	}
	return 0, fmt.Errorf("unknown view %q (want topology, xy, xz or yz)", s)
}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds coordinates, restraints and load vectors to labels.
	// When false, nodes are labelled with a short ID prefix.
	Detailed bool

	// View pins nodes to their projected coordinates.
	View View

	// Scale converts model units to inches for pinned views. Zero means 1.
	Scale float64
}

// ToDOT converts a structural model to Graphviz DOT format. Members become
// undirected edges between nodes; supports and loads become small attached
// nodes so they show up without altering the member graph.
func ToDOT(m *structure.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.View != ViewTopology {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, width=0.3];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	for _, n := range m.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		if x, y, ok := project(n.Point, opts.View); ok {
			attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", x*scale, y*scale))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, mb := range m.Members() {
		fmt.Fprintf(&buf, "  %q -- %q [id=%q];\n", mb.Start.String(), mb.End.String(), mb.ID.String())
	}

	if m.SupportCount() > 0 {
		buf.WriteString("\n")
	}
	for _, s := range m.Supports() {
		label := "S"
		if opts.Detailed {
			label = s.Restraint.String()
		}
		fmt.Fprintf(&buf, "  %q [shape=box, fillcolor=lightgrey, fontsize=10, label=%q];\n", s.ID.String(), label)
		fmt.Fprintf(&buf, "  %q -- %q [style=dashed, penwidth=1];\n", s.ID.String(), s.Node.String())
	}

	if m.LoadCount() > 0 {
		buf.WriteString("\n")
	}
	for _, l := range m.Loads() {
		label := "F"
		if opts.Detailed {
			label = fmt.Sprintf("F %s\nM %s", triple(l.Force), triple(l.Moment))
		}
		fmt.Fprintf(&buf, "  %q [shape=plaintext, fillcolor=none, fontcolor=firebrick, fontsize=10, label=%q];\n", l.ID.String(), label)
		fmt.Fprintf(&buf, "  %q -- %q [color=firebrick, penwidth=1, dir=forward];\n", l.ID.String(), l.Node.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n structure.Node, detailed bool) string {
	label := shortID(n.ID)
	if name, err := n.Attributes.String("name"); err == nil {
		label = name
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n(%g, %g, %g)", label, n.Point.X, n.Point.Y, n.Point.Z)
}

func shortID(id identity.ID) string {
	return id.String()[:8]
}

func triple(v geometry.Vector) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func project(p geometry.Point, v View) (x, y float64, ok bool) {
	switch v {
	case ViewXY:
		return p.X, p.Y, true
	case ViewXZ:
		return p.X, p.Z, true
	case ViewYZ:
		return p.Y, p.Z, true
	}
	return 0, 0, false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg header with a
// zero-origin viewBox so the diagram scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
