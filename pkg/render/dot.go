// Package render produces debug visualizations of the wire ordering
// graph: Graphviz DOT text and, via [github.com/goccy/go-graphviz],
// rendered SVG. Rendering is strictly a diagnostic aid - the placement
// result itself is handed to the layout-geometry side as data.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/chipgrid/trackplan/pkg/place"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

// Options configures ordering-graph rendering.
type Options struct {
	// Ordinals, when non-nil, annotates each node with its resolved
	// ordinal.
	Ordinals place.Ordinals

	// Coordinates, when non-nil, annotates each node with its
	// physical coordinate.
	Coordinates place.Coordinates
}

// ToDOT converts the ordering graph to Graphviz DOT format. Edges point
// from lower to higher ordinal; shared wires are drawn with a doubled
// outline. The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *wiregraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph wires {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts))}
		if n.Shared {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *wiregraph.Node, opts Options) string {
	parts := []string{n.ID.String()}
	if n.WireType != "" && n.WireType != n.ID.Name {
		parts = append(parts, "type: "+n.WireType)
	}
	if opts.Ordinals != nil {
		if ord, ok := opts.Ordinals[n.ID]; ok {
			parts = append(parts, fmt.Sprintf("ordinal: %d", ord))
		}
	}
	if opts.Coordinates != nil {
		if c, ok := opts.Coordinates[n.ID]; ok {
			parts = append(parts, fmt.Sprintf("coord: %d", c))
		}
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return buf.Bytes(), nil
}
