package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gtreader/pkg/graph"
	"github.com/matzehuels/gtreader/pkg/gt"
)

// Options configures node-link diagram rendering.
type Options struct {
	// VertexLabel names a vertex property whose values label the nodes.
	// Empty or unknown names fall back to the vertex id.
	VertexLabel string

	// EdgeLabel names an edge property whose values label the edges.
	EdgeLabel string
}

// ToDOT converts a decoded graph to Graphviz DOT. Directed graphs become a
// digraph, undirected ones a graph with "--" edges.
func ToDOT(g *graph.Graph, opts Options) string {
	kind, arrow := "graph", "--"
	if g.Directed() {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	vlabel := lookup(g, opts.VertexLabel, gt.VertexMap)
	for v := range g.VertexCount() {
		label := strconv.FormatUint(v, 10)
		if vlabel != nil {
			label = fmtValue(vlabel.At(int(v)))
		}
		fmt.Fprintf(&buf, "  %d [label=%q];\n", v, label)
	}

	buf.WriteString("\n")
	elabel := lookup(g, opts.EdgeLabel, gt.EdgeMap)
	for i, e := range g.Edges() {
		if elabel != nil {
			fmt.Fprintf(&buf, "  %d %s %d [label=%q];\n", e.Source, arrow, e.Target, fmtValue(elabel.At(i)))
			continue
		}
		fmt.Fprintf(&buf, "  %d %s %d;\n", e.Source, arrow, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func lookup(g *graph.Graph, name string, mt gt.MapType) gt.Values {
	if name == "" {
		return nil
	}
	p, ok := g.Property(name, gt.Only(mt))
	if !ok {
		return nil
	}
	return p.Values()
}

func fmtValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(x))
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Trim(fmt.Sprint(v), "[]")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
