package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/gtreader/pkg/graph"
	gtio "github.com/matzehuels/gtreader/pkg/io"
	"github.com/matzehuels/gtreader/pkg/render/nodelink"
)

// Format constants for export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ContentTypes maps export formats to MIME types.
var ContentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// RenderOptions selects the export format and DOT labels.
type RenderOptions struct {
	Format      string `json:"format"`
	VertexLabel string `json:"vertex_label,omitempty"`
	EdgeLabel   string `json:"edge_label,omitempty"`
}

// Render exports g in the requested format.
func Render(ctx context.Context, g *graph.Graph, opts RenderOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	if opts.Format == FormatJSON {
		var buf bytes.Buffer
		if err := gtio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{VertexLabel: opts.VertexLabel, EdgeLabel: opts.EdgeLabel})
	switch opts.Format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	}
	return []byte(dot), nil
}
