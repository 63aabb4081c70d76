package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/gtreader/pkg/graph"
	"github.com/matzehuels/gtreader/pkg/gt"
)

// Document is the node-link JSON form of a decoded graph.
type Document struct {
	Directed bool           `json:"directed"`
	Comment  string         `json:"comment,omitempty"`
	Graph    map[string]any `json:"graph,omitempty"`
	Nodes    []Node         `json:"nodes"`
	Edges    []Edge         `json:"edges"`
}

// Node is one vertex with its vertex property values.
type Node struct {
	ID         uint64         `json:"id"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is one edge with its edge property values.
type Edge struct {
	Source     uint64         `json:"source"`
	Target     uint64         `json:"target"`
	Properties map[string]any `json:"properties,omitempty"`
}

// NewDocument builds the node-link document for g. When several properties
// of one scope share a name, the first declared one is exported, matching
// property lookup.
func NewDocument(g *graph.Graph) Document {
	doc := Document{
		Directed: g.Directed(),
		Comment:  g.Comment(),
		Nodes:    make([]Node, g.VertexCount()),
		Edges:    make([]Edge, 0, g.EdgeCount()),
	}
	for i := range doc.Nodes {
		doc.Nodes[i].ID = uint64(i)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{Source: e.Source, Target: e.Target})
	}

	for _, p := range g.Properties() {
		values := p.Values()
		switch p.MapType() {
		case gt.GraphMap:
			if doc.Graph == nil {
				doc.Graph = make(map[string]any)
			}
			if _, dup := doc.Graph[p.Name()]; !dup && values.Len() > 0 {
				doc.Graph[p.Name()] = jsonValue(values.At(0))
			}
		case gt.VertexMap:
			for i := range doc.Nodes {
				doc.Nodes[i].Properties = setOnce(doc.Nodes[i].Properties, p.Name(), values.At(i))
			}
		case gt.EdgeMap:
			for i := range doc.Edges {
				doc.Edges[i].Properties = setOnce(doc.Edges[i].Properties, p.Name(), values.At(i))
			}
		}
	}
	return doc
}

// WriteJSON encodes g as indented node-link JSON and writes it to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// PropertyValues returns the JSON-ready values of p in index order.
func PropertyValues(p *gt.Property) []any {
	vals := p.Values()
	out := make([]any, vals.Len())
	for i := range out {
		out[i] = jsonValue(vals.At(i))
	}
	return out
}

func setOnce(m map[string]any, key string, v any) map[string]any {
	if m == nil {
		m = make(map[string]any)
	}
	if _, dup := m[key]; !dup {
		m[key] = jsonValue(v)
	}
	return m
}

// jsonValue replaces floats JSON cannot carry (NaN, ±Inf) with their names.
func jsonValue(v any) any {
	switch x := v.(type) {
	case float64:
		return jsonFloat(x)
	case []float64:
		for _, f := range x {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				out := make([]any, len(x))
				for i, f := range x {
					out[i] = jsonFloat(f)
				}
				return out
			}
		}
	}
	return v
}

func jsonFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return f
}
