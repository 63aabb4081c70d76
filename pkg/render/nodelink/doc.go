// Package nodelink draws decoded gt graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render it in-process:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{VertexLabel: "name"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Directed graphs produce a digraph with "->" edges; undirected graphs a
// graph with "--" edges. Vertex and edge labels can be taken from a vertex
// or edge property; vectors are joined with spaces and python::object
// blobs are shown by size only.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// compiled to WebAssembly, so no system Graphviz install is needed. Layout
// cost grows quickly with graph size; callers should cap the vertex count
// before rendering large networks.
package nodelink
