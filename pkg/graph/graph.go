package graph

import (
	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/gt"
)

// Graph is a read-only view over a decoded gt file.
type Graph struct {
	file *gt.GraphFile
}

// Edge is one (source, target) pair of the adjacency.
type Edge struct {
	Source uint64 `json:"source"`
	Target uint64 `json:"target"`
}

// New wraps an already decoded file.
func New(file *gt.GraphFile) *Graph {
	return &Graph{file: file}
}

// Load decodes raw (compressed or not) and wraps the result.
func Load(raw []byte, opts ...gt.Option) (*Graph, error) {
	file, err := gt.Decode(raw, opts...)
	if err != nil {
		return nil, err
	}
	return New(file), nil
}

// File returns the underlying decoded file.
func (g *Graph) File() *gt.GraphFile { return g.file }

// =============================================================================
// Structure
// =============================================================================

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() uint64 { return g.file.VertexCount() }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() uint64 { return g.file.EdgeCount() }

// Directed reports whether edges are directed.
func (g *Graph) Directed() bool { return g.file.Directed() }

// Comment returns the header comment.
func (g *Graph) Comment() string { return g.file.Comment() }

// Vertices returns the vertex ids 0..VertexCount-1.
func (g *Graph) Vertices() []uint64 {
	ids := make([]uint64, g.file.VertexCount())
	for i := range ids {
		ids[i] = uint64(i)
	}
	return ids
}

// Edges returns every edge in adjacency order: all edges of vertex 0 first,
// then vertex 1, and so on. This is also the order of edge property values.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.file.EdgeCount())
	for src, neighbors := range g.file.Adjacency() {
		for _, dst := range neighbors {
			edges = append(edges, Edge{Source: uint64(src), Target: dst})
		}
	}
	return edges
}

// EdgeLists returns the edges as two parallel slices of sources and targets.
func (g *Graph) EdgeLists() (sources, targets []uint64) {
	sources = make([]uint64, 0, g.file.EdgeCount())
	targets = make([]uint64, 0, g.file.EdgeCount())
	for src, neighbors := range g.file.Adjacency() {
		for _, dst := range neighbors {
			sources = append(sources, uint64(src))
			targets = append(targets, dst)
		}
	}
	return sources, targets
}

// OutNeighbors returns the adjacency entry of v. The slice is shared with
// the graph and must not be modified.
func (g *Graph) OutNeighbors(v uint64) ([]uint64, error) {
	if err := g.checkVertex(v); err != nil {
		return nil, err
	}
	return g.file.OutNeighbors(v), nil
}

// InNeighbors scans every adjacency list for edges into v and returns their
// sources in vertex order. A source with several parallel edges into v is
// listed once. Each call costs O(V+E); nothing is cached.
func (g *Graph) InNeighbors(v uint64) ([]uint64, error) {
	if err := g.checkVertex(v); err != nil {
		return nil, err
	}
	in := []uint64{}
	for src, neighbors := range g.file.Adjacency() {
		for _, dst := range neighbors {
			if dst == v {
				in = append(in, uint64(src))
				break
			}
		}
	}
	return in, nil
}

// OutDegree returns the length of v's adjacency entry.
func (g *Graph) OutDegree(v uint64) (int, error) {
	out, err := g.OutNeighbors(v)
	return len(out), err
}

func (g *Graph) checkVertex(v uint64) error {
	if v >= g.file.VertexCount() {
		return errors.New(errors.ErrCodeNotFound,
			"vertex %d out of range (graph has %d vertices)", v, g.file.VertexCount())
	}
	return nil
}

// =============================================================================
// Properties
// =============================================================================

// Property returns the first declared property named name that passes filter.
func (g *Graph) Property(name string, filter gt.MapFilter) (*gt.Property, bool) {
	return g.file.Property(name, filter)
}

// GraphProperty looks name up among graph-scoped properties only.
func (g *Graph) GraphProperty(name string) (*gt.Property, bool) {
	return g.file.Property(name, gt.Only(gt.GraphMap))
}

// VertexProperty looks name up among vertex-scoped properties only.
func (g *Graph) VertexProperty(name string) (*gt.Property, bool) {
	return g.file.Property(name, gt.Only(gt.VertexMap))
}

// EdgeProperty looks name up among edge-scoped properties only.
func (g *Graph) EdgeProperty(name string) (*gt.Property, bool) {
	return g.file.Property(name, gt.Only(gt.EdgeMap))
}

// Properties returns every property map in declaration order.
func (g *Graph) Properties() []*gt.Property { return g.file.Properties() }

// PropertyNames lists property names passing filter in declaration order.
func (g *Graph) PropertyNames(filter gt.MapFilter) []string {
	return g.file.PropertyNames(filter)
}

// GraphPropertyNames lists graph-scoped property names.
func (g *Graph) GraphPropertyNames() []string { return g.PropertyNames(gt.Only(gt.GraphMap)) }

// VertexPropertyNames lists vertex-scoped property names.
func (g *Graph) VertexPropertyNames() []string { return g.PropertyNames(gt.Only(gt.VertexMap)) }

// EdgePropertyNames lists edge-scoped property names.
func (g *Graph) EdgePropertyNames() []string { return g.PropertyNames(gt.Only(gt.EdgeMap)) }

// Summary returns counts and property descriptors.
func (g *Graph) Summary() gt.Summary { return g.file.Summary() }
