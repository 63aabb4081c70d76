package gt

// GraphFile is a graph decoded from the gt format. It is built in one
// decode call and never changes afterwards; slices returned by its
// accessors are views that callers must not modify.
type GraphFile struct {
	version    uint8
	endianness uint8
	comment    string
	directed   bool
	adjacency  [][]uint64
	edgeCount  uint64
	properties []*Property
}

// Version returns the format version byte (always 1).
func (g *GraphFile) Version() uint8 { return g.version }

// Endianness returns the endianness byte (always 0, little-endian).
func (g *GraphFile) Endianness() uint8 { return g.endianness }

// Comment returns the free-form header comment.
func (g *GraphFile) Comment() string { return g.comment }

// Directed reports whether the graph is directed.
func (g *GraphFile) Directed() bool { return g.directed }

// VertexCount returns the number of vertices.
func (g *GraphFile) VertexCount() uint64 { return uint64(len(g.adjacency)) }

// EdgeCount returns the number of edges, the sum of all out-neighbor
// list lengths.
func (g *GraphFile) EdgeCount() uint64 { return g.edgeCount }

// Adjacency returns the out-neighbor lists, one per vertex in vertex order.
func (g *GraphFile) Adjacency() [][]uint64 { return g.adjacency }

// OutNeighbors returns the out-neighbor list of v, or nil if v is out of range.
func (g *GraphFile) OutNeighbors(v uint64) []uint64 {
	if v >= uint64(len(g.adjacency)) {
		return nil
	}
	return g.adjacency[v]
}

// Properties returns all property maps in declaration order.
func (g *GraphFile) Properties() []*Property { return g.properties }

// Property returns the first declared property called name whose map type
// passes filter. ok is false when nothing matches.
func (g *GraphFile) Property(name string, filter MapFilter) (*Property, bool) {
	for _, p := range g.properties {
		if p.name == name && filter.Match(p.mapType) {
			return p, true
		}
	}
	return nil, false
}

// PropertyNames lists the names of properties passing filter in
// declaration order. Duplicate names are kept.
func (g *GraphFile) PropertyNames(filter MapFilter) []string {
	names := make([]string, 0, len(g.properties))
	for _, p := range g.properties {
		if filter.Match(p.mapType) {
			names = append(names, p.name)
		}
	}
	return names
}

// Summary describes a decoded graph without its adjacency or values.
type Summary struct {
	Version     uint8          `json:"version" bson:"version"`
	Comment     string         `json:"comment,omitempty" bson:"comment,omitempty"`
	Directed    bool           `json:"directed" bson:"directed"`
	VertexCount uint64         `json:"vertex_count" bson:"vertex_count"`
	EdgeCount   uint64         `json:"edge_count" bson:"edge_count"`
	Properties  []PropertyInfo `json:"properties" bson:"properties"`
}

// Summary returns the header fields, counts and property descriptors.
func (g *GraphFile) Summary() Summary {
	props := make([]PropertyInfo, len(g.properties))
	for i, p := range g.properties {
		props[i] = p.Info()
	}
	return Summary{
		Version:     g.version,
		Comment:     g.comment,
		Directed:    g.directed,
		VertexCount: g.VertexCount(),
		EdgeCount:   g.edgeCount,
		Properties:  props,
	}
}
