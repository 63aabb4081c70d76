// Package graph is the query layer over decoded gt files.
//
// A [Graph] wraps an immutable [gt.GraphFile] and answers structural and
// attribute questions without decoding anything itself:
//
//	g, err := graph.Load(raw)
//	if err != nil {
//	    return err
//	}
//	out, _ := g.OutNeighbors(0)
//	in, _ := g.InNeighbors(0)
//	weight, ok := g.EdgeProperty("weight")
//
// # Edges
//
// [Graph.Edges] flattens the adjacency into (source, target) pairs in
// adjacency order, which is also the order of every edge property's values:
// the i-th edge owns the i-th value. For undirected graphs each edge appears
// once, under whichever endpoint the file stored it.
//
// # Neighbors
//
// Out-neighbors are a direct view of the stored adjacency entry. In-neighbors
// are found by scanning every list on each call; there is no reverse index.
// Vertex ids outside 0..VertexCount-1 fail with errors.ErrCodeNotFound.
//
// # Properties
//
// Lookups take a [gt.MapFilter]. The per-scope helpers ([Graph.VertexProperty]
// and friends) never return a property of another map type, even when names
// collide. Among duplicates the first declared property wins.
//
// # Concurrency
//
// A Graph is never modified after construction and is safe for concurrent use.
package graph
