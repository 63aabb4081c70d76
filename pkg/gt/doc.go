// Package gt decodes graphs stored in graph-tool's binary "gt" format.
//
// # Overview
//
// A gt file is a little-endian byte stream with three sections: a header,
// the adjacency (one out-neighbor list per vertex) and a list of typed
// property maps. Files are usually distributed zstd-compressed; [Decode]
// unwraps the compression container with package decompress before
// parsing, while [Parse] expects the raw stream.
//
//	g, err := gt.Decode(raw)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.VertexCount(), g.EdgeCount(), g.Directed())
//
// # Layout
//
// The header is the 6-byte [Magic], a version byte (1), an endianness byte
// (0), a length-prefixed comment and a directed flag (0 or 1). The vertex
// count N follows as a u64. Each vertex then carries a u64 neighbor count
// and that many neighbor ids, stored with a width chosen from N alone; see
// [NeighborWidth]. For undirected graphs each edge appears once, in the list
// of the endpoint the writer chose.
//
// The property section is a u64 count followed by entries of the form
// map-type tag, name, value-type tag and values. A graph map holds one
// value, a vertex map holds N and an edge map holds one value per edge in
// adjacency order (all edges of vertex 0 first, then vertex 1, and so on).
//
// # Values
//
// Decoded payloads implement the sealed [Values] interface. Each of the 15
// wire value types has a concrete slice type ([Doubles], [StringVectors],
// [PyObjects], ...), so consumers type-switch rather than assert on any.
// Long doubles are widened to float64. Python objects are kept as opaque
// byte blobs.
//
// # Errors
//
// Decoding either returns a complete [GraphFile] or a single error carrying
// one of the decode codes from package errors: MALFORMED_HEADER,
// MALFORMED_ADJACENCY or MALFORMED_PROPERTY, plus the decompression codes.
// Declared lengths are checked against the remaining input before anything
// is allocated, so a hostile count fails as truncation instead of
// exhausting memory.
package gt
