// Package pkg provides the libraries behind gtreader, a reader for graph-tool's
// binary "gt" graph format.
//
// # Overview
//
// A gt file stores a graph as a small header, a compact adjacency list and a
// sequence of typed property maps attached to the graph, its vertices or its
// edges. Files are usually distributed zstd-compressed (".gt.zst"), for
// example by the Netzschleuder network catalog. The pkg directory is
// organized into three areas:
//
//  1. Decoding - [decompress], [gt] and [graph]
//  2. Acquisition - [source], [httputil] and [cache]
//  3. Orchestration - [pipeline], [catalog], [server] and [io]
//
// # Architecture
//
// The typical data flow through gtreader:
//
//	file / URL / ns:network
//	         ↓
//	    [source] package (read or fetch, with caching and retries)
//	         ↓
//	    [decompress] package (zstd frames, or raw passthrough)
//	         ↓
//	    [gt] package (header, adjacency, typed properties)
//	         ↓
//	    [graph] package (edges, neighbors, property lookup)
//	         ↓
//	    JSON / DOT / SVG / PNG output
//
// # Quick Start
//
// Decode a file already in memory:
//
//	raw, _ := os.ReadFile("karate.gt.zst")
//	g, err := graph.Load(raw)
//	if err != nil {
//	    return err
//	}
//	for _, e := range g.Edges() {
//	    fmt.Println(e.Source, e.Target)
//	}
//
// Fetch and decode through the pipeline, with caching:
//
//	fc, _ := cache.NewFileCache(dir)
//	r := pipeline.NewRunner(fc, cache.NewDefaultKeyer(), logger)
//	res, err := r.Load(ctx, pipeline.Options{Source: "ns:karate/77"})
//
// # Main Packages
//
// [decompress] - Compression detection and zstd decoding with an output size
// limit. Uncompressed gt data passes through untouched.
//
// [gt] - The gt format itself. [gt.Parse] decodes header, adjacency and
// properties into a [gt.GraphFile]; [gt.Decode] adds decompression.
//
// [graph] - Query layer over a decoded file: edge list, out- and in-neighbors
// and property lookup scoped by map type.
//
// [source] - Reference parsing (file path, http(s) URL, ns: shorthand) and a
// Fetcher with retries, size limits and a byte cache.
//
// [cache] - Cache interface with null, file and Redis backends, plus the
// keyers that name fetch and summary entries.
//
// [pipeline] - Load, Summarize and Render, shared by the CLI and the server.
//
// [catalog] - Records of decoded graphs, in memory or in MongoDB.
//
// [server] - HTTP API for uploading and querying graphs.
//
// [io] - JSON node-link export.
//
// [observability] - Hooks for fetch, decode, cache and HTTP events, with a
// Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test -short ./...          # Skip graphviz rendering
//	go test -run Example ./pkg/...  # Examples only
//
// [decompress]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/decompress
// [gt]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/gt
// [graph]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/graph
// [source]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/source
// [httputil]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/pipeline
// [catalog]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/catalog
// [server]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/server
// [io]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/gtreader/pkg/observability
package pkg
