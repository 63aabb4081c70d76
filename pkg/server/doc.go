// Package server exposes decoded graphs over a read-only JSON API.
//
// Graphs are loaded into an in-memory registry and addressed by a random
// UUID. The registry holds at most Config.MaxGraphs graphs and evicts the
// oldest on overflow.
//
// # Routes
//
//	POST   /graphs                              load from the body or ?source=
//	GET    /graphs                              list loaded graphs
//	GET    /graphs/{id}                         summary
//	DELETE /graphs/{id}                         unload
//	GET    /graphs/{id}/edges                   flattened edge list
//	GET    /graphs/{id}/vertices/{v}/out        out-neighbors
//	GET    /graphs/{id}/vertices/{v}/in         in-neighbors
//	GET    /graphs/{id}/properties?map=         property descriptors
//	GET    /graphs/{id}/properties/{name}?map=  property values
//	GET    /graphs/{id}/export?format=          json, dot, svg or png
//	GET    /catalog?limit=                      recorded decodes
//	GET    /healthz                             build info and graph count
//	GET    /metrics                             Prometheus metrics, when enabled
//
// Errors are JSON objects {"error": ..., "code": ...} whose HTTP status is
// derived from the error code: malformed input maps to 422, unsupported
// compression to 415, oversized payloads to 413 and unknown ids or vertices
// to 404. Local file paths are never accepted as sources.
package server
