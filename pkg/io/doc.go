// Package io exports decoded gt graphs as node-link JSON.
//
// # JSON Format
//
// The document carries the directed flag, the header comment, graph
// properties, and one entry per vertex and per edge:
//
//	{
//	  "directed": true,
//	  "graph": {"description": "triangle"},
//	  "nodes": [
//	    {"id": 0, "properties": {"name": "a", "weight": 0.5}}
//	  ],
//	  "edges": [
//	    {"source": 0, "target": 1, "properties": {"weight": 10}}
//	  ]
//	}
//
// Edges appear in adjacency order, the order in which edge property values
// are stored. Vector properties become JSON arrays and python::object blobs
// become base64 strings. NaN and infinite doubles are written as the strings
// "NaN", "+Inf" and "-Inf" since JSON has no literal for them.
//
// This is a presentation format only. Nothing in this package writes the gt
// binary format.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer:
//
//	err := io.ExportJSON(g, "output.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [NewDocument] returns the document itself for callers that embed it in a
// larger response.
package io
