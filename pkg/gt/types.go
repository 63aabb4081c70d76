package gt

import (
	"fmt"
	"strings"
)

// =============================================================================
// Map Types
// =============================================================================

// MapType is the scope of a property map, which fixes its element count.
type MapType uint8

// Map types in wire tag order.
const (
	GraphMap  MapType = iota // one value for the whole graph
	VertexMap                // one value per vertex
	EdgeMap                  // one value per edge, in adjacency order
)

// String returns "graph", "vertex" or "edge".
func (m MapType) String() string {
	switch m {
	case GraphMap:
		return "graph"
	case VertexMap:
		return "vertex"
	case EdgeMap:
		return "edge"
	}
	return fmt.Sprintf("MapType(%d)", uint8(m))
}

// cardinality returns how many values a property of this map type holds.
func (m MapType) cardinality(vertices, edges uint64) uint64 {
	switch m {
	case GraphMap:
		return 1
	case VertexMap:
		return vertices
	case EdgeMap:
		return edges
	}
	return 0
}

func mapTypeFromTag(tag uint8) (MapType, bool) {
	switch MapType(tag) {
	case GraphMap, VertexMap, EdgeMap:
		return MapType(tag), true
	}
	return 0, false
}

// ParseMapType parses "graph", "vertex" or "edge" (case-insensitive).
func ParseMapType(s string) (MapType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "graph", "g":
		return GraphMap, nil
	case "vertex", "v", "node":
		return VertexMap, nil
	case "edge", "e":
		return EdgeMap, nil
	}
	return 0, fmt.Errorf("unknown map type %q (want graph, vertex or edge)", s)
}

// MapFilter restricts property lookups to one map type.
// The zero value matches every map type.
type MapFilter struct {
	mapType MapType
	set     bool
}

// AnyMap matches properties of every map type.
var AnyMap = MapFilter{}

// Only matches properties of exactly mt.
func Only(mt MapType) MapFilter {
	return MapFilter{mapType: mt, set: true}
}

// Match reports whether a property of type mt passes the filter.
func (f MapFilter) Match(mt MapType) bool {
	return !f.set || f.mapType == mt
}

// MapType returns the required map type, if any.
func (f MapFilter) MapType() (MapType, bool) {
	return f.mapType, f.set
}

// String returns the map type name or "any".
func (f MapFilter) String() string {
	if !f.set {
		return "any"
	}
	return f.mapType.String()
}

// ParseMapFilter parses a map type name; "" and "any"/"all" yield AnyMap.
func ParseMapFilter(s string) (MapFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return AnyMap, nil
	}
	mt, err := ParseMapType(s)
	if err != nil {
		return AnyMap, err
	}
	return Only(mt), nil
}

// =============================================================================
// Value Types
// =============================================================================

// ValueType is the element type of a property map.
type ValueType uint8

// Value types in wire tag order.
const (
	TypeBool ValueType = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeDouble
	TypeLongDouble
	TypeString
	TypeVectorBool
	TypeVectorInt16
	TypeVectorInt32
	TypeVectorInt64
	TypeVectorDouble
	TypeVectorLongDouble
	TypeVectorString
	TypePyObject
)

var valueTypeNames = [...]string{
	TypeBool:             "bool",
	TypeInt16:            "int16_t",
	TypeInt32:            "int32_t",
	TypeInt64:            "int64_t",
	TypeDouble:           "double",
	TypeLongDouble:       "long double",
	TypeString:           "string",
	TypeVectorBool:       "vector<bool>",
	TypeVectorInt16:      "vector<int16_t>",
	TypeVectorInt32:      "vector<int32_t>",
	TypeVectorInt64:      "vector<int64_t>",
	TypeVectorDouble:     "vector<double>",
	TypeVectorLongDouble: "vector<long double>",
	TypeVectorString:     "vector<string>",
	TypePyObject:         "python::object",
}

// String returns the graph-tool name of the type, e.g. "vector<double>".
func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// IsVector reports whether each element is itself a sequence.
func (t ValueType) IsVector() bool {
	return t >= TypeVectorBool && t <= TypeVectorString
}

func valueTypeFromTag(tag uint8) (ValueType, bool) {
	if int(tag) < len(valueTypeNames) {
		return ValueType(tag), true
	}
	return 0, false
}
