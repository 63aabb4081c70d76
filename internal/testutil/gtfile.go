// Package testutil builds synthetic gt files for tests.
//
// It writes the binary layout directly so that decoder tests do not depend
// on the decoder they exercise. Nothing here is used outside _test.go files.
package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// Map type tags.
const (
	GraphMap  uint8 = 0
	VertexMap uint8 = 1
	EdgeMap   uint8 = 2
)

// Value type tags.
const (
	Bool uint8 = iota
	Int16
	Int32
	Int64
	Double
	LongDouble
	String
	VectorBool
	VectorInt16
	VectorInt32
	VectorInt64
	VectorDouble
	VectorLongDouble
	VectorString
	PyObject
)

// Magic is the gt file signature.
var Magic = []byte{0xE2, 0x9B, 0xBE, 0x20, 0x67, 0x74}

// Writer appends little-endian gt primitives.
type Writer struct {
	bytes.Buffer
}

func (w *Writer) U8(v uint8) *Writer {
	w.WriteByte(v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	w.Write(binary.LittleEndian.AppendUint16(nil, v))
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.Write(binary.LittleEndian.AppendUint32(nil, v))
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	w.Write(binary.LittleEndian.AppendUint64(nil, v))
	return w
}

func (w *Writer) F64(v float64) *Writer {
	return w.U64(math.Float64bits(v))
}

// U128 writes a 16-byte little-endian value from its two halves.
func (w *Writer) U128(lo, hi uint64) *Writer {
	return w.U64(lo).U64(hi)
}

// Text writes a u64 length prefix followed by s.
func (w *Writer) Text(s string) *Writer {
	w.U64(uint64(len(s)))
	w.WriteString(s)
	return w
}

// Raw writes b unchanged.
func (w *Writer) Raw(b []byte) *Writer {
	w.Write(b)
	return w
}

// Uint writes v with the given byte width.
func (w *Writer) Uint(v uint64, width int) *Writer {
	switch width {
	case 1:
		return w.U8(uint8(v))
	case 2:
		return w.U16(uint16(v))
	case 4:
		return w.U32(uint32(v))
	}
	return w.U64(v)
}

// Property is one property map entry. Payload writes the values; it is
// responsible for writing the right number of them.
type Property struct {
	MapType   uint8
	Name      string
	ValueType uint8
	Payload   func(w *Writer)
}

// File describes a gt file to encode.
type File struct {
	Comment    string
	Directed   bool
	Adjacency  [][]uint64
	Properties []Property

	// VertexCount overrides len(Adjacency) when non-zero, for files that
	// declare more vertices than they carry.
	VertexCount uint64
}

// Width returns the neighbor id width for n vertices.
func Width(n uint64) int {
	switch {
	case n <= math.MaxUint8:
		return 1
	case n <= math.MaxUint16:
		return 2
	case n <= math.MaxUint32:
		return 4
	}
	return 8
}

// Bytes encodes f.
func (f File) Bytes() []byte {
	var w Writer
	w.Raw(Magic).U8(1).U8(0).Text(f.Comment)
	if f.Directed {
		w.U8(1)
	} else {
		w.U8(0)
	}

	n := f.VertexCount
	if n == 0 {
		n = uint64(len(f.Adjacency))
	}
	w.U64(n)
	width := Width(n)
	for _, neighbors := range f.Adjacency {
		w.U64(uint64(len(neighbors)))
		for _, id := range neighbors {
			w.Uint(id, width)
		}
	}

	w.U64(uint64(len(f.Properties)))
	for _, p := range f.Properties {
		w.U8(p.MapType).Text(p.Name).U8(p.ValueType)
		if p.Payload != nil {
			p.Payload(&w)
		}
	}
	return bytes.Clone(w.Bytes())
}

// Example returns the two-vertex undirected file with a single edge 0 -> 1
// and no properties.
func Example() []byte {
	return []byte{
		0xE2, 0x9B, 0xBE, 0x20, 0x67, 0x74, // magic
		0x01,                                           // version
		0x00,                                           // endianness
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // comment length
		0x00,                                           // directed
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // vertex count
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // vertex 0: 1 neighbor
		0x01,                                           // -> 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // vertex 1: 0 neighbors
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // property count
	}
}

// Sample returns a small directed graph with one property of each map type:
//
//	0 -> 1, 0 -> 2, 1 -> 2, 2 -> 0
//	graph  "description" string  "triangle"
//	vertex "name"        string  a, b, c
//	vertex "weight"      double  0.5, 1.5, 2.5
//	edge   "weight"      int32   10, 20, 30, 40
func Sample() []byte {
	return File{
		Comment:   "sample",
		Directed:  true,
		Adjacency: [][]uint64{{1, 2}, {2}, {0}},
		Properties: []Property{
			{MapType: GraphMap, Name: "description", ValueType: String, Payload: func(w *Writer) {
				w.Text("triangle")
			}},
			{MapType: VertexMap, Name: "name", ValueType: String, Payload: func(w *Writer) {
				w.Text("a").Text("b").Text("c")
			}},
			{MapType: VertexMap, Name: "weight", ValueType: Double, Payload: func(w *Writer) {
				w.F64(0.5).F64(1.5).F64(2.5)
			}},
			{MapType: EdgeMap, Name: "weight", ValueType: Int32, Payload: func(w *Writer) {
				w.U32(10).U32(20).U32(30).U32(40)
			}},
		},
	}.Bytes()
}

// Zstd compresses b into a single zstd frame.
func Zstd(tb testing.TB, b []byte) []byte {
	tb.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		tb.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(b, nil)
}

// SkippableFrame returns a zstd skippable frame carrying payload.
func SkippableFrame(payload []byte) []byte {
	var w Writer
	w.U32(0x184D2A50).U32(uint32(len(payload))).Raw(payload)
	return bytes.Clone(w.Bytes())
}
