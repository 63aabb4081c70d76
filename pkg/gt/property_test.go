package gt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gtreader/internal/testutil"
	"github.com/matzehuels/gtreader/pkg/errors"
)

// twoVertices wraps a single vertex property over a graph with vertices 0
// and 1 and no edges.
func twoVertices(valueType uint8, payload func(w *testutil.Writer)) []byte {
	return testutil.File{
		Adjacency: [][]uint64{{}, {}},
		Properties: []testutil.Property{
			{MapType: testutil.VertexMap, Name: "p", ValueType: valueType, Payload: payload},
		},
	}.Bytes()
}

func TestDecodeValueTypes(t *testing.T) {
	tests := []struct {
		name      string
		valueType uint8
		payload   func(w *testutil.Writer)
		want      Values
	}{
		{"bool", testutil.Bool, func(w *testutil.Writer) { w.U8(1).U8(0) },
			Bools{true, false}},
		{"int16", testutil.Int16, func(w *testutil.Writer) { w.U16(0xFFFF).U16(7) },
			Int16s{-1, 7}},
		{"int32", testutil.Int32, func(w *testutil.Writer) { w.U32(0x80000000).U32(42) },
			Int32s{math.MinInt32, 42}},
		{"int64", testutil.Int64, func(w *testutil.Writer) { w.U64(math.MaxUint64).U64(1 << 40) },
			Int64s{-1, 1 << 40}},
		{"double", testutil.Double, func(w *testutil.Writer) { w.F64(3.25).F64(-0.5) },
			Doubles{3.25, -0.5}},
		{"long double", testutil.LongDouble, func(w *testutil.Writer) { w.U128(42, 0).U128(0, 1) },
			LongDoubles{42, math.Ldexp(1, 64)}},
		{"string", testutil.String, func(w *testutil.Writer) { w.Text("alpha").Text("") },
			Strings{"alpha", ""}},
		{"vector bool", testutil.VectorBool, func(w *testutil.Writer) { w.U64(2).U8(0).U8(1).U64(0) },
			BoolVectors{{false, true}, {}}},
		{"vector int16", testutil.VectorInt16, func(w *testutil.Writer) { w.U64(1).U16(5).U64(1).U16(0x8000) },
			Int16Vectors{{5}, {math.MinInt16}}},
		{"vector int32", testutil.VectorInt32, func(w *testutil.Writer) { w.U64(0).U64(2).U32(1).U32(2) },
			Int32Vectors{{}, {1, 2}}},
		{"vector int64", testutil.VectorInt64, func(w *testutil.Writer) { w.U64(1).U64(9).U64(1).U64(10) },
			Int64Vectors{{9}, {10}}},
		{"vector double", testutil.VectorDouble, func(w *testutil.Writer) { w.U64(2).F64(1).F64(2).U64(1).F64(0.125) },
			DoubleVectors{{1, 2}, {0.125}}},
		{"vector long double", testutil.VectorLongDouble, func(w *testutil.Writer) { w.U64(1).U128(8, 0).U64(0) },
			LongDoubleVectors{{8}, {}}},
		{"vector string", testutil.VectorString, func(w *testutil.Writer) { w.U64(2).Text("a").Text("bc").U64(1).Text("") },
			StringVectors{{"a", "bc"}, {""}}},
		{"python object", testutil.PyObject, func(w *testutil.Writer) { w.Text("\x80\x04N.").U64(0) },
			PyObjects{{0x80, 0x04, 'N', '.'}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(twoVertices(tt.valueType, tt.payload))
			require.NoError(t, err)
			require.Len(t, g.Properties(), 1)

			p := g.Properties()[0]
			assert.Equal(t, "p", p.Name())
			assert.Equal(t, VertexMap, p.MapType())
			assert.Equal(t, ValueType(tt.valueType), p.ValueType())
			assert.Equal(t, tt.want.Type(), p.Values().Type())
			assert.Equal(t, 2, p.Len())
			assert.Equal(t, tt.want, p.Values())
		})
	}
}

func TestLongDoubleWidening(t *testing.T) {
	raw := twoVertices(testutil.LongDouble, func(w *testutil.Writer) {
		w.U128(3, 1).U128(math.MaxUint64, 0)
	})
	g, err := Parse(raw)
	require.NoError(t, err)

	v := g.Properties()[0].Values().(LongDoubles)
	// The low bits of a 2^64 + 3 do not survive widening.
	assert.Equal(t, math.Ldexp(1, 64), v[0])
	assert.Equal(t, float64(math.MaxUint64), v[1])
}

func TestValuesAt(t *testing.T) {
	var v Values = Doubles{1.5, 2.5}
	assert.Equal(t, 2.5, v.At(1))

	v = StringVectors{{"x"}}
	assert.Equal(t, []string{"x"}, v.At(0))
}

func TestDecodeGraphAndEdgeMaps(t *testing.T) {
	g, err := Parse(testutil.Sample())
	require.NoError(t, err)

	desc, ok := g.Property("description", Only(GraphMap))
	require.True(t, ok)
	assert.Equal(t, Strings{"triangle"}, desc.Values())
	assert.Equal(t, 1, desc.Len())

	weight, ok := g.Property("weight", Only(EdgeMap))
	require.True(t, ok)
	assert.Equal(t, TypeInt32, weight.ValueType())
	assert.Equal(t, Int32s{10, 20, 30, 40}, weight.Values())
	assert.Equal(t, int(g.EdgeCount()), weight.Len())
}

func TestPropertyLookup(t *testing.T) {
	raw := testutil.File{
		Adjacency: [][]uint64{{1}, {}},
		Properties: []testutil.Property{
			{MapType: testutil.VertexMap, Name: "x", ValueType: testutil.Int16, Payload: func(w *testutil.Writer) {
				w.U16(1).U16(2)
			}},
			{MapType: testutil.EdgeMap, Name: "w", ValueType: testutil.Double, Payload: func(w *testutil.Writer) {
				w.F64(9)
			}},
			{MapType: testutil.VertexMap, Name: "x", ValueType: testutil.Int16, Payload: func(w *testutil.Writer) {
				w.U16(3).U16(4)
			}},
			{MapType: testutil.VertexMap, Name: "w", ValueType: testutil.Bool, Payload: func(w *testutil.Writer) {
				w.U8(0).U8(1)
			}},
		},
	}.Bytes()

	g, err := Parse(raw)
	require.NoError(t, err)

	t.Run("first declared duplicate wins", func(t *testing.T) {
		p, ok := g.Property("x", AnyMap)
		require.True(t, ok)
		assert.Equal(t, Int16s{1, 2}, p.Values())

		p, ok = g.Property("x", Only(VertexMap))
		require.True(t, ok)
		assert.Equal(t, Int16s{1, 2}, p.Values())
	})

	t.Run("filter never crosses map types", func(t *testing.T) {
		p, ok := g.Property("w", Only(VertexMap))
		require.True(t, ok)
		assert.Equal(t, VertexMap, p.MapType())
		assert.Equal(t, Bools{false, true}, p.Values())

		p, ok = g.Property("w", Only(EdgeMap))
		require.True(t, ok)
		assert.Equal(t, Doubles{9}, p.Values())

		_, ok = g.Property("x", Only(EdgeMap))
		assert.False(t, ok)
		_, ok = g.Property("w", Only(GraphMap))
		assert.False(t, ok)
	})

	t.Run("absent", func(t *testing.T) {
		p, ok := g.Property("missing", AnyMap)
		assert.False(t, ok)
		assert.Nil(t, p)
	})

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, []string{"x", "w", "x", "w"}, g.PropertyNames(AnyMap))
		assert.Equal(t, []string{"x", "x", "w"}, g.PropertyNames(Only(VertexMap)))
		assert.Equal(t, []string{"w"}, g.PropertyNames(Only(EdgeMap)))
		assert.Empty(t, g.PropertyNames(Only(GraphMap)))
	})
}

func TestDecodePropertyErrors(t *testing.T) {
	header := func(w *testutil.Writer) {
		w.Raw(testutil.Magic).U8(1).U8(0).Text("").U8(0).U64(1).U64(0)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{"missing property count", func() []byte {
			var w testutil.Writer
			header(&w)
			return w.Bytes()
		}()},
		{"property count beyond input", func() []byte {
			var w testutil.Writer
			header(&w)
			w.U64(1 << 50)
			return w.Bytes()
		}()},
		{"unknown map type", func() []byte {
			var w testutil.Writer
			header(&w)
			w.U64(1).U8(3).Text("p").U8(testutil.Bool).U8(0)
			return w.Bytes()
		}()},
		{"unknown value type", twoVertices(15, func(w *testutil.Writer) { w.U8(0).U8(0) })},
		{"invalid bool byte", twoVertices(testutil.Bool, func(w *testutil.Writer) { w.U8(1).U8(2) })},
		{"truncated doubles", twoVertices(testutil.Double, func(w *testutil.Writer) { w.F64(1) })},
		{"truncated name", func() []byte {
			var w testutil.Writer
			header(&w)
			w.U64(1).U8(1).U64(100).Raw([]byte("short"))
			return w.Bytes()
		}()},
		{"string length beyond input", twoVertices(testutil.String, func(w *testutil.Writer) {
			w.U64(math.MaxUint64)
		})},
		{"vector count beyond input", twoVertices(testutil.VectorInt64, func(w *testutil.Writer) {
			w.U64(1 << 60)
		})},
		{"truncated python object", twoVertices(testutil.PyObject, func(w *testutil.Writer) {
			w.U64(0).U64(10).Raw([]byte{1, 2})
		})},
		{"missing second property", func() []byte {
			var w testutil.Writer
			header(&w)
			w.U64(2).U8(0).Text("g").U8(testutil.Int32).U32(7)
			return w.Bytes()
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Equal(t, errors.ErrCodeMalformedProperty, errors.GetCode(err))
		})
	}
}

func TestSummary(t *testing.T) {
	g, err := Parse(testutil.Sample())
	require.NoError(t, err)

	s := g.Summary()
	assert.Equal(t, uint8(1), s.Version)
	assert.Equal(t, "sample", s.Comment)
	assert.True(t, s.Directed)
	assert.Equal(t, uint64(3), s.VertexCount)
	assert.Equal(t, uint64(4), s.EdgeCount)
	assert.Equal(t, []PropertyInfo{
		{Name: "description", MapType: "graph", ValueType: "string", Len: 1},
		{Name: "name", MapType: "vertex", ValueType: "string", Len: 3},
		{Name: "weight", MapType: "vertex", ValueType: "double", Len: 3},
		{Name: "weight", MapType: "edge", ValueType: "int32_t", Len: 4},
	}, s.Properties)
}

func TestParseMapFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    MapFilter
		wantErr bool
	}{
		{"", AnyMap, false},
		{"any", AnyMap, false},
		{"graph", Only(GraphMap), false},
		{"Vertex", Only(VertexMap), false},
		{"node", Only(VertexMap), false},
		{"e", Only(EdgeMap), false},
		{"hyperedge", AnyMap, true},
	}
	for _, tt := range tests {
		got, err := ParseMapFilter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.Equal(t, "any", AnyMap.String())
	assert.Equal(t, "edge", Only(EdgeMap).String())
	assert.True(t, AnyMap.Match(GraphMap))
	assert.False(t, Only(VertexMap).Match(EdgeMap))
}

func TestValueTypeString(t *testing.T) {
	assert.Equal(t, "bool", TypeBool.String())
	assert.Equal(t, "long double", TypeLongDouble.String())
	assert.Equal(t, "vector<string>", TypeVectorString.String())
	assert.Equal(t, "python::object", TypePyObject.String())
	assert.Equal(t, "ValueType(15)", ValueType(15).String())
	assert.True(t, TypeVectorDouble.IsVector())
	assert.False(t, TypePyObject.IsVector())
	assert.False(t, TypeString.IsVector())
}
