package gt

import "fmt"

// Values is the typed payload of one property map: a sequence with exactly
// one element per graph, vertex or edge, all of the same kind.
//
// The set of implementations is closed. Consumers type-switch over the
// concrete types:
//
//	switch v := p.Values().(type) {
//	case gt.Doubles:
//	    sum := 0.0
//	    for _, x := range v { sum += x }
//	case gt.Strings:
//	    ...
//	}
//
// The returned slices are views into the decoded graph and must be treated
// as read-only.
type Values interface {
	// Type returns the value type the payload was decoded as.
	Type() ValueType
	// Len returns the number of elements.
	Len() int
	// At returns element i boxed as any (e.g. float64, []int32, string).
	At(i int) any

	values()
}

type (
	Bools             []bool
	Int16s            []int16
	Int32s            []int32
	Int64s            []int64
	Doubles           []float64
	LongDoubles       []float64
	Strings           []string
	BoolVectors       [][]bool
	Int16Vectors      [][]int16
	Int32Vectors      [][]int32
	Int64Vectors      [][]int64
	DoubleVectors     [][]float64
	LongDoubleVectors [][]float64
	StringVectors     [][]string
	PyObjects         [][]byte
)

func (Bools) Type() ValueType             { return TypeBool }
func (Int16s) Type() ValueType            { return TypeInt16 }
func (Int32s) Type() ValueType            { return TypeInt32 }
func (Int64s) Type() ValueType            { return TypeInt64 }
func (Doubles) Type() ValueType           { return TypeDouble }
func (LongDoubles) Type() ValueType       { return TypeLongDouble }
func (Strings) Type() ValueType           { return TypeString }
func (BoolVectors) Type() ValueType       { return TypeVectorBool }
func (Int16Vectors) Type() ValueType      { return TypeVectorInt16 }
func (Int32Vectors) Type() ValueType      { return TypeVectorInt32 }
func (Int64Vectors) Type() ValueType      { return TypeVectorInt64 }
func (DoubleVectors) Type() ValueType     { return TypeVectorDouble }
func (LongDoubleVectors) Type() ValueType { return TypeVectorLongDouble }
func (StringVectors) Type() ValueType     { return TypeVectorString }
func (PyObjects) Type() ValueType         { return TypePyObject }

func (v Bools) Len() int             { return len(v) }
func (v Int16s) Len() int            { return len(v) }
func (v Int32s) Len() int            { return len(v) }
func (v Int64s) Len() int            { return len(v) }
func (v Doubles) Len() int           { return len(v) }
func (v LongDoubles) Len() int       { return len(v) }
func (v Strings) Len() int           { return len(v) }
func (v BoolVectors) Len() int       { return len(v) }
func (v Int16Vectors) Len() int      { return len(v) }
func (v Int32Vectors) Len() int      { return len(v) }
func (v Int64Vectors) Len() int      { return len(v) }
func (v DoubleVectors) Len() int     { return len(v) }
func (v LongDoubleVectors) Len() int { return len(v) }
func (v StringVectors) Len() int     { return len(v) }
func (v PyObjects) Len() int         { return len(v) }

func (v Bools) At(i int) any             { return v[i] }
func (v Int16s) At(i int) any            { return v[i] }
func (v Int32s) At(i int) any            { return v[i] }
func (v Int64s) At(i int) any            { return v[i] }
func (v Doubles) At(i int) any           { return v[i] }
func (v LongDoubles) At(i int) any       { return v[i] }
func (v Strings) At(i int) any           { return v[i] }
func (v BoolVectors) At(i int) any       { return v[i] }
func (v Int16Vectors) At(i int) any      { return v[i] }
func (v Int32Vectors) At(i int) any      { return v[i] }
func (v Int64Vectors) At(i int) any      { return v[i] }
func (v DoubleVectors) At(i int) any     { return v[i] }
func (v LongDoubleVectors) At(i int) any { return v[i] }
func (v StringVectors) At(i int) any     { return v[i] }
func (v PyObjects) At(i int) any         { return v[i] }

func (Bools) values()             {}
func (Int16s) values()            {}
func (Int32s) values()            {}
func (Int64s) values()            {}
func (Doubles) values()           {}
func (LongDoubles) values()       {}
func (Strings) values()           {}
func (BoolVectors) values()       {}
func (Int16Vectors) values()      {}
func (Int32Vectors) values()      {}
func (Int64Vectors) values()      {}
func (DoubleVectors) values()     {}
func (LongDoubleVectors) values() {}
func (StringVectors) values()     {}
func (PyObjects) values()         {}

// decodeValues reads n elements of type t from c.
func decodeValues(c *cursor, t ValueType, n uint64) (Values, error) {
	switch t {
	case TypeBool:
		v, err := readSeq(c, n, 1, readBool)
		return Bools(v), err
	case TypeInt16:
		v, err := readSeq(c, n, 2, readInt16)
		return Int16s(v), err
	case TypeInt32:
		v, err := readSeq(c, n, 4, readInt32)
		return Int32s(v), err
	case TypeInt64:
		v, err := readSeq(c, n, 8, readInt64)
		return Int64s(v), err
	case TypeDouble:
		v, err := readSeq(c, n, 8, readDouble)
		return Doubles(v), err
	case TypeLongDouble:
		v, err := readSeq(c, n, 16, readLongDouble)
		return LongDoubles(v), err
	case TypeString:
		v, err := readSeq(c, n, 8, readString)
		return Strings(v), err
	case TypeVectorBool:
		v, err := readSeq(c, n, 8, vectorOf(1, readBool))
		return BoolVectors(v), err
	case TypeVectorInt16:
		v, err := readSeq(c, n, 8, vectorOf(2, readInt16))
		return Int16Vectors(v), err
	case TypeVectorInt32:
		v, err := readSeq(c, n, 8, vectorOf(4, readInt32))
		return Int32Vectors(v), err
	case TypeVectorInt64:
		v, err := readSeq(c, n, 8, vectorOf(8, readInt64))
		return Int64Vectors(v), err
	case TypeVectorDouble:
		v, err := readSeq(c, n, 8, vectorOf(8, readDouble))
		return DoubleVectors(v), err
	case TypeVectorLongDouble:
		v, err := readSeq(c, n, 8, vectorOf(16, readLongDouble))
		return LongDoubleVectors(v), err
	case TypeVectorString:
		v, err := readSeq(c, n, 8, vectorOf(8, readString))
		return StringVectors(v), err
	case TypePyObject:
		v, err := readSeq(c, n, 8, readBlob)
		return PyObjects(v), err
	}
	return nil, fmt.Errorf("unhandled value type %d", uint8(t))
}
