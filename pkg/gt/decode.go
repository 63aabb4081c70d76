package gt

import (
	"bytes"
	"math"

	"github.com/matzehuels/gtreader/pkg/decompress"
	"github.com/matzehuels/gtreader/pkg/errors"
)

// Magic is the six-byte signature every gt file starts with.
var Magic = [6]byte{0xE2, 0x9B, 0xBE, 0x20, 0x67, 0x74}

const (
	// FormatVersion is the only supported version byte.
	FormatVersion = 1

	// MinSize is the smallest buffer the parser accepts: magic, version,
	// endianness and the comment length.
	MinSize = 14

	littleEndian = 0
)

// Option configures Parse and Decode.
type Option func(*config)

type config struct {
	strict          bool
	maxDecompressed int64
}

// WithStrict enables validation that the reference decoder skips: every
// neighbor id must be smaller than the vertex count.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithMaxDecompressedSize makes Decode fail when the decompressed buffer
// would exceed n bytes. Zero means unlimited.
func WithMaxDecompressedSize(n int64) Option {
	return func(c *config) { c.maxDecompressed = n }
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Decode unwraps any compression container around raw and parses the result.
// It returns a complete graph or exactly one error; never a partial graph.
func Decode(raw []byte, opts ...Option) (*GraphFile, error) {
	cfg := newConfig(opts)
	data, _, err := decompress.Decompress(raw, decompress.WithMaxOutput(cfg.maxDecompressed))
	if err != nil {
		return nil, err
	}
	return parse(data, cfg)
}

// Parse decodes an uncompressed gt buffer.
func Parse(data []byte, opts ...Option) (*GraphFile, error) {
	return parse(data, newConfig(opts))
}

func parse(data []byte, cfg config) (*GraphFile, error) {
	if len(data) < MinSize {
		return nil, errors.New(errors.ErrCodeMalformedHeader,
			"file is too short: %d bytes, need at least %d", len(data), MinSize)
	}
	c := newCursor(data)

	g, err := parseHeader(c)
	if err != nil {
		return nil, err
	}

	n, err := c.u64()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "vertex count")
	}

	g.adjacency, g.edgeCount, err = parseAdjacency(c, n, cfg.strict)
	if err != nil {
		return nil, err
	}

	g.properties, err = parseProperties(c, n, g.edgeCount)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// parseHeader reads magic, version, endianness, comment and the directed flag.
func parseHeader(c *cursor) (*GraphFile, error) {
	magic, err := c.take(uint64(len(Magic)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "magic")
	}
	if !bytes.Equal(magic, Magic[:]) {
		return nil, errors.New(errors.ErrCodeMalformedHeader, "invalid magic % x", magic)
	}

	version, err := c.u8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "version")
	}
	if version != FormatVersion {
		return nil, errors.New(errors.ErrCodeMalformedHeader, "unsupported version %d", version)
	}

	endianness, err := c.u8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "endianness")
	}
	if endianness != littleEndian {
		return nil, errors.New(errors.ErrCodeMalformedHeader,
			"unsupported endianness %d: only little-endian files are supported", endianness)
	}

	comment, err := c.text()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "comment")
	}

	flag, err := c.u8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "directed flag")
	}
	var directed bool
	switch flag {
	case 0:
	case 1:
		directed = true
	default:
		return nil, errors.New(errors.ErrCodeMalformedHeader, "invalid directed flag %d", flag)
	}

	return &GraphFile{
		version:    version,
		endianness: endianness,
		comment:    comment,
		directed:   directed,
	}, nil
}

// NeighborWidth returns the byte width of every neighbor id in a file with
// n vertices. It depends only on n, never on the ids actually present.
func NeighborWidth(n uint64) int {
	switch {
	case n <= math.MaxUint8:
		return 1
	case n <= math.MaxUint16:
		return 2
	case n <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// parseAdjacency reads n out-neighbor lists and returns them with their
// total length.
func parseAdjacency(c *cursor, n uint64, strict bool) ([][]uint64, uint64, error) {
	// Each vertex carries at least its 8-byte neighbor count.
	if !c.fits(n, 8) {
		return nil, 0, errors.New(errors.ErrCodeMalformedAdjacency,
			"%d vertices cannot fit in the %d remaining bytes", n, c.remaining())
	}

	width := NeighborWidth(n)
	adjacency := make([][]uint64, n)
	var edges uint64
	for v := range adjacency {
		k, err := c.u64()
		if err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeMalformedAdjacency, err, "vertex %d: neighbor count", v)
		}
		if !c.fits(k, width) {
			return nil, 0, errors.New(errors.ErrCodeMalformedAdjacency,
				"vertex %d: %d neighbors of %d bytes exceed the %d remaining bytes", v, k, width, c.remaining())
		}

		neighbors := make([]uint64, k)
		for i := range neighbors {
			id, err := c.uint(width)
			if err != nil {
				return nil, 0, errors.Wrap(errors.ErrCodeMalformedAdjacency, err, "vertex %d: neighbor %d", v, i)
			}
			if strict && id >= n {
				return nil, 0, errors.New(errors.ErrCodeMalformedAdjacency,
					"vertex %d: neighbor id %d out of range for %d vertices", v, id, n)
			}
			neighbors[i] = id
		}
		adjacency[v] = neighbors
		edges += k
	}
	return adjacency, edges, nil
}

// parseProperties reads the property count and every property entry.
func parseProperties(c *cursor, vertices, edges uint64) ([]*Property, error) {
	count, err := c.u64()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedProperty, err, "property count")
	}
	// Map tag, name length and value tag take at least 10 bytes.
	if !c.fits(count, 10) {
		return nil, errors.New(errors.ErrCodeMalformedProperty,
			"%d properties cannot fit in the %d remaining bytes", count, c.remaining())
	}

	props := make([]*Property, count)
	for i := range props {
		p, err := decodeProperty(c, i, vertices, edges)
		if err != nil {
			return nil, err
		}
		props[i] = p
	}
	return props, nil
}
