package decompress

import (
	"bytes"

	"github.com/matzehuels/gtreader/pkg/errors"
)

// Kind identifies a compression container.
type Kind int

// Known containers. The set is closed: every switch over Kind lists all of them.
const (
	None Kind = iota
	XZ
	Zstd
	Gzip
	Zip
)

// String returns the short container name used in messages and logs.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case XZ:
		return "xz"
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	case Zip:
		return "zip"
	}
	return "unknown"
}

// Supported reports whether Decompress can unwrap this container.
func (k Kind) Supported() bool {
	switch k {
	case None, Zstd:
		return true
	case XZ, Gzip, Zip:
		return false
	}
	return false
}

// BatchSize caps how many decompressed bytes are produced per decode step.
const BatchSize = 10 << 20

const probeLen = 6

var (
	sigXZ   = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	sigZstd = []byte{0x28, 0xB5, 0x2F, 0xFD}
	sigGzip = []byte{0x1F, 0x8B, 0x08}
	sigZip  = []byte{0x50, 0x4B, 0x03, 0x04}
)

// Detect returns the container kind announced by the first six bytes of b.
// Buffers shorter than six bytes are reported as None.
func Detect(b []byte) Kind {
	if len(b) < probeLen {
		return None
	}
	probe := b[:probeLen]
	switch {
	case bytes.Equal(probe, sigXZ):
		return XZ
	case bytes.HasPrefix(probe, sigZstd):
		return Zstd
	case bytes.HasPrefix(probe, sigGzip):
		return Gzip
	case bytes.HasPrefix(probe, sigZip):
		return Zip
	}
	return None
}

// Option configures Decompress.
type Option func(*config)

type config struct {
	maxOutput int64
}

// WithMaxOutput fails decompression once the output would exceed n bytes.
// Zero or negative means unlimited.
func WithMaxOutput(n int64) Option {
	return func(c *config) { c.maxOutput = n }
}

// Decompress unwraps b according to its detected container and reports the
// kind it found. Plain buffers are returned as-is (not copied).
func Decompress(b []byte, opts ...Option) ([]byte, Kind, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	kind := Detect(b)
	switch kind {
	case None:
		return b, kind, nil
	case XZ, Gzip, Zip:
		return nil, kind, errors.New(errors.ErrCodeCompressionUnsupported,
			"%s compression not supported", kind)
	case Zstd:
		out, err := decodeZstd(b, cfg)
		if err != nil {
			return nil, kind, err
		}
		return out, kind, nil
	}
	return nil, kind, errors.New(errors.ErrCodeInternal, "unhandled compression kind %d", int(kind))
}
