package decompress

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/gtreader/pkg/errors"
)

// Frame magics (little-endian on the wire).
const (
	frameMagic         = 0xFD2FB528
	skippableMagicBase = 0x184D2A50
	skippableMagicMask = 0xFFFFFFF0
	skippableHeader    = 8
)

// Block layout.
const (
	blockHeaderSize = 3
	checksumSize    = 4
	maxBlockSize    = 128 << 10
)

// Block types.
const (
	blockRaw = iota
	blockRLE
	blockCompressed
	blockReserved
)

// span locates one frame inside the container as [start, end).
type span struct {
	start, end int
	skippable  bool
}

// decodeZstd walks every frame in b and appends the decoded payloads.
func decodeZstd(b []byte, cfg config) ([]byte, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create zstd decoder")
	}
	defer dec.Close()

	out := bytes.NewBuffer(make([]byte, 0, len(b)))
	for pos := 0; pos < len(b); {
		f, err := nextFrame(b, pos)
		if err != nil {
			return nil, err
		}
		pos = f.end
		if f.skippable {
			continue
		}
		if err := decodeFrame(dec, b[f.start:f.end], f.start, out, cfg.maxOutput); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

// decodeFrame streams one regular frame into out, one batch at a time.
func decodeFrame(dec *zstd.Decoder, frame []byte, offset int, out *bytes.Buffer, limit int64) error {
	if err := dec.Reset(bytes.NewReader(frame)); err != nil {
		return errors.Wrap(errors.ErrCodeDecompressionFailed, err, "frame at offset %d", offset)
	}
	for {
		_, err := io.CopyN(out, dec, BatchSize)
		if limit > 0 && int64(out.Len()) > limit {
			return errors.New(errors.ErrCodeTooLarge, "decompressed size exceeds %d bytes", limit)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecompressionFailed, err, "frame at offset %d", offset)
		}
	}
}

// nextFrame identifies the frame starting at pos and where it ends.
func nextFrame(b []byte, pos int) (span, error) {
	rest := b[pos:]
	if len(rest) < 4 {
		return span{}, errors.New(errors.ErrCodeDecompressionFailed,
			"truncated frame magic at offset %d", pos)
	}

	magic := binary.LittleEndian.Uint32(rest)
	switch {
	case magic&skippableMagicMask == skippableMagicBase:
		if len(rest) < skippableHeader {
			return span{}, errors.New(errors.ErrCodeDecompressionFailed,
				"truncated skippable frame header at offset %d", pos)
		}
		size := uint64(binary.LittleEndian.Uint32(rest[4:]))
		if size > uint64(len(rest)-skippableHeader) {
			return span{}, errors.New(errors.ErrCodeDecompressionFailed,
				"skippable frame at offset %d declares %d bytes, %d remain", pos, size, len(rest)-skippableHeader)
		}
		return span{start: pos, end: pos + skippableHeader + int(size), skippable: true}, nil

	case magic == frameMagic:
		n, err := frameLen(rest, pos)
		if err != nil {
			return span{}, err
		}
		return span{start: pos, end: pos + n}, nil
	}

	return span{}, errors.New(errors.ErrCodeDecompressionFailed,
		"unknown frame magic %#08x at offset %d", magic, pos)
}

// frameLen returns the encoded length of the regular frame at the start of f
// by reading its header and walking the block headers.
func frameLen(f []byte, offset int) (int, error) {
	fail := func(format string, args ...any) (int, error) {
		args = append(args, offset)
		return 0, errors.New(errors.ErrCodeDecompressionFailed, format+" (frame at offset %d)", args...)
	}

	if len(f) < 5 {
		return fail("truncated frame header")
	}
	fhd := f[4]
	if fhd&0x08 != 0 {
		return fail("reserved bit set in frame header")
	}
	singleSegment := fhd&0x20 != 0
	hasChecksum := fhd&0x04 != 0

	n := 5
	if !singleSegment {
		n++ // window descriptor
	}
	n += [...]int{0, 1, 2, 4}[fhd&0x03]
	switch fhd >> 6 {
	case 0:
		if singleSegment {
			n++
		}
	case 1:
		n += 2
	case 2:
		n += 4
	case 3:
		n += 8
	}
	if n > len(f) {
		return fail("truncated frame header")
	}

	for {
		if n+blockHeaderSize > len(f) {
			return fail("truncated block header at %d", n)
		}
		h := uint32(f[n]) | uint32(f[n+1])<<8 | uint32(f[n+2])<<16
		n += blockHeaderSize

		last := h&1 == 1
		size := int(h >> 3)
		switch (h >> 1) & 3 {
		case blockRaw, blockCompressed:
			if size > maxBlockSize {
				return fail("block size %d exceeds %d", size, maxBlockSize)
			}
		case blockRLE:
			size = 1
		case blockReserved:
			return fail("reserved block type at %d", n-blockHeaderSize)
		}
		if n+size > len(f) {
			return fail("truncated block at %d", n)
		}
		n += size
		if last {
			break
		}
	}

	if hasChecksum {
		if n+checksumSize > len(f) {
			return fail("truncated frame checksum")
		}
		n += checksumSize
	}
	return n, nil
}
