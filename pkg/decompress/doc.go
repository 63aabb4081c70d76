// Package decompress sniffs the compression container of a gt file and
// unwraps it into a flat byte buffer.
//
// # Detection
//
// [Detect] inspects the first six bytes of a buffer:
//
//	FD 37 7A 58 5A 00   xz
//	28 B5 2F FD ?? ??   zstd
//	1F 8B 08 ?? ?? ??   gzip
//	50 4B 03 04 ?? ??   zip
//
// Anything else is [None] and is assumed to be an uncompressed gt file.
//
// # Decompression
//
// Only zstd is implemented. [Decompress] returns the input unchanged for
// [None], fails with COMPRESSION_UNSUPPORTED for xz, gzip and zip, and runs
// the zstd frame loop otherwise:
//
//	out, kind, err := decompress.Decompress(raw)
//	if errors.Is(err, errors.ErrCodeCompressionUnsupported) {
//	    // recompress the file with zstd
//	}
//
// The zstd container may hold several concatenated frames. Skippable frames
// are stepped over by their declared size. Regular frames are delimited by
// walking their block headers and then decoded with
// github.com/klauspost/compress/zstd, copying at most [BatchSize] bytes of
// output per step. Any header or block error aborts the whole call; no
// partial output is ever returned.
//
// # Concurrency
//
// Decompress is synchronous and allocates its own decoder per call, so it
// is safe to call from multiple goroutines on different buffers.
package decompress
