package compression

import (
	"bytes"
	"fmt"
	"time"
)

// Report holds the metrics of one measured compression run: the four values
// the reporting sink receives plus the size of the LZW-only artifact.
type Report struct {
	OriginalSize   int
	CompressedSize int
	LZWSize        int
	CompressTime   time.Duration
	DecompressTime time.Duration

	// Artifact is the LZW + Huffman artifact; LZWArtifact the LZW-only one.
	Artifact    []byte
	LZWArtifact []byte
}

// LZWRate is the LZW-only size as a fraction of the original size.
func (r *Report) LZWRate() float64 {
	return rate(r.LZWSize, r.OriginalSize)
}

// HuffmanRate is the LZW + Huffman size as a fraction of the original size.
func (r *Report) HuffmanRate() float64 {
	return rate(r.CompressedSize, r.OriginalSize)
}

// CompressionRatio is original size over LZW-only size, the inverse of
// LZWRate.
func (r *Report) CompressionRatio() float64 {
	return rate(r.OriginalSize, r.LZWSize)
}

// CombinedRatio is original size over LZW + Huffman size.
func (r *Report) CombinedRatio() float64 {
	return rate(r.OriginalSize, r.CompressedSize)
}

func rate(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// Measure compresses data with the LZW + Huffman pipeline, decompresses the
// result and checks it against data. It also produces the LZW-only artifact
// for comparison.
func Measure(data []byte, options Options) (*Report, error) {
	options.Algorithm = AlgorithmLZWHuffman
	artifact, compressStats, err := Compress(data, options)
	if err != nil {
		return nil, err
	}
	restored, decompressStats, err := Decompress(artifact, options)
	if err != nil {
		return nil, err
	}
	if decompressStats.Checksum != compressStats.Checksum || !bytes.Equal(restored, data) {
		return nil, fmt.Errorf("round trip mismatch: checksum %016x, restored %016x", compressStats.Checksum, decompressStats.Checksum)
	}

	options.Algorithm = AlgorithmLZW
	lzwArtifact, _, err := Compress(data, options)
	if err != nil {
		return nil, err
	}
	return &Report{
		OriginalSize:   len(data),
		CompressedSize: len(artifact),
		LZWSize:        len(lzwArtifact),
		CompressTime:   compressStats.Elapsed,
		DecompressTime: decompressStats.Elapsed,
		Artifact:       artifact,
		LZWArtifact:    lzwArtifact,
	}, nil
}
