package compression

import (
	"fmt"
	"io"
	"time"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/lzw"
	"github.com/cespare/xxhash/v2"
)

const (
	AlgorithmLZWHuffman = "lzw-huffman"
	AlgorithmLZW        = "lzw"
	AlgorithmHuffman    = "huffman"
)

// DefaultAlgorithm is used when Options.Algorithm is empty.
const DefaultAlgorithm = AlgorithmLZWHuffman

// SupportedAlgorithms contains all supported compression algorithms
var SupportedAlgorithms = []string{
	AlgorithmLZWHuffman,
	AlgorithmLZW,
	AlgorithmHuffman,
}

// Options contains compression/decompression options
type Options struct {
	Algorithm string
	// MaxWidth bounds the LZW dictionary at 1<<MaxWidth codes. Zero selects
	// lzw.DefaultMaxWidth.
	MaxWidth uint
}

func (o Options) withDefaults() Options {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.MaxWidth == 0 {
		o.MaxWidth = lzw.DefaultMaxWidth
	}
	return o
}

// CombinedMaxWidth is the widest dictionary the lzw-huffman artifact can
// carry: every LZW code is a Huffman symbol, and the artifact's code table
// holds at most 1<<16 of them.
const CombinedMaxWidth = 16

// MaxWidthFor returns the widest dictionary bound algorithm accepts.
func MaxWidthFor(algorithm string) uint {
	if algorithm == AlgorithmLZWHuffman {
		return CombinedMaxWidth
	}
	return lzw.MaxWidthLimit
}

// Validate checks the dictionary bound against the algorithm. It expects
// defaults to be applied already.
func (o Options) Validate() error {
	if err := lzw.ValidateMaxWidth(o.MaxWidth); err != nil {
		return err
	}
	if limit := MaxWidthFor(o.Algorithm); o.MaxWidth > limit {
		return fmt.Errorf("%s supports dictionaries of at most %d bits, got %d", o.Algorithm, limit, o.MaxWidth)
	}
	return nil
}

// Stats contains compression statistics
type Stats struct {
	OriginalSize     int
	ProcessedSize    int
	CompressionRatio float64
	Algorithm        string
	Elapsed          time.Duration
	// Checksum is the xxhash64 of the uncompressed bytes.
	Checksum uint64
}

// AlgorithmFactory defines the interface for compression algorithms
type AlgorithmFactory interface {
	NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser)
	NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser)
}

// factoryMap maps algorithm names to their factories
var factoryMap = map[string]AlgorithmFactory{
	AlgorithmLZWHuffman: &LZWHuffmanFactory{},
	AlgorithmLZW:        &LZWFactory{},
	AlgorithmHuffman:    &HuffmanFactory{},
}

type LZWHuffmanFactory struct{}

func (f *LZWHuffmanFactory) NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return newReaderAndWriter(func(data []byte) ([]byte, error) {
		return compressLZWHuffman(data, options.MaxWidth)
	})
}
func (f *LZWHuffmanFactory) NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return newReaderAndWriter(decompressLZWHuffman)
}

type LZWFactory struct{}

func (f *LZWFactory) NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return newReaderAndWriter(func(data []byte) ([]byte, error) {
		return compressLZW(data, options.MaxWidth)
	})
}
func (f *LZWFactory) NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return newReaderAndWriter(decompressLZW)
}

type HuffmanFactory struct{}

func (f *HuffmanFactory) NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return newReaderAndWriter(compressHuffman)
}
func (f *HuffmanFactory) NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return newReaderAndWriter(decompressHuffman)
}

// IsValidAlgorithm checks if the provided algorithm is supported
func IsValidAlgorithm(algorithm string) bool {
	_, exists := factoryMap[algorithm]
	return exists
}

// GetSupportedAlgorithms returns a list of supported algorithms
func GetSupportedAlgorithms() []string {
	return append([]string{}, SupportedAlgorithms...)
}

func resolve(options Options) (Options, AlgorithmFactory, error) {
	options = options.withDefaults()
	factory, ok := factoryMap[options.Algorithm]
	if !ok {
		return options, nil, fmt.Errorf("unsupported algorithm: %s", options.Algorithm)
	}
	if err := options.Validate(); err != nil {
		return options, nil, err
	}
	return options, factory, nil
}

// Compress compresses data using the specified algorithm
func Compress(data []byte, options Options) ([]byte, *Stats, error) {
	options, factory, err := resolve(options)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	reader, writer := factory.NewCompressionReaderAndWriter(options)
	compressedData, err := processData(data, reader, writer)
	if err != nil {
		return nil, nil, fmt.Errorf("compression failed: %w", err)
	}

	stats := &Stats{
		OriginalSize:  len(data),
		ProcessedSize: len(compressedData),
		Algorithm:     options.Algorithm,
		Elapsed:       time.Since(start),
		Checksum:      xxhash.Sum64(data),
	}
	if len(data) > 0 {
		stats.CompressionRatio = float64(len(compressedData)) / float64(len(data)) * 100
	}
	return compressedData, stats, nil
}

// Decompress decompresses data using the specified algorithm
func Decompress(data []byte, options Options) ([]byte, *Stats, error) {
	options, factory, err := resolve(options)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	reader, writer := factory.NewDecompressionReaderAndWriter(options)
	decompressedData, err := processData(data, reader, writer)
	if err != nil {
		return nil, nil, fmt.Errorf("decompression failed: %w", err)
	}

	stats := &Stats{
		OriginalSize:  len(data),
		ProcessedSize: len(decompressedData),
		Algorithm:     options.Algorithm,
		Elapsed:       time.Since(start),
		Checksum:      xxhash.Sum64(decompressedData),
	}
	if len(decompressedData) > 0 {
		stats.CompressionRatio = float64(len(data)) / float64(len(decompressedData)) * 100
	}
	return decompressedData, stats, nil
}

// processData writes the input, closes the writer to run the codec and
// drains the reader.
func processData(inputData []byte, reader io.ReadCloser, writer io.WriteCloser) ([]byte, error) {
	defer reader.Close()
	defer writer.Close()

	if _, err := writer.Write(inputData); err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	output, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	return output, nil
}
