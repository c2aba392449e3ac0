package compression

import (
	"bytes"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/lzw"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/container"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
	"github.com/cespare/xxhash/v2"
)

func testInputs() map[string][]byte {
	rng := rand.New(rand.NewPCG(42, 42))
	random := make([]byte, 30000)
	for i := range random {
		random[i] = byte(rng.Uint32())
	}
	return map[string][]byte{
		"empty":         {},
		"single byte":   {7},
		"reference":     []byte("AAAABBBCCD"),
		"all same byte": bytes.Repeat([]byte{'A'}, 10000),
		"folktale":      []byte(strings.Repeat("The troll lived under the bridge, and the goats came trip-trap. ", 300)),
		"random binary": random,
	}
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	for _, algorithm := range GetSupportedAlgorithms() {
		for name, input := range testInputs() {
			t.Run(algorithm+"/"+name, func(t *testing.T) {
				options := Options{Algorithm: algorithm}
				compressed, stats, err := Compress(input, options)
				if err != nil {
					t.Fatal(err)
				}
				if stats.OriginalSize != len(input) || stats.ProcessedSize != len(compressed) {
					t.Fatalf("stats %+v do not match sizes %d -> %d", stats, len(input), len(compressed))
				}
				if stats.Checksum != xxhash.Sum64(input) {
					t.Fatal("compression checksum does not cover the input")
				}
				restored, dstats, err := Decompress(compressed, options)
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(restored, input) {
					t.Fatalf("round trip mismatch: %d bytes in, %d bytes out", len(input), len(restored))
				}
				if dstats.Checksum != stats.Checksum {
					t.Fatal("checksums differ after the round trip")
				}
			})
		}
	}
}

func TestEmptyInputGivesEmptyArtifact(t *testing.T) {
	compressed, _, err := Compress(nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) != 0 {
		t.Fatalf("empty input produced %d bytes", len(compressed))
	}
	restored, _, err := Decompress(compressed, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(restored) != 0 {
		t.Fatalf("empty artifact produced %d bytes", len(restored))
	}
}

func TestNarrowDictionaryRoundTrip(t *testing.T) {
	input := testInputs()["random binary"]
	options := Options{MaxWidth: 9}
	compressed, _, err := Compress(input, options)
	if err != nil {
		t.Fatal(err)
	}
	restored, _, err := Decompress(compressed, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(restored, input) {
		t.Fatal("round trip mismatch with a 9-bit dictionary")
	}
}

func TestCompressionIsDeterministic(t *testing.T) {
	input := testInputs()["folktale"]
	first, _, err := Compress(input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Compress(input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("two compressions of the same input differ")
	}
}

func TestTruncatedArtifactIsCorrupt(t *testing.T) {
	for _, algorithm := range GetSupportedAlgorithms() {
		for name, input := range testInputs() {
			if len(input) == 0 {
				continue
			}
			t.Run(algorithm+"/"+name, func(t *testing.T) {
				options := Options{Algorithm: algorithm}
				compressed, _, err := Compress(input, options)
				if err != nil {
					t.Fatal(err)
				}
				_, _, err = Decompress(compressed[:len(compressed)-1], options)
				if !errors.Is(err, errs.ErrCorruptStream) {
					t.Fatalf("got %v, want ErrCorruptStream", err)
				}
			})
		}
	}
}

func TestWrongAlgorithmIsFormatMismatch(t *testing.T) {
	compressed, _, err := Compress([]byte("AAAABBBCCD"), Options{Algorithm: AlgorithmLZWHuffman})
	if err != nil {
		t.Fatal(err)
	}
	for _, algorithm := range []string{AlgorithmLZW, AlgorithmHuffman} {
		if _, _, err := Decompress(compressed, Options{Algorithm: algorithm}); !errors.Is(err, errs.ErrFormatMismatch) {
			t.Errorf("%s: got %v, want ErrFormatMismatch", algorithm, err)
		}
	}
}

func TestInvalidOptions(t *testing.T) {
	if _, _, err := Compress([]byte("x"), Options{Algorithm: "bzip2"}); err == nil {
		t.Error("unknown algorithm accepted")
	}
	if _, _, err := Compress([]byte("x"), Options{MaxWidth: 40}); err == nil {
		t.Error("40-bit dictionary accepted")
	}
	if IsValidAlgorithm("gzip") || !IsValidAlgorithm(DefaultAlgorithm) {
		t.Error("IsValidAlgorithm disagrees with the registry")
	}
}

func TestDictionaryWidthPerAlgorithm(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	input := make([]byte, 4<<20)
	for i := range input {
		input[i] = byte(rng.Uint32())
	}
	tests := []struct {
		algorithm string
		maxWidth  uint
		valid     bool
	}{
		{AlgorithmLZWHuffman, CombinedMaxWidth, true},
		{AlgorithmLZWHuffman, 17, false},
		{AlgorithmLZWHuffman, lzw.MaxWidthLimit, false},
		{AlgorithmLZW, 17, true},
		{AlgorithmLZW, lzw.MaxWidthLimit, true},
	}
	for _, tt := range tests {
		options := Options{Algorithm: tt.algorithm, MaxWidth: tt.maxWidth}
		compressed, _, err := Compress(input, options)
		if !tt.valid {
			if err == nil {
				t.Errorf("%s accepted a %d-bit dictionary", tt.algorithm, tt.maxWidth)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s/%d: %v", tt.algorithm, tt.maxWidth, err)
		}
		restored, _, err := Decompress(compressed, options)
		if err != nil {
			t.Fatalf("%s/%d: %v", tt.algorithm, tt.maxWidth, err)
		}
		if !bytes.Equal(restored, input) {
			t.Fatalf("%s/%d: round trip mismatch", tt.algorithm, tt.maxWidth)
		}
	}
}

func TestCombinedArtifactWidthOverflow(t *testing.T) {
	// Every code after the first adds a dictionary entry, so this stream
	// outgrows a 16-bit dictionary while using a single symbol.
	codes := make([]uint32, 70000)
	for i := range codes {
		codes[i] = 'A'
	}
	if _, err := lzw.Decode(codes, CombinedMaxWidth+1); err != nil {
		t.Fatalf("stream should decode with a wider dictionary: %v", err)
	}
	artifact, err := entropyEncode(container.Magic, codes)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Decompress(artifact, Options{}); !errors.Is(err, errs.ErrWidthOverflow) {
		t.Fatalf("got %v, want ErrWidthOverflow", err)
	}
}

func TestCodecReaderBeforeClose(t *testing.T) {
	reader, writer := factoryMap[AlgorithmLZWHuffman].NewCompressionReaderAndWriter(Options{}.withDefaults())
	if _, err := writer.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if _, err := reader.Read(make([]byte, 8)); err == nil {
		t.Fatal("read before the writer was closed succeeded")
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Write([]byte("d")); err == nil {
		t.Fatal("write after close succeeded")
	}
	compressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatal(err)
	}
	restored, _, err := Decompress(compressed, Options{})
	if err != nil || string(restored) != "abc" {
		t.Fatalf("got %q, %v", restored, err)
	}
}

func TestMeasure(t *testing.T) {
	input := testInputs()["folktale"]
	report, err := Measure(input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.OriginalSize != len(input) || report.CompressedSize != len(report.Artifact) || report.LZWSize != len(report.LZWArtifact) {
		t.Fatalf("inconsistent report %+v", report)
	}
	if report.HuffmanRate() >= 1 || report.LZWRate() >= 1 {
		t.Fatalf("repetitive text did not compress: lzw %.3f, lzw+huffman %.3f", report.LZWRate(), report.HuffmanRate())
	}
	if got, want := report.CompressionRatio(), float64(len(input))/float64(report.LZWSize); got != want {
		t.Fatalf("compression ratio %.3f, want original over LZW size %.3f", got, want)
	}
	if report.CombinedRatio() <= 1 {
		t.Fatalf("lzw+huffman ratio %.3f", report.CombinedRatio())
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("AAAABBBCCD"))
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 255, 255})
	f.Fuzz(func(t *testing.T, data []byte) {
		compressed, _, err := Compress(data, Options{})
		if err != nil {
			t.Fatal(err)
		}
		restored, _, err := Decompress(compressed, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(restored, data) {
			t.Fatal("round trip mismatch")
		}
	})
}
