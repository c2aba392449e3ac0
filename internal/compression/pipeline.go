package compression

import (
	"fmt"
	"math"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/huffman"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/lzw"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/container"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

// entropyEncode Huffman-codes symbols into an artifact under magic.
func entropyEncode(magic [4]byte, symbols []uint32) ([]byte, error) {
	if uint64(len(symbols)) > math.MaxUint32 {
		return nil, fmt.Errorf("%d symbols exceed the artifact limit", len(symbols))
	}
	table, err := huffman.BuildCodeTable(huffman.Frequencies(symbols))
	if err != nil {
		return nil, err
	}
	payload, padBits, err := huffman.Encode(symbols, table)
	if err != nil {
		return nil, err
	}
	lengths := table.Lengths()
	entries := make([]container.Entry, len(lengths))
	for i, l := range lengths {
		entries[i] = container.Entry{Symbol: l.Symbol, Length: l.Length}
	}
	return container.SerializeAs(magic, container.Artifact{
		SymbolCount: uint32(len(symbols)),
		Table:       entries,
		PadBits:     padBits,
		Payload:     payload,
	})
}

// entropyDecode parses an artifact under magic and returns its symbols.
func entropyDecode(magic [4]byte, artifact []byte) ([]uint32, error) {
	parsed, err := container.ParseAs(magic, artifact)
	if err != nil {
		return nil, err
	}
	lengths := make([]huffman.CodeLength, len(parsed.Table))
	for i, entry := range parsed.Table {
		lengths[i] = huffman.CodeLength{Symbol: entry.Symbol, Length: entry.Length}
	}
	table, err := huffman.CanonicalCodes(lengths)
	if err != nil {
		return nil, err
	}
	return huffman.Decode(parsed.Payload, parsed.PadBits, int(parsed.SymbolCount), table)
}

// compressLZWHuffman runs raw bytes through LZW and Huffman-codes the LZW
// codes. Empty input yields an empty artifact.
func compressLZWHuffman(data []byte, maxWidth uint) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	codes, err := lzw.Encode(data, maxWidth)
	if err != nil {
		return nil, err
	}
	return entropyEncode(container.Magic, codes)
}

// decompressLZWHuffman inverts compressLZWHuffman. The artifact does not
// record the dictionary bound; decoding with CombinedMaxWidth replays the
// same dictionary because CLEAR always arrives before the encoder's bound.
func decompressLZWHuffman(artifact []byte) ([]byte, error) {
	if len(artifact) == 0 {
		return []byte{}, nil
	}
	codes, err := entropyDecode(container.Magic, artifact)
	if err != nil {
		return nil, err
	}
	return lzw.Decode(codes, CombinedMaxWidth)
}

// compressLZW packs the LZW codes at their variable widths without the
// entropy stage.
func compressLZW(data []byte, maxWidth uint) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	codes, err := lzw.Encode(data, maxWidth)
	if err != nil {
		return nil, err
	}
	if uint64(len(codes)) > math.MaxUint32 {
		return nil, fmt.Errorf("%d codes exceed the artifact limit", len(codes))
	}
	payload, padBits, err := lzw.Pack(codes, maxWidth)
	if err != nil {
		return nil, err
	}
	return container.SerializeCodeStream(container.CodeStream{
		MaxWidth:  uint8(maxWidth),
		CodeCount: uint32(len(codes)),
		PadBits:   padBits,
		Payload:   payload,
	})
}

func decompressLZW(artifact []byte) ([]byte, error) {
	if len(artifact) == 0 {
		return []byte{}, nil
	}
	cs, err := container.ParseCodeStream(artifact)
	if err != nil {
		return nil, err
	}
	maxWidth := uint(cs.MaxWidth)
	if err := lzw.ValidateMaxWidth(maxWidth); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptStream, err)
	}
	codes, err := lzw.Unpack(cs.Payload, cs.PadBits, int(cs.CodeCount), maxWidth)
	if err != nil {
		return nil, err
	}
	return lzw.Decode(codes, maxWidth)
}

// compressHuffman Huffman-codes raw bytes directly.
func compressHuffman(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	symbols := make([]uint32, len(data))
	for i, b := range data {
		symbols[i] = uint32(b)
	}
	return entropyEncode(container.ByteMagic, symbols)
}

func decompressHuffman(artifact []byte) ([]byte, error) {
	if len(artifact) == 0 {
		return []byte{}, nil
	}
	symbols, err := entropyDecode(container.ByteMagic, artifact)
	if err != nil {
		return nil, err
	}
	output := make([]byte, len(symbols))
	for i, symbol := range symbols {
		if symbol > math.MaxUint8 {
			return nil, fmt.Errorf("%w: symbol %d is not a byte", errs.ErrCorruptStream, symbol)
		}
		output[i] = byte(symbol)
	}
	return output, nil
}
