// Package huffman is the entropy stage of the pipeline: canonical Huffman
// codes over an arbitrary uint32 alphabet.
package huffman

import (
	"fmt"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/bitstream"
)

// Encode packs symbols with their canonical codes and returns the payload
// with its pad bit count. Every symbol must be present in table.
func Encode(symbols []uint32, table CodeTable) ([]byte, uint8, error) {
	writer := bitstream.NewWriter()
	for i, symbol := range symbols {
		code, ok := table[symbol]
		if !ok {
			return nil, 0, fmt.Errorf("huffman: symbol %d at position %d does not exist in the code table", symbol, i)
		}
		if err := writer.AppendBits(code.Bits, uint(code.Length)); err != nil {
			return nil, 0, err
		}
	}
	payload, padBits := writer.Finalize()
	return payload, padBits, nil
}
