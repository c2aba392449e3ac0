package huffman

import (
	"errors"
	"fmt"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/bitstream"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

// decodeNode is a node of the tree rebuilt from canonical codes.
type decodeNode struct {
	symbol   uint32
	isLeaf   bool
	children [2]*decodeNode
}

func buildDecodeTree(table CodeTable) (*decodeNode, error) {
	root := &decodeNode{}
	for symbol, code := range table {
		node := root
		for i := int(code.Length) - 1; i >= 0; i-- {
			if node.isLeaf {
				return nil, fmt.Errorf("%w: code of symbol %d extends another code", errs.ErrCorruptStream, symbol)
			}
			bit := code.Bits >> uint(i) & 1
			if node.children[bit] == nil {
				node.children[bit] = &decodeNode{}
			}
			node = node.children[bit]
		}
		if node.isLeaf || node.children[0] != nil || node.children[1] != nil {
			return nil, fmt.Errorf("%w: code of symbol %d is a prefix of another code", errs.ErrCorruptStream, symbol)
		}
		node.symbol, node.isLeaf = symbol, true
	}
	return root, nil
}

// Decode reads count symbols from payload. The payload must hold exactly
// those symbols followed by padBits zero bits.
func Decode(payload []byte, padBits uint8, count int, table CodeTable) ([]uint32, error) {
	if count > 0 && len(table) == 0 {
		return nil, fmt.Errorf("%w: %d symbols declared with an empty code table", errs.ErrCorruptStream, count)
	}
	root, err := buildDecodeTree(table)
	if err != nil {
		return nil, err
	}
	reader, err := bitstream.NewReader(payload, padBits)
	if err != nil {
		return nil, err
	}
	// every symbol costs at least one bit
	if count > reader.Remaining() {
		return nil, fmt.Errorf("%w: %d symbols declared for %d payload bits", errs.ErrCorruptStream, count, reader.Remaining())
	}
	symbols := make([]uint32, 0, count)
	for len(symbols) < count {
		node := root
		for !node.isLeaf {
			bit, err := reader.ReadBit()
			if errors.Is(err, errs.ErrEndOfStream) {
				return nil, fmt.Errorf("%w: payload ends inside symbol %d of %d", errs.ErrCorruptStream, len(symbols)+1, count)
			} else if err != nil {
				return nil, err
			}
			if node = node.children[bit]; node == nil {
				return nil, fmt.Errorf("%w: bit pattern matches no code", errs.ErrCorruptStream)
			}
		}
		symbols = append(symbols, node.symbol)
	}
	if err := reader.SkipPadding(padBits); err != nil {
		return nil, err
	}
	return symbols, nil
}
