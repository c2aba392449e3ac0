// Package container lays out compressed artifacts byte for byte. Multi-byte
// integers are big-endian.
//
// Combined artifact:
//
//	Magic "FLKZ" | Version | SymbolCount u32 | TableSize u16 |
//	TableSize x (Symbol u32, Length u8) | PadBits u8 | Payload
//
// LZW-only artifact:
//
//	Magic "FLZW" | Version | MaxWidth u8 | CodeCount u32 | PadBits u8 | Payload
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

const (
	Version = 1

	// MaxTableSize is the largest table TableSize can describe; a full table
	// is written as 0.
	MaxTableSize = 1 << 16

	headerSize     = 4 + 1 + 4 + 2
	entrySize      = 4 + 1
	codeHeaderSize = 4 + 1 + 1 + 4 + 1
)

var (
	// Magic marks the LZW + Huffman artifact.
	Magic = [4]byte{'F', 'L', 'K', 'Z'}
	// ByteMagic marks the same layout coding raw bytes without the LZW stage.
	ByteMagic = [4]byte{'F', 'L', 'K', 'B'}
	// CodeStreamMagic marks the LZW-only artifact.
	CodeStreamMagic = [4]byte{'F', 'L', 'Z', 'W'}
)

// Entry is one (symbol, canonical code length) pair of the table.
type Entry struct {
	Symbol uint32
	Length uint8
}

// Artifact is the parsed form of a combined artifact.
type Artifact struct {
	SymbolCount uint32
	Table       []Entry
	PadBits     uint8
	Payload     []byte
}

// Serialize writes a under Magic.
func Serialize(a Artifact) ([]byte, error) {
	return SerializeAs(Magic, a)
}

// SerializeAs writes a under magic. Table entries must be in strictly
// ascending symbol order.
func SerializeAs(magic [4]byte, a Artifact) ([]byte, error) {
	if len(a.Table) > MaxTableSize {
		return nil, fmt.Errorf("container: %d table entries exceed the limit of %d", len(a.Table), MaxTableSize)
	}
	if len(a.Table) == 0 && a.SymbolCount > 0 {
		return nil, fmt.Errorf("container: %d symbols need a code table", a.SymbolCount)
	}
	if a.PadBits > 7 {
		return nil, fmt.Errorf("container: pad bit count %d exceeds a byte", a.PadBits)
	}
	out := make([]byte, 0, headerSize+len(a.Table)*entrySize+1+len(a.Payload))
	out = append(out, magic[:]...)
	out = append(out, Version)
	out = binary.BigEndian.AppendUint32(out, a.SymbolCount)
	out = binary.BigEndian.AppendUint16(out, uint16(len(a.Table)))
	for i, entry := range a.Table {
		if i > 0 && entry.Symbol <= a.Table[i-1].Symbol {
			return nil, fmt.Errorf("container: table entry %d (symbol %d) is out of order", i, entry.Symbol)
		}
		out = binary.BigEndian.AppendUint32(out, entry.Symbol)
		out = append(out, entry.Length)
	}
	out = append(out, a.PadBits)
	out = append(out, a.Payload...)
	return out, nil
}

func checkMagic(data []byte, magic [4]byte) error {
	if len(data) < len(magic) || [4]byte(data[:4]) != magic {
		return fmt.Errorf("%w: unknown magic", errs.ErrFormatMismatch)
	}
	if len(data) < 5 {
		return fmt.Errorf("%w: artifact ends before its version", errs.ErrCorruptStream)
	}
	if data[4] != Version {
		return fmt.Errorf("%w: version %d, expected %d", errs.ErrFormatMismatch, data[4], Version)
	}
	return nil
}

// Parse reads an artifact written by Serialize.
func Parse(data []byte) (Artifact, error) {
	return ParseAs(Magic, data)
}

// ParseAs reads an artifact written by SerializeAs with the same magic.
func ParseAs(magic [4]byte, data []byte) (Artifact, error) {
	var a Artifact
	if err := checkMagic(data, magic); err != nil {
		return a, err
	}
	if len(data) < headerSize {
		return a, fmt.Errorf("%w: header truncated at %d bytes", errs.ErrCorruptStream, len(data))
	}
	a.SymbolCount = binary.BigEndian.Uint32(data[5:9])
	tableSize := int(binary.BigEndian.Uint16(data[9:11]))
	if tableSize == 0 && a.SymbolCount > 0 {
		tableSize = MaxTableSize
	}
	rest := data[headerSize:]
	if len(rest) < tableSize*entrySize+1 {
		return a, fmt.Errorf("%w: code table of %d entries truncated", errs.ErrCorruptStream, tableSize)
	}
	a.Table = make([]Entry, tableSize)
	for i := range a.Table {
		entry := Entry{
			Symbol: binary.BigEndian.Uint32(rest[:4]),
			Length: rest[4],
		}
		if i > 0 && entry.Symbol <= a.Table[i-1].Symbol {
			return a, fmt.Errorf("%w: table entry %d (symbol %d) is out of order", errs.ErrCorruptStream, i, entry.Symbol)
		}
		a.Table[i] = entry
		rest = rest[entrySize:]
	}
	a.PadBits = rest[0]
	a.Payload = rest[1:]
	if a.PadBits > 7 || int(a.PadBits) > len(a.Payload)*8 {
		return a, fmt.Errorf("%w: %d pad bits for a %d-byte payload", errs.ErrCorruptStream, a.PadBits, len(a.Payload))
	}
	return a, nil
}

// CodeStream is the parsed form of an LZW-only artifact.
type CodeStream struct {
	MaxWidth  uint8
	CodeCount uint32
	PadBits   uint8
	Payload   []byte
}

func SerializeCodeStream(cs CodeStream) ([]byte, error) {
	if cs.PadBits > 7 {
		return nil, fmt.Errorf("container: pad bit count %d exceeds a byte", cs.PadBits)
	}
	out := make([]byte, 0, codeHeaderSize+len(cs.Payload))
	out = append(out, CodeStreamMagic[:]...)
	out = append(out, Version, cs.MaxWidth)
	out = binary.BigEndian.AppendUint32(out, cs.CodeCount)
	out = append(out, cs.PadBits)
	out = append(out, cs.Payload...)
	return out, nil
}

func ParseCodeStream(data []byte) (CodeStream, error) {
	var cs CodeStream
	if err := checkMagic(data, CodeStreamMagic); err != nil {
		return cs, err
	}
	if len(data) < codeHeaderSize {
		return cs, fmt.Errorf("%w: header truncated at %d bytes", errs.ErrCorruptStream, len(data))
	}
	cs.MaxWidth = data[5]
	cs.CodeCount = binary.BigEndian.Uint32(data[6:10])
	cs.PadBits = data[10]
	cs.Payload = data[codeHeaderSize:]
	if cs.PadBits > 7 || int(cs.PadBits) > len(cs.Payload)*8 {
		return cs, fmt.Errorf("%w: %d pad bits for a %d-byte payload", errs.ErrCorruptStream, cs.PadBits, len(cs.Payload))
	}
	return cs, nil
}
