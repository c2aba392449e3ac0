// Package lzw implements the dictionary stage of the pipeline: an LZW coder
// with a CLEAR code, variable code widths and a bounded dictionary.
package lzw

import (
	"fmt"
	"math/bits"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

const (
	// ClearCode resets the dictionary to the 256 single-byte strings.
	ClearCode = 256
	// FirstCode is the first code assigned to a dictionary entry.
	FirstCode = 257
	// MinWidth holds the 256 byte codes plus CLEAR.
	MinWidth = 9
	// DefaultMaxWidth bounds the dictionary at 65536 codes.
	DefaultMaxWidth = 16
	// MaxWidthLimit is the widest dictionary the coder accepts.
	MaxWidthLimit = 20
)

// ValidateMaxWidth reports whether maxWidth is usable as a dictionary bound.
func ValidateMaxWidth(maxWidth uint) error {
	if maxWidth < MinWidth || maxWidth > MaxWidthLimit {
		return fmt.Errorf("lzw: max width %d outside [%d, %d]", maxWidth, MinWidth, MaxWidthLimit)
	}
	return nil
}

// widthTracker replays the decoder's dictionary growth so that the encoder
// side and the decoder side agree on the width of every code.
type widthTracker struct {
	nextCode uint32
	limit    uint32
	maxWidth uint
	fresh    bool
}

func newWidthTracker(maxWidth uint) *widthTracker {
	return &widthTracker{
		nextCode: FirstCode,
		limit:    1 << maxWidth,
		maxWidth: maxWidth,
		fresh:    true,
	}
}

// width is the smallest width able to hold nextCode, the highest code the
// next symbol may carry.
func (wt *widthTracker) width() uint {
	w := uint(bits.Len32(wt.nextCode))
	return min(max(w, MinWidth), wt.maxWidth)
}

// observe advances the tracker past code.
func (wt *widthTracker) observe(code uint32) {
	switch {
	case code == ClearCode:
		wt.nextCode = FirstCode
		wt.fresh = true
	case wt.fresh:
		wt.fresh = false
	case wt.nextCode < wt.limit:
		wt.nextCode++
	}
}

// encoder holds the string-to-code dictionary of one Encode call. Strings are
// keyed by their prefix code and final byte.
type encoder struct {
	dictionary map[uint32]uint32
	nextCode   uint32
	limit      uint32
}

func (e *encoder) reset() {
	clear(e.dictionary)
	e.nextCode = FirstCode
}

func (e *encoder) full() bool {
	return e.nextCode >= e.limit
}

func (e *encoder) add(key uint32) error {
	if e.full() {
		return fmt.Errorf("%w: code %d needs more than %d bits", errs.ErrWidthOverflow, e.nextCode, bits.Len32(e.limit-1))
	}
	e.dictionary[key] = e.nextCode
	e.nextCode++
	return nil
}

// Encode turns data into a sequence of LZW codes. The dictionary never holds
// more than 1<<maxWidth codes: once it is full, CLEAR follows the next
// emitted code and the dictionary restarts from the byte alphabet.
func Encode(data []byte, maxWidth uint) ([]uint32, error) {
	if err := ValidateMaxWidth(maxWidth); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []uint32{}, nil
	}
	e := &encoder{
		dictionary: make(map[uint32]uint32),
		nextCode:   FirstCode,
		limit:      1 << maxWidth,
	}
	codes := make([]uint32, 0, len(data)/2+1)
	current := uint32(data[0])
	for _, b := range data[1:] {
		key := current<<8 | uint32(b)
		if code, ok := e.dictionary[key]; ok {
			current = code
			continue
		}
		codes = append(codes, current)
		if e.full() {
			codes = append(codes, ClearCode)
			e.reset()
		} else if err := e.add(key); err != nil {
			return nil, err
		}
		current = uint32(b)
	}
	codes = append(codes, current)
	return codes, nil
}

// Decode rebuilds the dictionary from the code stream and returns the
// original bytes.
func Decode(codes []uint32, maxWidth uint) ([]byte, error) {
	if err := ValidateMaxWidth(maxWidth); err != nil {
		return nil, err
	}
	limit := uint32(1) << maxWidth
	entries := baseEntries()
	var output []byte
	var previousEntry []byte
	for i, code := range codes {
		if code == ClearCode {
			if previousEntry == nil {
				return nil, fmt.Errorf("%w: CLEAR at code %d without a pending entry", errs.ErrCorruptStream, i)
			}
			entries = entries[:FirstCode]
			previousEntry = nil
			continue
		}
		nextCode := uint32(len(entries))
		var entry []byte
		switch {
		case code < nextCode:
			entry = entries[code]
		case code == nextCode && previousEntry != nil:
			entry = append(append(make([]byte, 0, len(previousEntry)+1), previousEntry...), previousEntry[0])
		default:
			return nil, fmt.Errorf("%w: code %d at position %d, dictionary holds %d codes", errs.ErrCorruptStream, code, i, nextCode)
		}
		output = append(output, entry...)
		if previousEntry != nil {
			if nextCode >= limit {
				return nil, fmt.Errorf("%w: dictionary full at position %d without CLEAR", errs.ErrWidthOverflow, i)
			}
			added := append(append(make([]byte, 0, len(previousEntry)+1), previousEntry...), entry[0])
			entries = append(entries, added)
		}
		previousEntry = entry
	}
	if output == nil {
		output = []byte{}
	}
	return output, nil
}

// baseEntries returns the byte alphabet followed by the CLEAR placeholder.
func baseEntries() [][]byte {
	entries := make([][]byte, FirstCode, 1<<MinWidth)
	for i := range 256 {
		entries[i] = []byte{byte(i)}
	}
	return entries
}
