// Package bitstream packs and unpacks bits most-significant-first.
package bitstream

import (
	"fmt"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

// MaxBits is the widest value AppendBits and ReadBits accept.
const MaxBits = 32

type bitBuffer struct {
	bitsHolder uint64
	bitsCount  uint
}

// Writer accumulates bits into whole bytes.
type Writer struct {
	output    []byte
	bitBuffer bitBuffer
	written   int
}

func NewWriter() *Writer {
	return new(Writer)
}

// AppendBits appends the low count bits of value, most significant first.
func (w *Writer) AppendBits(value uint32, count uint) error {
	if count > MaxBits {
		return fmt.Errorf("bitstream: cannot append %d bits, limit is %d", count, MaxBits)
	}
	if count == 0 {
		return nil
	}
	bb := &w.bitBuffer
	mask := uint64(1)<<count - 1
	bb.bitsHolder = bb.bitsHolder<<count | uint64(value)&mask
	bb.bitsCount += count
	for bb.bitsCount >= 8 {
		bb.bitsCount -= 8
		w.output = append(w.output, byte(bb.bitsHolder>>bb.bitsCount))
	}
	bb.bitsHolder &= uint64(1)<<bb.bitsCount - 1
	w.written += int(count)
	return nil
}

func (w *Writer) AppendBit(bit uint8) {
	// a single bit never exceeds MaxBits
	_ = w.AppendBits(uint32(bit&1), 1)
}

// Len reports the number of bits appended so far.
func (w *Writer) Len() int {
	return w.written
}

// Finalize pads the stream with zero bits up to a byte boundary and returns
// the packed bytes and the number of pad bits. The writer must not be used
// afterwards.
func (w *Writer) Finalize() ([]byte, uint8) {
	bb := &w.bitBuffer
	var padBits uint8
	if bb.bitsCount > 0 {
		padBits = uint8(8 - bb.bitsCount)
		w.output = append(w.output, byte(bb.bitsHolder<<padBits))
		bb.bitsHolder, bb.bitsCount = 0, 0
	}
	return w.output, padBits
}

// Reader walks a packed stream bit by bit. The trailing pad bits declared at
// construction are not part of the readable payload.
type Reader struct {
	data   []byte
	cursor int
	end    int
}

// NewReader returns a reader over data whose last padBits bits are padding.
func NewReader(data []byte, padBits uint8) (*Reader, error) {
	if padBits > 7 {
		return nil, fmt.Errorf("%w: pad bit count %d exceeds a byte", errs.ErrCorruptStream, padBits)
	}
	total := len(data) * 8
	if int(padBits) > total {
		return nil, fmt.Errorf("%w: %d pad bits declared for %d payload bits", errs.ErrCorruptStream, padBits, total)
	}
	return &Reader{data: data, end: total - int(padBits)}, nil
}

func (r *Reader) ReadBit() (uint8, error) {
	if r.cursor >= r.end {
		return 0, errs.ErrEndOfStream
	}
	bit := r.data[r.cursor>>3] >> (7 - uint(r.cursor&7)) & 1
	r.cursor++
	return bit, nil
}

// ReadBits reassembles a count-bit value, most significant bit first.
func (r *Reader) ReadBits(count uint) (uint32, error) {
	if count > MaxBits {
		return 0, fmt.Errorf("bitstream: cannot read %d bits, limit is %d", count, MaxBits)
	}
	if r.Remaining() < int(count) {
		return 0, errs.ErrEndOfStream
	}
	var value uint32
	for range count {
		bit, _ := r.ReadBit()
		value = value<<1 | uint32(bit)
	}
	return value, nil
}

// Remaining reports how many payload bits are still unread.
func (r *Reader) Remaining() int {
	return r.end - r.cursor
}

// SkipPadding consumes the padBits trailing bits once the payload has been
// read in full. Padding must be zero and must close the last byte exactly.
func (r *Reader) SkipPadding(padBits uint8) error {
	if r.cursor != r.end {
		return fmt.Errorf("%w: %d payload bits left before padding", errs.ErrCorruptStream, r.end-r.cursor)
	}
	if r.end+int(padBits) != len(r.data)*8 {
		return fmt.Errorf("%w: padding of %d bits does not close the stream", errs.ErrCorruptStream, padBits)
	}
	for range padBits {
		bit := r.data[r.cursor>>3] >> (7 - uint(r.cursor&7)) & 1
		if bit != 0 {
			return fmt.Errorf("%w: non-zero pad bit", errs.ErrCorruptStream)
		}
		r.cursor++
	}
	return nil
}
