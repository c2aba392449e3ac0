package lzw

import (
	"errors"
	"fmt"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/bitstream"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

// Pack writes codes at the width the decoder will expect for each of them and
// returns the packed bytes and the pad bit count.
func Pack(codes []uint32, maxWidth uint) ([]byte, uint8, error) {
	if err := ValidateMaxWidth(maxWidth); err != nil {
		return nil, 0, err
	}
	tracker := newWidthTracker(maxWidth)
	writer := bitstream.NewWriter()
	for i, code := range codes {
		width := tracker.width()
		if code >= 1<<width {
			return nil, 0, fmt.Errorf("%w: code %d at position %d does not fit %d bits", errs.ErrWidthOverflow, code, i, width)
		}
		if err := writer.AppendBits(code, width); err != nil {
			return nil, 0, err
		}
		tracker.observe(code)
	}
	payload, padBits := writer.Finalize()
	return payload, padBits, nil
}

// Unpack reads count codes written by Pack.
func Unpack(payload []byte, padBits uint8, count int, maxWidth uint) ([]uint32, error) {
	if err := ValidateMaxWidth(maxWidth); err != nil {
		return nil, err
	}
	reader, err := bitstream.NewReader(payload, padBits)
	if err != nil {
		return nil, err
	}
	tracker := newWidthTracker(maxWidth)
	codes := make([]uint32, 0, min(count, len(payload)*8/MinWidth+1))
	for i := range count {
		code, err := reader.ReadBits(tracker.width())
		if errors.Is(err, errs.ErrEndOfStream) {
			return nil, fmt.Errorf("%w: stream ends after %d of %d codes", errs.ErrCorruptStream, i, count)
		} else if err != nil {
			return nil, err
		}
		codes = append(codes, code)
		tracker.observe(code)
	}
	if err := reader.SkipPadding(padBits); err != nil {
		return nil, err
	}
	return codes, nil
}
