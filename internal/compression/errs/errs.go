// Package errs holds the error kinds shared by the codec packages.
// Callers match them with errors.Is; codecs wrap them with context.
package errs

import "errors"

var (
	// ErrEmptyInput is returned when a Huffman tree is requested over zero symbols.
	ErrEmptyInput = errors.New("empty input")
	// ErrCorruptStream marks a stream that cannot be decoded.
	ErrCorruptStream = errors.New("corrupt stream")
	// ErrFormatMismatch marks an artifact with an unknown magic or version.
	ErrFormatMismatch = errors.New("format mismatch")
	// ErrWidthOverflow means the LZW dictionary grew past the maximum width
	// without a CLEAR code. It signals an encoder/decoder defect.
	ErrWidthOverflow = errors.New("lzw code width overflow")
	// ErrEndOfStream is returned by bit readers that have no bits left.
	ErrEndOfStream = errors.New("end of stream")
)
