package container

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

func TestSerializeLayout(t *testing.T) {
	got, err := Serialize(Artifact{
		SymbolCount: 3,
		Table:       []Entry{{Symbol: 65, Length: 1}, {Symbol: 257, Length: 1}},
		PadBits:     5,
		Payload:     []byte{0b01000000},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		'F', 'L', 'K', 'Z', Version,
		0, 0, 0, 3,
		0, 2,
		0, 0, 0, 65, 1,
		0, 0, 1, 1, 1,
		5,
		0b01000000,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x\nwant % x", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []Artifact{
		{SymbolCount: 0, Table: []Entry{}, PadBits: 0, Payload: []byte{}},
		{SymbolCount: 10, Table: []Entry{{1, 2}, {2, 2}, {70000, 1}}, PadBits: 3, Payload: []byte{1, 2, 3}},
	}
	for _, a := range tests {
		data, err := Serialize(a)
		if err != nil {
			t.Fatal(err)
		}
		parsed, err := Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(parsed, a) {
			t.Fatalf("got %+v, want %+v", parsed, a)
		}
	}
}

func TestFullTableWrapsToZero(t *testing.T) {
	table := make([]Entry, MaxTableSize)
	for i := range table {
		table[i] = Entry{Symbol: uint32(i), Length: 16}
	}
	data, err := Serialize(Artifact{SymbolCount: 1, Table: table, Payload: []byte{0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if data[9] != 0 || data[10] != 0 {
		t.Fatalf("TableSize written as %d", int(data[9])<<8|int(data[10]))
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Table) != MaxTableSize {
		t.Fatalf("parsed %d entries", len(parsed.Table))
	}
}

func TestSerializeRejects(t *testing.T) {
	tests := []struct {
		name string
		a    Artifact
	}{
		{"unordered table", Artifact{SymbolCount: 2, Table: []Entry{{2, 1}, {1, 1}}}},
		{"missing table", Artifact{SymbolCount: 2}},
		{"pad overflow", Artifact{SymbolCount: 1, Table: []Entry{{1, 1}}, PadBits: 8, Payload: []byte{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Serialize(tt.a); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	valid, err := Serialize(Artifact{SymbolCount: 4, Table: []Entry{{1, 1}, {2, 1}}, PadBits: 4, Payload: []byte{0x50}})
	if err != nil {
		t.Fatal(err)
	}
	badVersion := bytes.Clone(valid)
	badVersion[4] = Version + 1
	unordered := bytes.Clone(valid)
	unordered[14] = 9
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrFormatMismatch},
		{"wrong magic", []byte("GZIP\x01"), errs.ErrFormatMismatch},
		{"wrong version", badVersion, errs.ErrFormatMismatch},
		{"magic only", valid[:4], errs.ErrCorruptStream},
		{"truncated header", valid[:8], errs.ErrCorruptStream},
		{"truncated table", valid[:14], errs.ErrCorruptStream},
		{"pad bits without payload", valid[:len(valid)-1], errs.ErrCorruptStream},
		{"unordered table", unordered, errs.ErrCorruptStream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCodeStreamRoundTrip(t *testing.T) {
	cs := CodeStream{MaxWidth: 12, CodeCount: 5, PadBits: 3, Payload: []byte{9, 8, 7, 6, 5, 4}}
	data, err := SerializeCodeStream(cs)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseCodeStream(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parsed, cs) {
		t.Fatalf("got %+v, want %+v", parsed, cs)
	}
	if _, err := Parse(data); !errors.Is(err, errs.ErrFormatMismatch) {
		t.Fatalf("combined parser accepted an LZW artifact: %v", err)
	}
	if _, err := ParseCodeStream(data[:7]); !errors.Is(err, errs.ErrCorruptStream) {
		t.Fatalf("truncated header: %v", err)
	}
}
