package huffman

import (
	"cmp"
	"container/heap"
	"errors"
	"fmt"
	"slices"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
)

// MaxCodeLength is the longest canonical code the bit stream can carry.
const MaxCodeLength = 32

// ErrCodeTooLong is returned when a tree is deeper than MaxCodeLength.
var ErrCodeTooLong = errors.New("huffman: code longer than the limit")

// Tree is a node of a Huffman tree: a *Leaf or a *Node.
type Tree interface {
	Frequency() int
	getId() int
}

// Leaf carries an observed symbol.
type Leaf struct {
	Symbol uint32
	Freq   int
	id     int
}

// Node owns exactly two children; Left is bit 0 and Right is bit 1.
type Node struct {
	Freq        int
	Left, Right Tree
	id          int
}

func (leaf *Leaf) Frequency() int { return leaf.Freq }
func (leaf *Leaf) getId() int     { return leaf.id }
func (node *Node) Frequency() int { return node.Freq }
func (node *Node) getId() int     { return node.id }

type huffmanHeap []Tree

func (hub *huffmanHeap) Push(item any) {
	*hub = append(*hub, item.(Tree))
}

func (hub *huffmanHeap) Pop() any {
	popped := (*hub)[len(*hub)-1]
	(*hub) = (*hub)[:len(*hub)-1]
	return popped
}

func (hub huffmanHeap) Len() int {
	return len(hub)
}

// Less orders by frequency, then by creation id. Leaves are created in
// ascending symbol order before any internal node, so ties prefer the lower
// symbol, then the earlier node.
func (hub huffmanHeap) Less(i, j int) bool {
	if hub[i].Frequency() != hub[j].Frequency() {
		return hub[i].Frequency() < hub[j].Frequency()
	}
	return hub[i].getId() < hub[j].getId()
}

func (hub huffmanHeap) Swap(i, j int) {
	hub[i], hub[j] = hub[j], hub[i]
}

// Frequencies counts every symbol of symbols.
func Frequencies(symbols []uint32) map[uint32]int {
	symbolFreq := make(map[uint32]int)
	for _, symbol := range symbols {
		symbolFreq[symbol]++
	}
	return symbolFreq
}

// BuildTree merges the two least frequent nodes until one root remains.
// Symbols with a non-positive count are treated as unobserved.
func BuildTree(symbolFreq map[uint32]int) (Tree, error) {
	var keys []uint32
	for symbol, freq := range symbolFreq {
		if freq > 0 {
			keys = append(keys, symbol)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no symbols to build a Huffman tree from", errs.ErrEmptyInput)
	}
	slices.Sort(keys)
	treehub := make(huffmanHeap, 0, len(keys))
	monoId := 0
	for _, key := range keys {
		treehub = append(treehub, &Leaf{
			Symbol: key,
			Freq:   symbolFreq[key],
			id:     monoId,
		})
		monoId++
	}
	heap.Init(&treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(&treehub).(Tree)
		y := heap.Pop(&treehub).(Tree)
		heap.Push(&treehub, &Node{
			Freq:  x.Frequency() + y.Frequency(),
			Left:  x,
			Right: y,
			id:    monoId,
		})
		monoId++
	}
	return heap.Pop(&treehub).(Tree), nil
}

// Code is a canonical bit pattern, read most significant bit first.
type Code struct {
	Bits   uint32
	Length uint8
}

// CodeLength is one serialized entry of a canonical table.
type CodeLength struct {
	Symbol uint32
	Length uint8
}

// CodeTable maps each symbol to its canonical code.
type CodeTable map[uint32]Code

// Lengths returns the table's code lengths in ascending symbol order.
func (t CodeTable) Lengths() []CodeLength {
	lengths := make([]CodeLength, 0, len(t))
	for symbol, code := range t {
		lengths = append(lengths, CodeLength{Symbol: symbol, Length: code.Length})
	}
	slices.SortFunc(lengths, func(a, b CodeLength) int {
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return lengths
}

// DeriveCanonicalCodes measures every leaf's depth and assigns canonical
// codes from those lengths alone. A root that is itself a leaf gets a 1-bit
// code.
func DeriveCanonicalCodes(tree Tree) (CodeTable, error) {
	type frame struct {
		tree  Tree
		depth int
	}
	var lengths []CodeLength
	if leaf, ok := tree.(*Leaf); ok {
		lengths = append(lengths, CodeLength{Symbol: leaf.Symbol, Length: 1})
		return CanonicalCodes(lengths)
	}
	stack := []frame{{tree: tree}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch node := top.tree.(type) {
		case *Leaf:
			if top.depth > MaxCodeLength {
				return nil, fmt.Errorf("%w: symbol %d sits at depth %d", ErrCodeTooLong, node.Symbol, top.depth)
			}
			lengths = append(lengths, CodeLength{Symbol: node.Symbol, Length: uint8(top.depth)})
		case *Node:
			stack = append(stack, frame{node.Right, top.depth + 1}, frame{node.Left, top.depth + 1})
		default:
			return nil, fmt.Errorf("huffman: unknown tree node %T", top.tree)
		}
	}
	return CanonicalCodes(lengths)
}

// CanonicalCodes assigns codes to a length table: symbols sorted by
// (length, symbol) receive consecutive codes, shifted left whenever the length
// grows. Tables that could not come from a binary tree are rejected.
func CanonicalCodes(lengths []CodeLength) (CodeTable, error) {
	order := slices.Clone(lengths)
	slices.SortFunc(order, func(a, b CodeLength) int {
		if a.Length != b.Length {
			return cmp.Compare(a.Length, b.Length)
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	var kraft uint64
	table := make(CodeTable, len(order))
	for _, info := range order {
		if info.Length == 0 || info.Length > MaxCodeLength {
			return nil, fmt.Errorf("%w: symbol %d has code length %d", errs.ErrCorruptStream, info.Symbol, info.Length)
		}
		if _, dup := table[info.Symbol]; dup {
			return nil, fmt.Errorf("%w: symbol %d listed twice", errs.ErrCorruptStream, info.Symbol)
		}
		kraft += uint64(1) << (MaxCodeLength - info.Length)
		if kraft > uint64(1)<<MaxCodeLength {
			return nil, fmt.Errorf("%w: code lengths violate the Kraft inequality", errs.ErrCorruptStream)
		}
		table[info.Symbol] = Code{Length: info.Length}
	}
	var code uint64
	var prevLength uint8
	for i, info := range order {
		if i > 0 {
			code++
		}
		code <<= info.Length - prevLength
		prevLength = info.Length
		table[info.Symbol] = Code{Bits: uint32(code), Length: info.Length}
	}
	return table, nil
}

// BuildCodeTable builds a canonical table for symbolFreq whose codes fit in
// MaxCodeLength bits. Too deep trees are rebuilt from halved counts.
func BuildCodeTable(symbolFreq map[uint32]int) (CodeTable, error) {
	for {
		tree, err := BuildTree(symbolFreq)
		if err != nil {
			return nil, err
		}
		table, err := DeriveCanonicalCodes(tree)
		if !errors.Is(err, ErrCodeTooLong) {
			return table, err
		}
		halved := make(map[uint32]int, len(symbolFreq))
		for symbol, freq := range symbolFreq {
			if freq > 0 {
				halved[symbol] = (freq + 1) / 2
			}
		}
		symbolFreq = halved
	}
}
