package storage

import (
	"encoding/binary"
	"sort"
)

// LeafNode gives typed access to the header and cells of a leaf page.
// Cell indexes are not checked against the cell count, callers (the
// cursor) keep them in range.
type LeafNode struct {
	Page *Page
}

// NewLeafNode initializes page as an empty leaf
func NewLeafNode(page *Page) *LeafNode {
	leaf := WrapLeafNode(page)
	leaf.Initialize()
	return leaf
}

func WrapLeafNode(page *Page) *LeafNode {
	return &LeafNode{
		Page: page,
	}
}

func (ln *LeafNode) Initialize() {
	ln.SetNodeType(NodeLeaf)
	ln.SetNumCells(0)
}

// GETTERS
func (ln *LeafNode) GetNodeType() NodeType {
	return NodeType(ln.Page.Data[nodeTypeOffset])
}

func (ln *LeafNode) IsRoot() bool {
	return ln.Page.Data[isRootOffset] != 0
}

func (ln *LeafNode) GetParent() uint32 {
	raw := ln.Page.Data[parentPointerOffset : parentPointerOffset+parentPointerSize]
	return binary.LittleEndian.Uint32(raw)
}

func (ln *LeafNode) GetNumCells() int {
	raw := ln.Page.Data[leafNumCellsOffset : leafNumCellsOffset+leafNumCellsSize]
	return int(binary.LittleEndian.Uint32(raw))
}

// Cell returns the raw bytes of cell i
func (ln *LeafNode) Cell(i int) []byte {
	off := cellOffset(i)
	return ln.Page.Data[off : off+LeafNodeCellSize]
}

func (ln *LeafNode) GetKey(i int) uint32 {
	cell := ln.Cell(i)
	return binary.LittleEndian.Uint32(cell[leafKeyOffset : leafKeyOffset+leafKeySize])
}

// Value returns a mutable view of the serialized row in cell i
func (ln *LeafNode) Value(i int) []byte {
	cell := ln.Cell(i)
	return cell[leafValueOffset : leafValueOffset+leafValueSize]
}

// SETTERS
func (ln *LeafNode) SetNodeType(t NodeType) {
	ln.Page.Data[nodeTypeOffset] = byte(t)
}

func (ln *LeafNode) SetRoot(root bool) {
	var v byte
	if root {
		v = 1
	}
	ln.Page.Data[isRootOffset] = v
}

func (ln *LeafNode) SetParent(id uint32) {
	binary.LittleEndian.PutUint32(ln.Page.Data[parentPointerOffset:parentPointerOffset+parentPointerSize], id)
}

func (ln *LeafNode) SetNumCells(n int) {
	binary.LittleEndian.PutUint32(ln.Page.Data[leafNumCellsOffset:leafNumCellsOffset+leafNumCellsSize], uint32(n))
}

func (ln *LeafNode) SetKey(i int, key uint32) {
	cell := ln.Cell(i)
	binary.LittleEndian.PutUint32(cell[leafKeyOffset:leafKeyOffset+leafKeySize], key)
}

// FindIndex returns the first cell whose key is >= key
func (ln *LeafNode) FindIndex(key uint32) int {
	return sort.Search(ln.GetNumCells(), func(i int) bool {
		return ln.GetKey(i) >= key
	})
}

// Insert places key/row at cell idx, shifting the cells after it one slot right
func (ln *LeafNode) Insert(idx int, key uint32, row Row) error {
	n := ln.GetNumCells()
	if n >= LeafNodeMaxCells {
		return ErrNodeFull
	}

	if idx < n {
		// Cells are contiguous so one overlapping copy moves the whole tail
		start := cellOffset(idx)
		end := cellOffset(n)
		copy(ln.Page.Data[start+LeafNodeCellSize:end+LeafNodeCellSize], ln.Page.Data[start:end])
	}

	ln.SetNumCells(n + 1)
	ln.SetKey(idx, key)
	row.Encode(ln.Value(idx))
	return nil
}

func cellOffset(i int) int {
	return LeafNodeHeaderSize + i*LeafNodeCellSize
}
