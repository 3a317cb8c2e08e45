package storage

const PageSize = 4096

// Default cap on the number of addressable pages
const DefaultMaxPages = 100

type NodeType uint8

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

func (t NodeType) String() string {
	switch t {
	case NodeInternal:
		return "internal"
	case NodeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Common node header
const (
	nodeTypeSize        = 1
	nodeTypeOffset      = 0
	isRootSize          = 1
	isRootOffset        = nodeTypeOffset + nodeTypeSize
	parentPointerSize   = 4
	parentPointerOffset = isRootOffset + isRootSize

	CommonNodeHeaderSize = nodeTypeSize + isRootSize + parentPointerSize
)

// Leaf node header and body
const (
	leafNumCellsSize   = 4
	leafNumCellsOffset = CommonNodeHeaderSize

	LeafNodeHeaderSize = CommonNodeHeaderSize + leafNumCellsSize

	leafKeySize     = 4
	leafKeyOffset   = 0
	leafValueSize   = RowSize
	leafValueOffset = leafKeyOffset + leafKeySize

	LeafNodeCellSize      = leafKeySize + leafValueSize
	LeafNodeSpaceForCells = PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize
)

type Page struct {
	ID   uint32
	Data []byte
}

func NewPage(id uint32) *Page {
	return &Page{
		ID:   id,
		Data: make([]byte, PageSize),
	}
}
