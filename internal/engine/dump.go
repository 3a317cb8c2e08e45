package engine

import (
	"fmt"
	"io"

	"go.leafdb/internal/storage"
)

// WriteTree prints every leaf as its size followed by "index : key" lines
func (db *Database) WriteTree(w io.Writer) error {
	fmt.Fprintln(w, "Tree:")
	return db.table.Leaves(func(_ uint32, leaf *storage.LeafNode) error {
		n := leaf.GetNumCells()
		fmt.Fprintf(w, "leaf (size %d)\n", n)
		for i := 0; i < n; i++ {
			fmt.Fprintf(w, "  - %d : %d\n", i, leaf.GetKey(i))
		}
		return nil
	})
}

func WriteConstants(w io.Writer) {
	fmt.Fprintln(w, "Constants:")
	fmt.Fprintf(w, "ROW_SIZE: %d\n", storage.RowSize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", storage.CommonNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", storage.LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", storage.LeafNodeCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", storage.LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", storage.LeafNodeMaxCells)
}
