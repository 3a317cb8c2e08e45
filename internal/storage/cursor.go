package storage

import "fmt"

// Cursor is a position inside the table. It borrows the table and must not
// outlive it. Only one cursor may be used for mutation at a time.
type Cursor struct {
	table      *Table
	pageNum    uint32
	cellNum    int
	endOfTable bool
}

// Start returns a cursor at the first row
func (t *Table) Start() (*Cursor, error) {
	root, err := t.rootLeaf()
	if err != nil {
		return nil, err
	}
	return &Cursor{
		table:      t,
		pageNum:    t.rootPage,
		cellNum:    0,
		endOfTable: root.GetNumCells() == 0,
	}, nil
}

// End returns a cursor one past the last row
func (t *Table) End() (*Cursor, error) {
	root, err := t.rootLeaf()
	if err != nil {
		return nil, err
	}
	return &Cursor{
		table:      t,
		pageNum:    t.rootPage,
		cellNum:    root.GetNumCells(),
		endOfTable: true,
	}, nil
}

// Find returns a cursor at the cell holding key, or at the cell where key
// would be inserted to keep the leaf sorted.
func (t *Table) Find(key uint32) (*Cursor, error) {
	root, err := t.rootLeaf()
	if err != nil {
		return nil, err
	}
	idx := root.FindIndex(key)
	n := root.GetNumCells()
	return &Cursor{
		table:      t,
		pageNum:    t.rootPage,
		cellNum:    idx,
		endOfTable: idx >= n,
	}, nil
}

func (c *Cursor) PageNum() uint32 {
	return c.pageNum
}

func (c *Cursor) CellNum() int {
	return c.cellNum
}

func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

func (c *Cursor) node() (*LeafNode, error) {
	return c.table.leaf(c.pageNum)
}

// Advance moves to the next cell. There is a single leaf so the cursor
// never crosses pages.
func (c *Cursor) Advance() error {
	leaf, err := c.node()
	if err != nil {
		return err
	}
	c.cellNum++
	if c.cellNum >= leaf.GetNumCells() {
		c.endOfTable = true
	}
	return nil
}

// Value returns a mutable view of the serialized row under the cursor
func (c *Cursor) Value() ([]byte, error) {
	leaf, err := c.node()
	if err != nil {
		return nil, err
	}
	if err := c.checkCell(leaf); err != nil {
		return nil, err
	}
	return leaf.Value(c.cellNum), nil
}

func (c *Cursor) Key() (uint32, error) {
	leaf, err := c.node()
	if err != nil {
		return 0, err
	}
	if err := c.checkCell(leaf); err != nil {
		return 0, err
	}
	return leaf.GetKey(c.cellNum), nil
}

func (c *Cursor) Row() (Row, error) {
	v, err := c.Value()
	if err != nil {
		return Row{}, err
	}
	return DecodeRow(v), nil
}

// Insert writes key/row at the cursor, shifting later cells right. The
// cursor must sit on the sorted slot for key, as returned by Find.
func (c *Cursor) Insert(key uint32, row Row) error {
	leaf, err := c.node()
	if err != nil {
		return err
	}

	n := leaf.GetNumCells()
	if n >= LeafNodeMaxCells {
		c.table.log.Warnf("Insert: leaf %d is full (%d cells), key %d rejected", c.pageNum, n, key)
		return fmt.Errorf("insert key %d: %w", key, ErrNodeFull)
	}

	if c.cellNum > n {
		return fmt.Errorf("insert key %d: cell %d past end %d: %w", key, c.cellNum, n, ErrPageOutOfBounds)
	}

	if c.cellNum < n && leaf.GetKey(c.cellNum) == key {
		return fmt.Errorf("insert key %d: %w", key, ErrDuplicateKey)
	}

	if err := leaf.Insert(c.cellNum, key, row); err != nil {
		return fmt.Errorf("insert key %d: %w", key, err)
	}
	c.endOfTable = false
	return nil
}

func (c *Cursor) checkCell(leaf *LeafNode) error {
	if c.cellNum >= leaf.GetNumCells() {
		return fmt.Errorf("cell %d of page %d: %w", c.cellNum, c.pageNum, ErrPageOutOfBounds)
	}
	return nil
}
