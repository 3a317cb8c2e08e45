package storage

import (
	"fmt"

	"go.leafdb/internal/logger"
)

// Table is the single table of a database file. Its rows live in the root
// leaf on page 0.
type Table struct {
	pager    *Pager
	log      *logger.Logger
	rootPage uint32
	closed   bool
}

type Option func(*tableOptions)

type tableOptions struct {
	maxPages uint32
	log      *logger.Logger
}

func WithMaxPages(n uint32) Option {
	return func(o *tableOptions) {
		o.maxPages = n
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(o *tableOptions) {
		o.log = log
	}
}

func Open(path string, opts ...Option) (*Table, error) {
	o := tableOptions{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Discard()
	}

	pager, err := OpenPager(path, o.maxPages, o.log)
	if err != nil {
		return nil, err
	}

	t := &Table{
		pager:    pager,
		log:      o.log,
		rootPage: 0,
	}

	if pager.NumPages() == 0 {
		// New database file, page 0 becomes an empty root leaf
		p, err := pager.Page(t.rootPage)
		if err != nil {
			pager.Close()
			return nil, err
		}
		root := NewLeafNode(p)
		root.SetRoot(true)
		t.log.Infof("Open: initialized root leaf in %s", path)
	}

	return t, nil
}

// Close writes every loaded page back and releases the file
func (t *Table) Close() error {
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	return t.pager.Close()
}

func (t *Table) RootPage() uint32 {
	return t.rootPage
}

func (t *Table) Pager() *Pager {
	return t.pager
}

func (t *Table) leaf(id uint32) (*LeafNode, error) {
	if t.closed {
		return nil, ErrClosed
	}
	p, err := t.pager.Page(id)
	if err != nil {
		return nil, err
	}
	return WrapLeafNode(p), nil
}

func (t *Table) rootLeaf() (*LeafNode, error) {
	leaf, err := t.leaf(t.rootPage)
	if err != nil {
		return nil, err
	}
	if nt := leaf.GetNodeType(); nt != NodeLeaf {
		return nil, fmt.Errorf("root page %d is an %s node: %w", t.rootPage, nt, ErrCorruptFile)
	}
	return leaf, nil
}

// Insert stores row in its sorted position by ID
func (t *Table) Insert(row Row) error {
	c, err := t.Find(row.ID)
	if err != nil {
		return err
	}
	return c.Insert(row.ID, row)
}

// Scan calls fn for every row in key order, stopping at the first error
func (t *Table) Scan(fn func(Row) error) error {
	c, err := t.Start()
	if err != nil {
		return err
	}

	for !c.EndOfTable() {
		row, err := c.Row()
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) Rows() ([]Row, error) {
	var rows []Row
	err := t.Scan(func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	return rows, err
}

// Leaves hands each leaf of the tree to fn without modifying it
func (t *Table) Leaves(fn func(pageNum uint32, leaf *LeafNode) error) error {
	root, err := t.rootLeaf()
	if err != nil {
		return err
	}
	return fn(t.rootPage, root)
}
