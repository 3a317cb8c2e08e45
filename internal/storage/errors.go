package storage

import "errors"

var (
	// pager
	ErrCorruptFile     = errors.New("corrupt db file")
	ErrPageOutOfBounds = errors.New("page number out of bounds")
	ErrIO              = errors.New("i/o error")
	// table
	ErrClosed = errors.New("table is closed")
	// leaf
	ErrNodeFull     = errors.New("leaf node is full")
	ErrDuplicateKey = errors.New("key already exists")
	// rows
	ErrStringTooLong = errors.New("string is too long")
)

// IsFatal reports whether err leaves the store in a state the session
// cannot continue from.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCorruptFile) ||
		errors.Is(err, ErrPageOutOfBounds) ||
		errors.Is(err, ErrIO)
}
