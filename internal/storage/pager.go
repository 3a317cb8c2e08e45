package storage

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"go.leafdb/internal/logger"
)

// Pager maps page numbers to in memory buffers backed by a single file.
// Pages are read from disk the first time they are requested and stay
// resident until Close writes them back.
type Pager struct {
	file       *os.File
	log        *logger.Logger
	fileLength int64
	numPages   uint32
	maxPages   uint32
	pages      map[uint32]*Page
}

func OpenPager(path string, maxPages uint32, log *logger.Logger) (*Pager, error) {
	if log == nil {
		log = logger.Discard()
	}
	if maxPages == 0 {
		maxPages = DefaultMaxPages
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrIO, err)
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("seek %s: %w: %w", path, ErrIO, err)
	}

	if size%PageSize != 0 {
		f.Close()
		log.Errorf("OpenPager: %s is %d bytes, not a multiple of %d", path, size, PageSize)
		return nil, fmt.Errorf("open %s: %d bytes is not a whole number of pages: %w", path, size, ErrCorruptFile)
	}

	log.Debugf("OpenPager: %s has %d pages", path, size/PageSize)

	return &Pager{
		file:       f,
		log:        log,
		fileLength: size,
		numPages:   uint32(size / PageSize),
		maxPages:   maxPages,
		pages:      make(map[uint32]*Page),
	}, nil
}

// Page returns the buffer for id, loading it from disk on first access
func (pager *Pager) Page(id uint32) (*Page, error) {
	if id >= pager.maxPages {
		pager.log.Errorf("Page: tried to fetch page %d, max is %d", id, pager.maxPages)
		return nil, fmt.Errorf("page %d >= %d: %w", id, pager.maxPages, ErrPageOutOfBounds)
	}

	if p, ok := pager.pages[id]; ok {
		return p, nil
	}

	p := NewPage(id)

	// Only pages inside the current file extent have bytes on disk
	if int64(id) < pager.fileLength/PageSize {
		n, err := pager.file.ReadAt(p.Data, int64(id)*PageSize)
		if err != nil && !(err == io.EOF && n == PageSize) {
			return nil, fmt.Errorf("read page %d: %w: %w", id, ErrIO, err)
		}
	}

	pager.pages[id] = p
	if id >= pager.numPages {
		pager.numPages = id + 1
	}
	return p, nil
}

// Flush writes a loaded page to its offset in the file
func (pager *Pager) Flush(id uint32) error {
	p, ok := pager.pages[id]
	if !ok {
		panic(fmt.Sprintf("Flush: page %d is not loaded", id))
	}

	off := int64(id) * PageSize
	n, err := pager.file.WriteAt(p.Data, off)
	if err != nil {
		return fmt.Errorf("write page %d: %w: %w", id, ErrIO, err)
	}
	if n != PageSize {
		return fmt.Errorf("write page %d: short write %d of %d: %w", id, n, PageSize, ErrIO)
	}

	if end := off + PageSize; end > pager.fileLength {
		pager.fileLength = end
	}
	return nil
}

// Close flushes every loaded page in ascending order and closes the file.
// The file is closed even when a flush fails.
func (pager *Pager) Close() error {
	var firstErr error
	for _, id := range slices.Sorted(maps.Keys(pager.pages)) {
		if err := pager.Flush(id); err != nil && firstErr == nil {
			pager.log.Errorf("Close: %v", err)
			firstErr = err
		}
		delete(pager.pages, id)
	}

	if err := pager.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close db file: %w: %w", ErrIO, err)
	}
	return firstErr
}

func (pager *Pager) NumPages() uint32 {
	return pager.numPages
}

func (pager *Pager) MaxPages() uint32 {
	return pager.maxPages
}

func (pager *Pager) FileLength() int64 {
	return pager.fileLength
}

// Loaded returns the number of pages currently held in memory
func (pager *Pager) Loaded() int {
	return len(pager.pages)
}
