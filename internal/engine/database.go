package engine

import (
	"io"

	"github.com/dustin/go-humanize"

	"go.leafdb/internal/logger"
	"go.leafdb/internal/storage"
)

// Database is an open table plus the logger it reports to
type Database struct {
	table *storage.Table
	log   *logger.Logger
	path  string

	logFile io.Closer
}

type Options struct {
	MaxPages uint32
	Log      *logger.Logger
}

func Open(path string, opts Options) (*Database, error) {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}

	tableOpts := []storage.Option{storage.WithLogger(log)}
	if opts.MaxPages > 0 {
		tableOpts = append(tableOpts, storage.WithMaxPages(opts.MaxPages))
	}

	table, err := storage.Open(path, tableOpts...)
	if err != nil {
		log.Errorf("Open: %s: %v", path, err)
		return nil, err
	}

	pager := table.Pager()
	log.Infof("Open: %s (%s, %d pages, max %d)",
		path, humanize.IBytes(uint64(pager.FileLength())), pager.NumPages(), pager.MaxPages())

	return &Database{
		table: table,
		log:   log,
		path:  path,
	}, nil
}

func (db *Database) Path() string {
	return db.path
}

func (db *Database) Table() *storage.Table {
	return db.table
}

// Close flushes every loaded page and closes the file
func (db *Database) Close() error {
	err := db.table.Close()
	if err != nil {
		db.log.Errorf("Close: %s: %v", db.path, err)
	} else {
		db.log.Infof("Close: %s (%s)", db.path, humanize.IBytes(uint64(db.table.Pager().FileLength())))
	}

	if db.logFile != nil {
		db.logFile.Close()
		db.logFile = nil
	}
	return err
}
