package engine

import (
	"errors"
	"fmt"

	"go.leafdb/internal/statement"
	"go.leafdb/internal/storage"
)

type Result int

const (
	ResultSuccess Result = iota
	ResultTableFull
	ResultDuplicateKey
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "Executed."
	case ResultTableFull:
		return "Error: Table full."
	case ResultDuplicateKey:
		return "Error: Duplicate key."
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Execute runs one statement. Table full and duplicate keys are reported
// through Result; a non-nil error means the store itself failed.
func (db *Database) Execute(st *statement.Statement) (Result, []storage.Row, error) {
	switch st.Kind {
	case statement.Insert:
		return db.executeInsert(st)
	case statement.Select:
		return db.executeSelect()
	default:
		return ResultSuccess, nil, fmt.Errorf("unknown statement kind %d", int(st.Kind))
	}
}

func (db *Database) executeInsert(st *statement.Statement) (Result, []storage.Row, error) {
	err := db.table.Insert(st.Row)
	switch {
	case err == nil:
		db.log.Debugf("Execute: inserted %d", st.Row.ID)
		return ResultSuccess, nil, nil
	case errors.Is(err, storage.ErrNodeFull):
		db.log.Warnf("Execute: %v", err)
		return ResultTableFull, nil, nil
	case errors.Is(err, storage.ErrDuplicateKey):
		db.log.Infof("Execute: %v", err)
		return ResultDuplicateKey, nil, nil
	default:
		db.log.Errorf("Execute: insert %d: %v", st.Row.ID, err)
		return ResultSuccess, nil, err
	}
}

func (db *Database) executeSelect() (Result, []storage.Row, error) {
	rows, err := db.table.Rows()
	if err != nil {
		db.log.Errorf("Execute: select: %v", err)
		return ResultSuccess, nil, err
	}
	return ResultSuccess, rows, nil
}
