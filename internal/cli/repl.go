package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.leafdb/internal/engine"
	"go.leafdb/internal/statement"
	"go.leafdb/internal/storage"
)

const Prompt = "db > "

// errExit is returned by the .exit meta command to end the session
var errExit = errors.New("exit")

type repl struct {
	db     *engine.Database
	out    io.Writer
	prompt string
}

// runREPL reads lines from in until .exit or end of input. The database is
// closed on every path out. A non-nil error is fatal to the session.
func runREPL(db *engine.Database, in io.Reader, out io.Writer, prompt string) (err error) {
	r := &repl{db: db, out: out, prompt: prompt}

	defer func() {
		if cErr := db.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	reader := bufio.NewScanner(in)
	reader.Buffer(make([]byte, 0, 4096), 1<<20)

	for {
		fmt.Fprint(out, r.prompt)

		if !reader.Scan() {
			return reader.Err()
		}

		input := strings.TrimSpace(reader.Text())

		// Check for blank input
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, ".") {
			if mErr := r.meta(input); errors.Is(mErr, errExit) {
				return nil
			} else if mErr != nil {
				return mErr
			}
			continue
		}

		if sErr := r.statement(input); sErr != nil {
			return sErr
		}
	}
}

func (r *repl) statement(input string) error {
	st, err := statement.Prepare(input)
	if err != nil {
		// Parse errors are reported and the session continues
		fmt.Fprintln(r.out, err.Error())
		return nil
	}

	res, rows, err := r.db.Execute(st)
	if err != nil {
		// Fatal errors end the session and are reported once by Execute
		if storage.IsFatal(err) {
			return err
		}
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return nil
	}

	for _, row := range rows {
		fmt.Fprintln(r.out, row.String())
	}
	fmt.Fprintln(r.out, res.String())
	return nil
}
