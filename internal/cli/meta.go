package cli

import (
	"fmt"

	"go.leafdb/internal/engine"
)

type metaCommand func(r *repl) error

var metaCommands = map[string]metaCommand{
	".exit": func(r *repl) error {
		return errExit
	},
	".btree": func(r *repl) error {
		return r.db.WriteTree(r.out)
	},
	".constants": func(r *repl) error {
		engine.WriteConstants(r.out)
		return nil
	},
}

func (r *repl) meta(input string) error {
	cmd, ok := metaCommands[input]
	if !ok {
		fmt.Fprintf(r.out, "Unrecognized command '%s'\n", input)
		return nil
	}
	return cmd(r)
}
