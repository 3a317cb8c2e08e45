// Package statement turns a line of input into an insert or select request.
package statement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"go.leafdb/internal/storage"
)

type Kind int

const (
	Insert Kind = iota
	Select
)

func (k Kind) String() string {
	if k == Insert {
		return "insert"
	}
	return "select"
}

// Statement is a parsed request. Row is only set for inserts.
type Statement struct {
	Kind Kind
	Row  storage.Row
}

var (
	ErrSyntax        = errors.New("Syntax error. Could not parse statement.")
	ErrNegativeID    = errors.New("ID must be positive.")
	ErrStringTooLong = errors.New("String is too long.")
	ErrUnrecognized  = errors.New("unrecognized keyword")
)

// UnrecognizedError carries the input that did not start with a keyword
type UnrecognizedError struct {
	Input string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("Unrecognized keyword at start of '%s'.", e.Input)
}

func (e *UnrecognizedError) Unwrap() error {
	return ErrUnrecognized
}

// Fields are whitespace separated and anything after the email is ignored
type insertGrammar struct {
	ID       string   `parser:"'insert' @Word"`
	Username string   `parser:"@Word"`
	Email    string   `parser:"@Word"`
	Rest     []string `parser:"@Word*"`
}

var insertLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `\S+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var insertParser = participle.MustBuild[insertGrammar](
	participle.Lexer(insertLexer),
	participle.Elide("Whitespace"),
)

// Prepare parses one line of input
func Prepare(input string) (*Statement, error) {
	line := strings.TrimSpace(input)

	var keyword string
	if fields := strings.Fields(line); len(fields) > 0 {
		keyword = fields[0]
	}

	switch {
	case keyword == "insert":
		return prepareInsert(line)
	case line == "select":
		return &Statement{Kind: Select}, nil
	default:
		return nil, &UnrecognizedError{Input: line}
	}
}

func prepareInsert(line string) (*Statement, error) {
	parsed, err := insertParser.ParseString("", line)
	if err != nil {
		return nil, ErrSyntax
	}

	id, err := parseID(parsed.ID)
	if err != nil {
		return nil, err
	}

	row, err := storage.NewRow(id, parsed.Username, parsed.Email)
	if errors.Is(err, storage.ErrStringTooLong) {
		return nil, ErrStringTooLong
	} else if err != nil {
		return nil, err
	}

	return &Statement{Kind: Insert, Row: row}, nil
}

func parseID(s string) (uint32, error) {
	digits, neg := strings.CutPrefix(s, "-")
	if !neg {
		digits = strings.TrimPrefix(digits, "+")
	}

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		if neg && errors.Is(err, strconv.ErrRange) {
			return 0, ErrNegativeID
		}
		return 0, ErrSyntax
	}

	if neg && n != 0 {
		return 0, ErrNegativeID
	}
	return uint32(n), nil
}
