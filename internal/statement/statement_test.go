package statement

import (
	"errors"
	"strings"
	"testing"
)

func TestPrepareInsert(t *testing.T) {
	st, err := Prepare("insert 1 user1 person1@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if st.Kind != Insert {
		t.Fatalf("kind = %v", st.Kind)
	}
	if got := st.Row.String(); got != "(1, user1, person1@example.com)" {
		t.Fatalf("row = %s", got)
	}
}

func TestPrepareInsertNumericUsername(t *testing.T) {
	st, err := Prepare("  insert   0   123   456  ")
	if err != nil {
		t.Fatal(err)
	}
	if st.Row.ID != 0 || st.Row.Username() != "123" || st.Row.Email() != "456" {
		t.Fatalf("row = %s", st.Row)
	}
}

func TestPrepareSelect(t *testing.T) {
	st, err := Prepare("select")
	if err != nil {
		t.Fatal(err)
	}
	if st.Kind != Select {
		t.Fatalf("kind = %v", st.Kind)
	}
}

func TestPrepareErrors(t *testing.T) {
	cases := []struct {
		input string
		want  error
		msg   string
	}{
		{"insert", ErrSyntax, "Syntax error. Could not parse statement."},
		{"insert 1", ErrSyntax, "Syntax error. Could not parse statement."},
		{"insert 1 user", ErrSyntax, "Syntax error. Could not parse statement."},
		{"insert abc user email", ErrSyntax, "Syntax error. Could not parse statement."},
		{"insert --1 user email", ErrSyntax, "Syntax error. Could not parse statement."},
		{"insert 1x user email", ErrSyntax, "Syntax error. Could not parse statement."},
		{"insert -99999999999 user email", ErrNegativeID, "ID must be positive."},
		{"insert -1 user email@example.com", ErrNegativeID, "ID must be positive."},
		{"insert 1 " + strings.Repeat("a", 33) + " email@example.com", ErrStringTooLong, "String is too long."},
		{"insert 1 username " + strings.Repeat("a", 250) + "@example.com", ErrStringTooLong, "String is too long."},
		{"delete", ErrUnrecognized, "Unrecognized keyword at start of 'delete'."},
		{"selectall", ErrUnrecognized, "Unrecognized keyword at start of 'selectall'."},
		{"inserted 1 a b", ErrUnrecognized, "Unrecognized keyword at start of 'inserted 1 a b'."},
	}

	for _, c := range cases {
		_, err := Prepare(c.input)
		if !errors.Is(err, c.want) {
			t.Fatalf("Prepare(%q) = %v, want %v", c.input, err, c.want)
		}
		if err.Error() != c.msg {
			t.Fatalf("Prepare(%q) message %q, want %q", c.input, err.Error(), c.msg)
		}
	}
}

func TestPrepareMaxLengthUsername(t *testing.T) {
	name := strings.Repeat("a", 32)
	st, err := Prepare("insert 1 " + name + " email@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if st.Row.Username() != name {
		t.Fatalf("username = %q", st.Row.Username())
	}
}

func TestPrepareIDOverflow(t *testing.T) {
	if _, err := Prepare("insert 4294967296 a b"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("overflowing id: %v", err)
	}
	st, err := Prepare("insert 4294967295 a b")
	if err != nil {
		t.Fatal(err)
	}
	if st.Row.ID != 4294967295 {
		t.Fatalf("id = %d", st.Row.ID)
	}
}

func TestPrepareFieldsStartingWithDigits(t *testing.T) {
	cases := []struct {
		input    string
		username string
		email    string
	}{
		{"insert 1 user 1@example.com", "user", "1@example.com"},
		{"insert 1 5-a x@y.com", "5-a", "x@y.com"},
		{"insert 1 2pac a@b.com", "2pac", "a@b.com"},
		{"insert 1 -7 +8", "-7", "+8"},
	}

	for _, c := range cases {
		st, err := Prepare(c.input)
		if err != nil {
			t.Fatalf("Prepare(%q): %v", c.input, err)
		}
		if st.Row.Username() != c.username || st.Row.Email() != c.email {
			t.Fatalf("Prepare(%q) = %s", c.input, st.Row)
		}
	}
}

func TestPrepareIgnoresTrailingFields(t *testing.T) {
	st, err := Prepare("insert 1 a b extra fields")
	if err != nil {
		t.Fatal(err)
	}
	if got := st.Row.String(); got != "(1, a, b)" {
		t.Fatalf("row = %s", got)
	}
}

func TestPrepareExplicitPlusID(t *testing.T) {
	st, err := Prepare("insert +3 a b")
	if err != nil {
		t.Fatal(err)
	}
	if st.Row.ID != 3 {
		t.Fatalf("id = %d", st.Row.ID)
	}
}
