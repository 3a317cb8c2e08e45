package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.leafdb/internal/auth"
	"go.leafdb/internal/config"
	"go.leafdb/internal/engine"
	"go.leafdb/internal/storage"
)

type client struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

// readPrompt returns everything written before the next prompt
func (c *client) readPrompt() string {
	c.t.Helper()

	var sb strings.Builder
	for !strings.HasSuffix(sb.String(), string(Prompt)) {
		b, err := c.r.ReadByte()
		if err != nil {
			c.t.Fatalf("read: %v (got %q)", err, sb.String())
		}
		sb.WriteByte(b)
	}
	return strings.TrimSuffix(strings.TrimSuffix(sb.String(), string(Prompt)), "\n")
}

func (c *client) send(line string) string {
	c.t.Helper()
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("write: %v", err)
	}
	return c.readPrompt()
}

func startServer(t *testing.T) (string, func() error) {
	t.Helper()
	addr, stop, db := startServerOn(t, filepath.Join(t.TempDir(), "server.db"))
	t.Cleanup(func() { db.Close() })
	return addr, stop
}

// startServerOn serves the database at dbPath with three users, one per role
func startServerOn(t *testing.T, dbPath string) (string, func() error, *engine.Database) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{UserFile: filepath.Join(dir, "users.json")}

	fs, err := auth.NewFileStore(cfg.UserFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range []struct {
		name string
		role auth.Role
	}{
		{"root", auth.RoleSuperuser},
		{"alice", auth.RoleUser},
		{"bob", auth.RoleGuest},
	} {
		user, err := auth.NewUser(u.name, "secret", u.role)
		if err != nil {
			t.Fatal(err)
		}
		if err := fs.SaveUser(user); err != nil {
			t.Fatal(err)
		}
	}

	db, err := engine.Open(dbPath, engine.Options{})
	if err != nil {
		t.Fatal(err)
	}

	srv, err := New(cfg, db, nil)
	if err != nil {
		t.Fatal(err)
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, l) }()

	stop := func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
			return nil
		}
	}
	return l.Addr().String(), stop, db
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	c := &client{t: t, conn: conn, r: bufio.NewReader(conn)}
	if got := c.readPrompt(); got != "" {
		t.Fatalf("greeting = %q", got)
	}
	return c
}

func TestServerSession(t *testing.T) {
	addr, stop := startServer(t)

	c := dial(t, addr)

	if got := c.send("select"); got != "ERR: Not authenticated" {
		t.Fatalf("unauthenticated select = %q", got)
	}
	if got := c.send("AUTH alice wrong"); got != "ERR: invalid credentials" {
		t.Fatalf("bad password = %q", got)
	}
	if got := c.send("AUTH alice secret"); got != "OK" {
		t.Fatalf("auth = %q", got)
	}

	for _, line := range []string{"insert 2 user2 b@example.com", "insert 1 user1 a@example.com"} {
		if got := c.send(line); got != "Executed." {
			t.Fatalf("%s = %q", line, got)
		}
	}
	if got := c.send("insert 1 user1 a@example.com"); got != "Error: Duplicate key." {
		t.Fatalf("duplicate = %q", got)
	}
	if got := c.send("insert -3 x y"); got != "ERR: ID must be positive." {
		t.Fatalf("negative id = %q", got)
	}

	want := "(1, user1, a@example.com)\n(2, user2, b@example.com)\nExecuted."
	if got := c.send("select"); got != want {
		t.Fatalf("select = %q, want %q", got, want)
	}

	want = "Tree:\nleaf (size 2)\n  - 0 : 1\n  - 1 : 2"
	if got := c.send(".btree"); got != want {
		t.Fatalf(".btree = %q, want %q", got, want)
	}
	if got := c.send(".foo"); got != "ERR: Unrecognized command '.foo'" {
		t.Fatalf(".foo = %q", got)
	}
	if got := c.send("CREATEUSER carol pw user"); got != "ERR: Permission denied" {
		t.Fatalf("createuser as user = %q", got)
	}

	if _, err := c.conn.Write([]byte("EXIT\n")); err != nil {
		t.Fatal(err)
	}
	if line, _ := c.r.ReadString('\n'); line != "BYE\n" {
		t.Fatalf("exit = %q", line)
	}

	if err := stop(); err != nil {
		t.Fatalf("Serve: %v", err)
	}
}

func TestGuestIsReadOnly(t *testing.T) {
	addr, stop := startServer(t)
	defer stop()

	c := dial(t, addr)
	if got := c.send("AUTH bob secret"); got != "OK" {
		t.Fatalf("auth = %q", got)
	}
	if got := c.send("insert 1 a b"); got != "ERR: Permission denied" {
		t.Fatalf("guest insert = %q", got)
	}
	if got := c.send("select"); got != "Executed." {
		t.Fatalf("guest select = %q", got)
	}
	if got := c.send(".constants"); !strings.HasPrefix(got, "Constants:\nROW_SIZE: 291") {
		t.Fatalf(".constants = %q", got)
	}
}

func TestSuperuserManagesUsers(t *testing.T) {
	addr, stop := startServer(t)
	defer stop()

	root := dial(t, addr)
	if got := root.send("AUTH root secret"); got != "OK" {
		t.Fatalf("auth = %q", got)
	}
	if got := root.send("CREATEUSER carol pw user"); got != "OK" {
		t.Fatalf("createuser = %q", got)
	}
	if got := root.send("CREATEUSER carol pw user"); got != "ERR: User already exists" {
		t.Fatalf("createuser twice = %q", got)
	}
	if got := root.send("CREATEUSER dave pw admin"); got != "ERR: Invalid Role" {
		t.Fatalf("bad role = %q", got)
	}

	carol := dial(t, addr)
	if got := carol.send("AUTH carol pw"); got != "OK" {
		t.Fatalf("carol auth = %q", got)
	}
	if got := carol.send("insert 7 carol c@example.com"); got != "Executed." {
		t.Fatalf("carol insert = %q", got)
	}

	if got := root.send("DELUSER carol"); got != "OK" {
		t.Fatalf("deluser = %q", got)
	}
	if got := root.send("DELUSER carol"); !strings.HasPrefix(got, "ERR: ") {
		t.Fatalf("deluser twice = %q", got)
	}
	if got := root.send("AUTH carol pw"); got != "ERR: invalid credentials" {
		t.Fatalf("auth deleted user = %q", got)
	}
}

func TestFatalErrorStopsServer(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")

	// One page whose node type byte says internal node
	if err := os.WriteFile(dbPath, make([]byte, storage.PageSize), 0600); err != nil {
		t.Fatal(err)
	}

	addr, stop, db := startServerOn(t, dbPath)

	c := dial(t, addr)
	if got := c.send("AUTH alice secret"); got != "OK" {
		t.Fatalf("auth = %q", got)
	}

	if _, err := c.conn.Write([]byte("select\n")); err != nil {
		t.Fatal(err)
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if !strings.HasPrefix(line, "ERR: ") || !strings.Contains(line, storage.ErrCorruptFile.Error()) {
		t.Fatalf("reply = %q", line)
	}

	if err := stop(); !errors.Is(err, storage.ErrCorruptFile) {
		t.Fatalf("Serve = %v, want %v", err, storage.ErrCorruptFile)
	}

	// Closing the table after a fatal error still writes the page back
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != storage.PageSize {
		t.Fatalf("file size = %d", info.Size())
	}
}

func TestTrackAfterShutdownClosesConn(t *testing.T) {
	srv := &Server{conns: make(map[net.Conn]struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server, client := net.Pipe()
	defer client.Close()

	if srv.track(ctx, server) {
		t.Fatal("track accepted a connection after shutdown")
	}
	if len(srv.conns) != 0 {
		t.Fatalf("tracked %d connections", len(srv.conns))
	}

	// The far end sees the close
	if _, err := client.Read(make([]byte, 1)); err == nil {
		t.Fatal("connection still open")
	}
}
