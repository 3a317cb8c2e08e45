package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore keeps the user catalog in a JSON file
type FileStore struct {
	path  string
	mu    sync.RWMutex
	users map[string]*User
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:  path,
		users: make(map[string]*User),
	}

	if err := fs.load(); err != nil {
		return nil, err
	}

	return fs, nil
}

// Load the user catalog from fs.path
func (fs *FileStore) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		// First run, the file is written on the first save
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var list []*User
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return fmt.Errorf("decode %s: %w", fs.path, err)
	}

	for _, u := range list {
		fs.users[u.Username] = u
	}
	return nil
}

// write from memory to user catalog, callers hold fs.mu
func (fs *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return err
	}

	tmp := fs.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fs.sortedUsers()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path)
}

func (fs *FileStore) sortedUsers() []*User {
	list := make([]*User, 0, len(fs.users))
	for _, u := range fs.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Username < list[j].Username
	})
	return list
}

func (fs *FileStore) GetUser(username string) (*User, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	u, ok := fs.users[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", username, ErrUserNotFound)
	}

	// Copy so callers aren't holding a reference into the map
	user := *u
	return &user, nil
}

func (fs *FileStore) SaveUser(u *User) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	saved := *u
	fs.users[u.Username] = &saved
	return fs.persist()
}

func (fs *FileStore) DeleteUser(username string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.users[username]; !ok {
		return fmt.Errorf("%s: %w", username, ErrUserNotFound)
	}

	delete(fs.users, username)
	return fs.persist()
}

func (fs *FileStore) ListUsers() ([]*User, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	list := fs.sortedUsers()
	out := make([]*User, len(list))
	for i, u := range list {
		c := *u
		out[i] = &c
	}
	return out, nil
}
