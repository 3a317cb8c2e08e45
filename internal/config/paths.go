package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Allow user to set app home through env variable
// otherwise default to ~/.local/share/leafdb
func resolveHome(homeOverride string) (string, error) {
	home := homeOverride
	if home == "" {
		home = os.Getenv("LEAFDB_HOME")
	}

	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = filepath.Join(userHome, ".local", "share", "leafdb")
	}

	if err := os.MkdirAll(home, 0o755); err != nil {
		return "", err
	}
	return home, nil
}

// DatabasePath resolves name against the data dir. Paths that already
// point somewhere (absolute, or containing a separator) are used as given.
func (cfg *Config) DatabasePath(name string) string {
	if name == "" {
		name = cfg.Database
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(cfg.DataDir, name)
}

// LogPath is the file a database logs to when running the REPL
func (cfg *Config) LogPath(dbPath string) string {
	base := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))
	return filepath.Join(cfg.LogDir, base+".log")
}
