package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

type Config struct {
	Addr     string `yaml:"addr"`
	Home     string `yaml:"home"`
	DataDir  string `yaml:"data_dir"`
	LogDir   string `yaml:"log_dir"`
	UserFile string `yaml:"user_file"`
	Database string `yaml:"database"`
	MaxPages uint32 `yaml:"max_pages"`
	LogLevel string `yaml:"log_level"`

	EnableTLS bool   `yaml:"enable_tls"`
	TLSCert   string `yaml:"tls_cert"`
	TLSKey    string `yaml:"tls_key"`
}

const (
	DefaultAddr     = "127.0.0.1:57084"
	DefaultDatabase = "leafdb.db"
	DefaultMaxPages = 100
)

func LoadConfig(homeOverride, configOverride string) (*Config, error) {
	home, err := resolveHome(homeOverride)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:     DefaultAddr,
		Home:     home,
		DataDir:  filepath.Join(home, "data"),
		LogDir:   filepath.Join(home, "log"),
		UserFile: filepath.Join(home, "users.json"),
		Database: DefaultDatabase,
		MaxPages: DefaultMaxPages,
		LogLevel: "info",
	}

	cfgPath := configOverride
	if cfgPath == "" {
		cfgPath = filepath.Join(home, "config.yaml")
	}

	f, err := os.Open(cfgPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", cfgPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && configOverride == "":
		// No config file is fine, defaults apply
	default:
		return nil, err
	}

	if cfg.EnableTLS && (cfg.TLSCert == "" || cfg.TLSKey == "") {
		return nil, errors.New("enable_tls requires tls_cert and tls_key")
	}

	if cfg.MaxPages == 0 {
		cfg.MaxPages = DefaultMaxPages
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}
