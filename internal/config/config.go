// Package config loads the per-repository rooms configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

// DefaultRoomsDir places rooms next to the primary worktree.
const DefaultRoomsDir = ".."

// FileNames lists the configuration files looked up in the primary worktree,
// in priority order. The first one present wins.
var FileNames = []string{".roomsrc.json", ".roomsrc.yaml", ".roomsrc.yml", ".roomsrc.toml"}

// Hooks holds the commands typed into a room's shell at lifecycle points.
type Hooks struct {
	PostCreate HookList `json:"post_create" yaml:"post_create" toml:"post_create"`
	PostEnter  HookList `json:"post_enter" yaml:"post_enter" toml:"post_enter"`
}

// Config holds the rooms configuration for one repository.
type Config struct {
	BaseBranch string `json:"base_branch" yaml:"base_branch" toml:"base_branch"` // empty means current HEAD
	RoomsDir   string `json:"rooms_dir" yaml:"rooms_dir" toml:"rooms_dir"`
	Hooks      Hooks  `json:"hooks" yaml:"hooks" toml:"hooks"`
	Theme      string `json:"theme" yaml:"theme" toml:"theme"`    // UI theme name (e.g., "dark-purple", "nord")
	Notify     bool   `json:"notify" yaml:"notify" toml:"notify"` // desktop notification when an operation finishes

	path string
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{RoomsDir: DefaultRoomsDir}
}

// Load reads the first configuration file found in primary. A missing file
// yields the defaults; a malformed one is a KindConfig error.
func Load(primary string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(primary, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, rerrors.ConfigInvalid(path, err)
		}
		return Parse(path, data)
	}
	return Default(), nil
}

// Parse decodes data according to the extension of path.
func Parse(path string, data []byte) (*Config, error) {
	cfg := Default()
	cfg.path = path

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, rerrors.ConfigInvalid(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, rerrors.ConfigInvalid(path, err)
	}
	return cfg, nil
}

// Validate normalizes the configuration and rejects values rooms cannot use.
func (c *Config) Validate() error {
	c.RoomsDir = strings.TrimSpace(c.RoomsDir)
	if c.RoomsDir == "" {
		c.RoomsDir = DefaultRoomsDir
	}
	c.BaseBranch = strings.TrimSpace(c.BaseBranch)
	if strings.ContainsAny(c.BaseBranch, " \t\n") {
		return fmt.Errorf("base_branch %q contains whitespace", c.BaseBranch)
	}
	c.Hooks.PostCreate = c.Hooks.PostCreate.compact()
	c.Hooks.PostEnter = c.Hooks.PostEnter.compact()
	return nil
}

// Path returns the file the configuration was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// RoomsPath resolves RoomsDir against the primary worktree.
// ".." is the parent of primary; absolute paths are used as is.
func (c *Config) RoomsPath(primary string) string {
	dir := c.RoomsDir
	if dir == "" {
		dir = DefaultRoomsDir
	}
	if dir == DefaultRoomsDir {
		parent := filepath.Dir(primary)
		if parent == primary {
			// Primary at the filesystem root has no parent.
			return primary
		}
		return parent
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(primary, dir)
}
