package csutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/df-mc/jsonc"
	"github.com/dustin/go-humanize"
)

// Config is a versioned plugin configuration. Embed BaseConfig to get the
// version field and accessors.
type Config interface {
	ConfigVersion() int
	SetConfigVersion(version int)
}

// Defaulter is implemented by configs that fill in their own defaults.
// The version SetDefaults writes is the newest config version.
type Defaulter interface {
	SetDefaults()
}

// BaseConfig stores the config version
type BaseConfig struct {
	Version int `json:"ConfigVersion"`
}

// ConfigVersion returns the stored version
func (b *BaseConfig) ConfigVersion() int { return b.Version }

// SetConfigVersion sets the stored version
func (b *BaseConfig) SetConfigVersion(version int) { b.Version = version }

// configPtr is satisfied by *C when *C implements Config
type configPtr[C any] interface {
	*C
	Config
}

// defaultConfig builds a fresh config with defaults applied
func defaultConfig[C any, P configPtr[C]]() P {
	var c C
	p := P(&c)
	if d, ok := any(p).(Defaulter); ok {
		d.SetDefaults()
	}
	return p
}

// ConfigPath returns {ServerRoot}/configs/plugins/{name}/{name}.json.
// It reports false when the server root or plugin name is unknown.
func ConfigPath(ctx *Context) (string, bool) {
	if ctx == nil || ctx.name == "" || ctx.settings.ServerRoot == "" {
		return "", false
	}
	return filepath.Join(ctx.settings.ServerRoot, "configs", "plugins", ctx.name, ctx.name+".json"), true
}

// BackupPath returns the path of backup n of the config at path
func BackupPath(path string, n int) string {
	return fmt.Sprintf("%s-%d.bak", path, n)
}

// NextBackupPath returns the first unused backup path, numbered from 0
func NextBackupPath(path string) (string, error) {
	for n := 0; ; n++ {
		candidate := BackupPath(path, n)
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat backup: %w", err)
		}
	}
}

// UpdateOption configures UpdateConfig
type UpdateOption func(*updateOptions)

type updateOptions struct {
	backup       bool
	checkVersion bool
}

// SkipBackup writes without copying the existing file first
func SkipBackup() UpdateOption {
	return func(o *updateOptions) { o.backup = false }
}

// SkipVersionCheck writes even when the config is already at the newest version
func SkipVersionCheck() UpdateOption {
	return func(o *updateOptions) { o.checkVersion = false }
}

// UpdateConfig upgrades cfg to the newest version and writes it to the
// plugin's config file, backing up the existing file first.
// It returns false without touching disk when the path is unknown or cfg
// is already at the newest version.
func UpdateConfig[C any, P configPtr[C]](ctx *Context, cfg P, opts ...UpdateOption) (bool, error) {
	o := updateOptions{backup: true, checkVersion: true}
	for _, opt := range opts {
		opt(&o)
	}

	path, ok := ConfigPath(ctx)
	if !ok || cfg == nil {
		return false, nil
	}

	newest := defaultConfig[C, P]().ConfigVersion()
	if o.checkVersion && cfg.ConfigVersion() == newest {
		return false, nil
	}

	if o.backup {
		if err := backupConfig(ctx, path); err != nil {
			return false, err
		}
	}

	cfg.SetConfigVersion(newest)
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}

	ctx.log.WithField("path", path).Debug("Config updated to version %d", newest)
	return true, nil
}

// backupConfig copies the file at path to the next backup slot if it exists
func backupConfig(ctx *Context, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config for backup: %w", err)
	}

	backup, err := NextBackupPath(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	ctx.log.WithField("backup", backup).Debug("Config backed up (%s)", humanize.Bytes(uint64(len(data))))
	return nil
}

// ReloadConfig reads the plugin's config file. Comments in the file are
// allowed. When the path is unknown it returns the default config.
func ReloadConfig[C any, P configPtr[C]](ctx *Context) (P, error) {
	path, ok := ConfigPath(ctx)
	if !ok {
		return defaultConfig[C, P](), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Fields missing from the file keep their defaults
	cfg := defaultConfig[C, P]()
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
