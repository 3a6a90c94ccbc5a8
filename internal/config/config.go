// Package config loads the daemon's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigError reports a rejected configuration file.
type ConfigError struct {
	msg string
}

func (e ConfigError) Error() string { return e.msg }

// Config describes one virtual device instance and its control socket.
type Config struct {
	UinputPath string `toml:"uinput_path"`
	DeviceName string `toml:"device_name"`
	Width      uint32 `toml:"width"`
	Height     uint32 `toml:"height"`
	SocketPath string `toml:"socket"`
}

const (
	defaultUinputPath = "/dev/uinput"
	defaultDeviceName = "VNC-RemoteInput"
	defaultWidth      = 1280
	defaultHeight     = 720
)

// DefaultSocketPath resolves the control socket location, preferring the
// user runtime directory.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "vncinput.sock")
	}
	return "/run/vncinput.sock"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UinputPath: defaultUinputPath,
		DeviceName: defaultDeviceName,
		Width:      defaultWidth,
		Height:     defaultHeight,
		SocketPath: DefaultSocketPath(),
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error; an empty path skips loading entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, ConfigError{msg: fmt.Sprintf("config: %v", err)}
	}
	if info.IsDir() {
		return cfg, ConfigError{msg: fmt.Sprintf("config: %s is a directory", path)}
	}

	if _, err := toml.DecodeFile(filepath.Clean(path), &cfg); err != nil {
		return cfg, ConfigError{msg: fmt.Sprintf("config: %v", err)}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Width == 0 || c.Height == 0 {
		return ConfigError{msg: fmt.Sprintf("config: invalid dimensions %dx%d", c.Width, c.Height)}
	}
	if c.UinputPath == "" {
		return ConfigError{msg: "config: uinput_path must not be empty"}
	}
	if c.DeviceName == "" {
		return ConfigError{msg: "config: device_name must not be empty"}
	}
	return nil
}
