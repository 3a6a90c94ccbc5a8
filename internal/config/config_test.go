package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.UinputPath != "/dev/uinput" {
		t.Fatalf("default uinput path = %q", cfg.UinputPath)
	}
	if cfg.DeviceName != "VNC-RemoteInput" {
		t.Fatalf("default device name = %q", cfg.DeviceName)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		t.Fatalf("default dimensions = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("missing file = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vncinput.toml")
	contents := "device_name = \"test-input\"\nwidth = 1920\nheight = 1080\nsocket = \"/tmp/test.sock\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DeviceName != "test-input" {
		t.Fatalf("device name = %q", cfg.DeviceName)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Fatalf("dimensions = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SocketPath != "/tmp/test.sock" {
		t.Fatalf("socket = %q", cfg.SocketPath)
	}
	// Unset keys keep their defaults.
	if cfg.UinputPath != "/dev/uinput" {
		t.Fatalf("uinput path = %q", cfg.UinputPath)
	}
}

func TestLoadRejectsZeroDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vncinput.toml")
	if err := os.WriteFile(path, []byte("width = 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted zero width")
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load accepted a directory")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vncinput.toml")
	if err := os.WriteFile(path, []byte("width = \"oops"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}

func TestWatchReportsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vncinput.toml")
	if err := os.WriteFile(path, []byte("width = 800\nheight = 600\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	initial, err := Load(path)
	if err != nil {
		t.Fatalf("load initial config: %v", err)
	}

	changed := make(chan Config, 1)
	w, err := Watch(path, initial, func(cfg Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("width = 1024\nheight = 768\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-changed:
		if cfg.Width != 1024 || cfg.Height != 768 {
			t.Fatalf("changed config = %dx%d", cfg.Width, cfg.Height)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reported the change")
	}
}
