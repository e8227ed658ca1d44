package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	for _, env := range []string{EnvConfigPath, EnvPort, EnvLogLevel, EnvDataDir, EnvHeadless, EnvTickMs} {
		os.Unsetenv(env)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("default Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("default LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.Headless() {
		t.Errorf("default Headless = true, want false")
	}
	if cfg.TickInterval() != time.Duration(DefaultTickMs)*time.Millisecond {
		t.Errorf("default TickInterval = %v", cfg.TickInterval())
	}
}

func TestNew_PortFromEnv(t *testing.T) {
	os.Setenv(EnvPort, "9000")
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port())
	}
}

func TestNew_InvalidPort(t *testing.T) {
	os.Setenv(EnvPort, "99999")
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestNew_Headless(t *testing.T) {
	os.Setenv(EnvHeadless, "1")
	defer os.Unsetenv(EnvHeadless)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Headless() {
		t.Error("Headless = false, want true")
	}
}

func TestNew_DBPathUnderDataDir(t *testing.T) {
	os.Setenv(EnvDataDir, "/tmp/cutform-test")
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join("/tmp/cutform-test", DBFilename)
	if cfg.DBPath() != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath(), want)
	}
}

func TestNew_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: 9100\nlog_level: debug\ntick_ms: 16\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	os.Setenv(EnvConfigPath, path)
	defer os.Unsetenv(EnvConfigPath)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
	if cfg.TickInterval() != 16*time.Millisecond {
		t.Errorf("TickInterval = %v, want 16ms", cfg.TickInterval())
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9100\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	os.Setenv(EnvConfigPath, path)
	os.Setenv(EnvPort, "9200")
	defer os.Unsetenv(EnvConfigPath)
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9200 {
		t.Errorf("Port = %d, want 9200 (env should win over file)", cfg.Port())
	}
}
