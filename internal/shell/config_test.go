package shell

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.hujson")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	return path
}

func Test_LoadConfig_Returns_Defaults_Without_Config_Files(t *testing.T) {
	t.Parallel()

	// Point XDG at an empty dir so a real user config cannot leak in.
	cfg, err := LoadConfig("", []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_LoadConfig_Parses_HuJSON_With_Comments(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		// Shell appearance
		"prompt": "sql> ",
		"history_size": 50,
		"safe_integers": true, // trailing comma is fine
	}`)

	cfg, err := LoadConfig(path, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := Config{Prompt: "sql> ", HistorySize: 50, SafeIntegers: true}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_LoadConfig_Merges_Partial_Config_Over_Defaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"prompt": "> "}`)

	cfg, err := LoadConfig(path, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Prompt != "> " {
		t.Errorf("expected overridden prompt, got %q", cfg.Prompt)
	}

	if cfg.HistorySize != DefaultConfig().HistorySize {
		t.Errorf("expected default history size, got %d", cfg.HistorySize)
	}
}

func Test_LoadConfig_Reads_Global_Config_From_XDG_Dir(t *testing.T) {
	t.Parallel()

	xdgDir := t.TempDir()
	cfgDir := filepath.Join(xdgDir, "litedb")

	if err := os.MkdirAll(cfgDir, 0o750); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	content := []byte(`{"history_size": 7}`)
	if err := os.WriteFile(filepath.Join(cfgDir, "config.hujson"), content, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig("", []string{"XDG_CONFIG_HOME=" + xdgDir})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HistorySize != 7 {
		t.Errorf("expected history size 7, got %d", cfg.HistorySize)
	}
}

func Test_LoadConfig_Fails_When_Explicit_File_Is_Missing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.hujson")

	_, err := LoadConfig(missing, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if !errors.Is(err, errConfigFileNotFound) {
		t.Errorf("expected errConfigFileNotFound, got %v", err)
	}
}

func Test_LoadConfig_Fails_When_Config_Is_Malformed(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"prompt": `)

	_, err := LoadConfig(path, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if !errors.Is(err, errConfigInvalid) {
		t.Errorf("expected errConfigInvalid, got %v", err)
	}
}

func Test_LoadConfig_Fails_When_History_Size_Is_Negative(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"history_size": -1}`)

	_, err := LoadConfig(path, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if !errors.Is(err, errHistorySizeBad) {
		t.Errorf("expected errHistorySizeBad, got %v", err)
	}
}
