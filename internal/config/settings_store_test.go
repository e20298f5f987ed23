package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSettingsSaveLoadAndPath(t *testing.T) {
	root := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("AppData", root)
	} else {
		t.Setenv("XDG_CONFIG_HOME", root)
	}

	path, err := SettingsPath()
	if err != nil {
		t.Fatalf("SettingsPath() error = %v", err)
	}
	wantPath := filepath.Join(root, "mercure-client", "settings.yaml")
	if path != wantPath {
		t.Fatalf("SettingsPath() = %q, want %q", path, wantPath)
	}

	in := Settings{
		Hub:           "https://example.com/.well-known/mercure",
		SecretKeyring: "jwt-secret",
		LogDir:        "/tmp/mercure-logs",
		Debug:         true,
	}
	if err := SaveSettings("", in); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	out, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettings_MissingFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	settings, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings(default) error = %v", err)
	}
	if settings != (Settings{}) {
		t.Fatalf("LoadSettings(default) = %+v, want zero", settings)
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing explicit settings file to fail")
	}
}

func TestLoadSettings_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mercure.yaml")
	content := "hub: https://hub.example.com/.well-known/mercure\nsecret_file: /run/secrets/mercure\ndebug: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	want := Settings{Hub: "https://hub.example.com/.well-known/mercure", SecretFile: "/run/secrets/mercure", Debug: true}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(path, []byte("hub: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatalf("expected malformed YAML to fail")
	}
}

func TestMergeOptionsWithSettings_PrefersCLI(t *testing.T) {
	merged := MergeOptionsWithSettings(
		Options{
			Hub:    "https://cli.example.com/.well-known/mercure",
			LogDir: "",
			Debug:  false,
		},
		Settings{
			Hub:        "https://saved.example.com/.well-known/mercure",
			SecretFile: "/run/secrets/mercure",
			LogDir:     "/tmp/saved-dir",
			Debug:      true,
		},
	)

	if merged.Hub != "https://cli.example.com/.well-known/mercure" {
		t.Fatalf("Hub = %q", merged.Hub)
	}
	if merged.SecretFile != "/run/secrets/mercure" {
		t.Fatalf("SecretFile = %q", merged.SecretFile)
	}
	if merged.LogDir != "/tmp/saved-dir" || !merged.Debug {
		t.Fatalf("saved values not merged: %#v", merged)
	}
}

func TestMergeOptionsWithSettings_CLISecretWins(t *testing.T) {
	merged := MergeOptionsWithSettings(
		Options{Secret: "inline"},
		Settings{SecretFile: "/run/secrets/mercure", SecretKeyring: "jwt-secret"},
	)
	if merged.SecretFile != "" || merged.SecretKeyring != "" {
		t.Fatalf("saved secret source should be ignored: %#v", merged)
	}
}

func TestUpdateSettings_CreatesAndKeepsOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	if err := UpdateSettings(path, func(s *Settings) { s.Hub = "https://example.com/.well-known/mercure" }); err != nil {
		t.Fatalf("UpdateSettings(create) error = %v", err)
	}
	if err := UpdateSettings(path, func(s *Settings) { s.SecretKeyring = "jwt-secret" }); err != nil {
		t.Fatalf("UpdateSettings(update) error = %v", err)
	}

	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	want := Settings{Hub: "https://example.com/.well-known/mercure", SecretKeyring: "jwt-secret"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateSettings_RejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("hub: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := UpdateSettings(path, func(s *Settings) { s.SecretKeyring = "jwt-secret" }); err == nil {
		t.Fatalf("expected malformed settings to fail")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hub: [unterminated\n" {
		t.Fatalf("malformed settings were overwritten: %q, %v", data, err)
	}
}
