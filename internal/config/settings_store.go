package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML file of defaults. The raw secret is never
// stored here; point at a file or keyring entry instead.
type Settings struct {
	Hub           string `yaml:"hub"`
	SecretFile    string `yaml:"secret_file,omitempty"`
	SecretKeyring string `yaml:"secret_keyring,omitempty"`
	LogDir        string `yaml:"log_dir,omitempty"`
	Debug         bool   `yaml:"debug,omitempty"`
}

func SettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "mercure-client", "settings.yaml"), nil
}

// LoadSettings reads path, or SettingsPath when path is empty. A missing
// default file yields empty settings; a missing explicit file is an error.
func LoadSettings(path string) (Settings, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		var err error
		if path, err = SettingsPath(); err != nil {
			return Settings{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return settings, nil
}

func SaveSettings(path string, settings Settings) error {
	if strings.TrimSpace(path) == "" {
		var err error
		if path, err = SettingsPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// UpdateSettings applies fn to the settings at path and writes them back. A
// missing file, explicit or default, starts from empty settings.
func UpdateSettings(path string, fn func(*Settings)) error {
	settings, err := LoadSettings(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	fn(&settings)
	if err := SaveSettings(path, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func MergeOptionsWithSettings(cli Options, saved Settings) Options {
	if strings.TrimSpace(cli.Hub) == "" {
		cli.Hub = saved.Hub
	}
	// Any secret source given on the command line wins over every saved one.
	if cli.Secret == "" && strings.TrimSpace(cli.SecretFile) == "" && strings.TrimSpace(cli.SecretKeyring) == "" {
		cli.SecretFile = saved.SecretFile
		cli.SecretKeyring = saved.SecretKeyring
	}
	if strings.TrimSpace(cli.LogDir) == "" {
		cli.LogDir = saved.LogDir
	}
	if !cli.Debug {
		cli.Debug = saved.Debug
	}
	return cli
}
