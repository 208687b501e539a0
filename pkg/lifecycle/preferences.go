package lifecycle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preferences persists client-local UI state.
type Preferences interface {
	Section() (string, error)
	SetSection(section string) error
}

// MemoryPreferences forgets everything on exit.
type MemoryPreferences struct {
	mu      sync.Mutex
	section string
}

func (p *MemoryPreferences) Section() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.section, nil
}

func (p *MemoryPreferences) SetSection(section string) error {
	p.mu.Lock()
	p.section = section
	p.mu.Unlock()
	return nil
}

type preferencesFile struct {
	Section string `yaml:"section"`
}

// FilePreferences keeps preferences in a small YAML file.
type FilePreferences struct {
	Path string
	mu   sync.Mutex
}

func NewFilePreferences(path string) *FilePreferences {
	return &FilePreferences{Path: path}
}

// DefaultPreferencesPath is assetctl.yaml under the user config directory.
func DefaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "assetctl.yaml"
	}
	return filepath.Join(dir, "asset_tracker", "assetctl.yaml")
}

// Section returns "" when the file does not exist yet.
func (p *FilePreferences) Section() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs, err := p.read()
	if err != nil {
		return "", err
	}
	return prefs.Section, nil
}

func (p *FilePreferences) SetSection(section string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs, err := p.read()
	if err != nil {
		return err
	}
	prefs.Section = section
	return p.write(prefs)
}

func (p *FilePreferences) read() (*preferencesFile, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &preferencesFile{}, nil
	}
	if err != nil {
		return nil, err
	}
	var prefs preferencesFile
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.Path, err)
	}
	return &prefs, nil
}

func (p *FilePreferences) write(prefs *preferencesFile) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.Path, data, 0o644)
}
