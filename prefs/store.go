package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/rhythm"
	"gopkg.in/yaml.v3"
)

// Store holds the single tone preference. It is read at the UI boundary and the
// tone passed explicitly into the scheduler.
type Store interface {
	Tone() (rhythm.Tone, error)
	SetTone(tone rhythm.Tone) error
}

// MemoryStore keeps the preference for the life of the process.
type MemoryStore struct {
	mu   sync.Mutex
	tone rhythm.Tone
}

func NewMemoryStore(tone rhythm.Tone) *MemoryStore {
	return &MemoryStore{tone: tone}
}

func (m *MemoryStore) Tone() (rhythm.Tone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tone, nil
}

func (m *MemoryStore) SetTone(tone rhythm.Tone) error {
	if !tone.Valid() {
		return rhythm.ErrUnknownTone
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tone = tone
	return nil
}

type preferences struct {
	Tone rhythm.Tone `yaml:"tone"`
}

// FileStore persists the preference as YAML. A missing file yields the fallback
// tone; the file is created on the first write.
type FileStore struct {
	mu       sync.Mutex
	path     string
	fallback rhythm.Tone
}

func NewFileStore(path string, fallback rhythm.Tone) *FileStore {
	return &FileStore{path: path, fallback: fallback}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Tone() (rhythm.Tone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return f.fallback, nil
	}
	if err != nil {
		return f.fallback, goerrors.WithStackTrace(err)
	}

	p := preferences{Tone: f.fallback}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return f.fallback, goerrors.WithStackTrace(err)
	}
	return p.Tone, nil
}

func (f *FileStore) SetTone(tone rhythm.Tone) error {
	if !tone.Valid() {
		return rhythm.ErrUnknownTone
	}

	data, err := yaml.Marshal(preferences{Tone: tone})
	if err != nil {
		return goerrors.WithStackTrace(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return goerrors.WithStackTrace(err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}
