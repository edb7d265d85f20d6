// Package preset stores named parameter bundles in a yaml file and
// serves lookups to the query pipeline. The file is the source of
// truth: external edits are picked up by a watcher, mutations are
// written back immediately.
package preset

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"

	"github.com/nmori/voicevox-engine/internal/model"
)

// Manager is a yaml-file-backed preset store.
type Manager struct {
	path string
	log  *slog.Logger

	mu      sync.RWMutex
	presets []model.Preset
}

// NewManager loads the preset file at path. A missing file is an
// empty store, not an error; the file appears on first Add.
func NewManager(path string, log *slog.Logger) (*Manager, error) {
	m := &Manager{
		path: path,
		log:  log.With(slog.String("component", "preset-manager")),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Watch reloads the store when the preset file changes on disk.
// Blocks until the watcher fails; run it on its own goroutine.
func (m *Manager) Watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.log.Error("failed to create preset watcher", slog.String("error", err.Error()))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(m.path); err != nil {
		m.log.Error("failed to watch preset file",
			slog.String("path", m.path), slog.String("error", err.Error()))
		return
	}

	var timer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					if err := m.load(); err != nil {
						m.log.Error("failed to reload presets", slog.String("error", err.Error()))
						return
					}
					m.log.Info("presets reloaded", slog.String("path", m.path))
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.log.Error("preset watcher error", slog.String("error", err.Error()))
		}
	}
}

// List returns all presets in file order.
func (m *Manager) List() []model.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Preset, len(m.presets))
	copy(out, m.presets)
	return out
}

// Get returns the preset with the given id.
func (m *Manager) Get(id int) (model.Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.presets {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Preset{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Add stores a new preset. A colliding id is renumbered to the next
// free one; the assigned id is returned.
func (m *Manager) Add(p model.Preset) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	taken := make(map[int]bool, len(m.presets))
	maxID := 0
	for _, existing := range m.presets {
		taken[existing.ID] = true
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	if taken[p.ID] {
		p.ID = maxID + 1
	}

	m.presets = append(m.presets, p)
	if err := m.save(); err != nil {
		m.presets = m.presets[:len(m.presets)-1]
		return 0, err
	}
	return p.ID, nil
}

// Update replaces the preset with the same id.
func (m *Manager) Update(p model.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.presets {
		if existing.ID == p.ID {
			m.presets[i] = p
			if err := m.save(); err != nil {
				m.presets[i] = existing
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, p.ID)
}

// Delete removes the preset with the given id.
func (m *Manager) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.presets {
		if existing.ID == id {
			m.presets = append(m.presets[:i:i], m.presets[i+1:]...)
			if err := m.save(); err != nil {
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// load replaces the in-memory set from the yaml file.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.mu.Lock()
			m.presets = nil
			m.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read presets: %w", err)
	}

	var presets []model.Preset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return fmt.Errorf("parse presets: %w", err)
	}

	seen := make(map[int]bool, len(presets))
	for _, p := range presets {
		if seen[p.ID] {
			return fmt.Errorf("%w: id %d appears twice in %s", ErrDuplicateID, p.ID, m.path)
		}
		seen[p.ID] = true
	}

	sort.SliceStable(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })

	m.mu.Lock()
	m.presets = presets
	m.mu.Unlock()
	return nil
}

// save writes the in-memory set back to the yaml file. Caller holds
// the write lock.
func (m *Manager) save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}
	return nil
}
