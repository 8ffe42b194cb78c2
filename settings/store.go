package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/match"
)

// FileStore keeps settings in a JSON or YAML file.
type FileStore struct {
	path   string
	format Format
	log    *zap.Logger

	mu       sync.RWMutex
	data     Settings
	modified bool
}

// DefaultPath returns <user config dir>/textexpand/settings.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, "textexpand", "settings.json"), nil
}

// NewFileStore opens the settings at path, or DefaultPath when path is
// empty. A missing file yields the defaults. A malformed file is logged and
// also yields the defaults, so a bad edit never stops expansion.
func NewFileStore(path string, log *zap.Logger) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &FileStore{
		path:   path,
		format: FormatForPath(path),
		log:    log,
		data:   Defaults(),
	}
	if err := s.Load(); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		log.Warn("using default settings", zap.String("path", path), zap.Error(err))
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Format() Format { return s.format }

// IsModified reports whether there are changes not yet saved.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Load rereads the file. A missing file resets to the defaults. On a parse
// error the current settings are kept and the error is returned.
func (s *FileStore) Load() error {
	next, err := s.read()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = next
	s.modified = false
	s.mu.Unlock()
	return nil
}

func (s *FileStore) read() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	next, err := decode(bytes.NewReader(data), s.format, false)
	if err != nil {
		return Settings{}, fmt.Errorf("load %s: %w", s.path, err)
	}
	if err := next.Validate(); err != nil {
		return Settings{}, fmt.Errorf("load %s: %w", s.path, err)
	}
	return next, nil
}

// Save writes the settings atomically through a temp file and rename.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	if err := Encode(file, s.data, s.format); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("close temp settings file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename temp settings file: %w", err)
	}

	s.modified = false
	s.log.Debug("settings saved", zap.String("path", s.path), zap.Int("shortcuts", len(s.data.Shortcuts)))
	return nil
}

// Settings returns a copy of the current settings.
func (s *FileStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// TriggerMap returns a snapshot of the shortcuts. It never returns nil.
func (s *FileStore) TriggerMap() match.TriggerMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Shortcuts == nil {
		return match.TriggerMap{}
	}
	return maps.Clone(s.data.Shortcuts)
}

func (s *FileStore) Delay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Delay()
}

// Triggers returns the shortcut keys in sorted order.
func (s *FileStore) Triggers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data.Shortcuts))
	for k := range s.data.Shortcuts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add sets trigger to expansion, replacing any existing entry. Both are
// trimmed and must be non-empty afterwards.
func (s *FileStore) Add(trigger, expansion string) error {
	trigger, expansion, err := normalizeEntry(trigger, expansion)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Shortcuts == nil {
		s.data.Shortcuts = match.TriggerMap{}
	}
	s.data.Shortcuts[trigger] = expansion
	s.modified = true
	return nil
}

// Remove deletes trigger.
func (s *FileStore) Remove(trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Shortcuts[trigger]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTrigger, trigger)
	}
	delete(s.data.Shortcuts, trigger)
	s.modified = true
	return nil
}

// SetDelay sets the debounce delay in milliseconds.
func (s *FileStore) SetDelay(ms int64) error {
	if ms < 0 || ms > MaxDelayMS {
		return fmt.Errorf("%w: %d", ErrInvalidDelay, ms)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.DelayMS = ms
	s.modified = true
	return nil
}

// Import replaces all settings with a validated document read from r.
func (s *FileStore) Import(r io.Reader, f Format) (Settings, error) {
	next, err := Decode(r, f)
	if err != nil {
		return Settings{}, fmt.Errorf("import: %w", err)
	}
	if err := next.Validate(); err != nil {
		return Settings{}, fmt.Errorf("import: %w", err)
	}
	s.mu.Lock()
	s.data = next.Clone()
	s.modified = true
	s.mu.Unlock()
	return next, nil
}

// Export writes the current settings to w.
func (s *FileStore) Export(w io.Writer, f Format) error {
	return Encode(w, s.Settings(), f)
}
