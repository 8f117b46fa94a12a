// Package storage persists the board between sessions.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"KufiCraft/internal/logger"
	"KufiCraft/internal/state"
)

// ErrNotFound is returned by Load when nothing was saved yet.
var ErrNotFound = errors.New("no saved board")

const fileName = "board.json"

// Record is one saved board.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Monospaced bool      `json:"monospaced"`
	Size       int       `json:"size"`
	Data       string    `json:"data"`
	SavedAt    time.Time `json:"saved_at"`
}

// Saved converts the record back to the board's persisted values.
func (r Record) Saved() state.Saved {
	return state.Saved{
		Name:       r.Name,
		Monospaced: r.Monospaced,
		Size:       r.Size,
		Markup:     r.Data,
	}
}

// Store keeps the last saved board.
type Store interface {
	Save(id string, s state.Saved) error
	Load() (Record, error)
	Exists() bool
}

// FileStore writes the board as JSON inside a directory.
type FileStore struct {
	dir string
	now func() time.Time
	log *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now, log: logger.For("storage")}
}

// Path returns the location of the saved record.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Save replaces the stored record. The file is written to a temporary name
// and renamed so a crash never leaves a truncated record. An empty id gets a
// fresh one.
func (s *FileStore) Save(id string, saved state.Saved) error {
	if id == "" {
		id = uuid.NewString()
	}
	rec := Record{
		ID:         id,
		Name:       saved.Name,
		Monospaced: saved.Monospaced,
		Size:       saved.Size,
		Data:       saved.Markup,
		SavedAt:    s.now().UTC(),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save board: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save board: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save board: %w", err)
	}
	s.log.Info("board saved", "id", id, "name", saved.Name, "bytes", len(data))
	return nil
}

// Load reads the stored record.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load board: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode board %s: %w", s.Path(), err)
	}
	if rec.Size == 0 {
		rec.Size = state.DefaultSize
	}
	s.log.Debug("board loaded", "id", rec.ID, "name", rec.Name)
	return rec, nil
}

// Exists reports whether a record has been saved.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}
