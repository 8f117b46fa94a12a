package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KufiCraft/internal/config"
	"KufiCraft/internal/grid"
	"KufiCraft/internal/state"
	"KufiCraft/internal/storage"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	cfg := config.Default()
	cfg.Board.Monospaced = true

	f, fs, err := parseFlags([]string{"-name", "basmala", "-preview"})
	require.NoError(t, err)
	f.apply(&cfg, fs)
	assert.Equal(t, "basmala", cfg.Board.Name)
	assert.True(t, cfg.Preview.Enabled)
	assert.True(t, cfg.Board.Monospaced, "unset -mono keeps the config value")

	f, fs, err = parseFlags([]string{"-mono=false"})
	require.NoError(t, err)
	f.apply(&cfg, fs)
	assert.False(t, cfg.Board.Monospaced)
}

func TestOpenBoard(t *testing.T) {
	cfg := config.Default()
	cfg.Board.Monospaced = true
	cfg.Board.ArchDir = 0
	store := storage.NewFileStore(t.TempDir())

	b, err := openBoard(store, cfg, true)
	require.NoError(t, err, "restoring with nothing saved starts fresh")
	assert.Zero(t, b.Len())
	assert.Equal(t, 0, b.ArchDir())

	b.Push(b.Shape(grid.Point{X: 5, Y: 5}, false))
	require.NoError(t, store.Save(b.ID, b.Save()))

	restored, err := openBoard(store, cfg, true)
	require.NoError(t, err)
	assert.Equal(t, b.ID, restored.ID)
	require.Len(t, restored.Workspace().Nodes(), 1)
	assert.Equal(t, b.Workspace().Nodes()[0].D, restored.Workspace().Nodes()[0].D)
}

type emptyStore struct{ t *testing.T }

func (s emptyStore) Save(string, state.Saved) error { return nil }
func (s emptyStore) Exists() bool                   { return false }

func (s emptyStore) Load() (storage.Record, error) {
	s.t.Error("Load called on a store with nothing saved")
	return storage.Record{}, errors.New("unexpected load")
}

func TestOpenBoardChecksExistsBeforeLoad(t *testing.T) {
	b, err := openBoard(emptyStore{t}, config.Default(), true)
	require.NoError(t, err)
	assert.Zero(t, b.Len())
}

func TestOpenBoardReportsBrokenRecord(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFileStore(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{"), 0o644))
	_, err := openBoard(store, config.Default(), true)
	assert.Error(t, err)
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kuficraft.toml")
	require.NoError(t, run([]string{"-config", path, "-write-config", "-name", "basmala", "-mono"}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "basmala", cfg.Board.Name)
	assert.True(t, cfg.Board.Monospaced)
	assert.Equal(t, config.Default().Export, cfg.Export)
}

func TestExportSaved(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	store := storage.NewFileStore(t.TempDir())

	err := exportSaved(store, cfg, "svg", "")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	b := state.New(state.Options{Name: "my board", Monospaced: true})
	b.Push(b.Shape(grid.Point{X: 3, Y: 4}, false))
	require.NoError(t, store.Save(b.ID, b.Save()))

	require.NoError(t, exportSaved(store, cfg, "svg", ""))
	data, err := os.ReadFile(filepath.Join(cfg.Export.Dir, "my-board.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
