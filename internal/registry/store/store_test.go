package store_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KYD-04/Home-Files/internal/registry/store"
	"github.com/KYD-04/Home-Files/pkg/share"
)

func newStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "data", "shared_files.json"))
	require.NoError(t, err)
	return s
}

func TestLoadMissingDocument(t *testing.T) {
	s := newStore(t)

	entries, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSaveThenLoad(t *testing.T) {
	s := newStore(t)
	size := int64(42)
	in := []share.Entry{
		{ID: 1, Name: "report.pdf", Path: "/tmp/report.pdf", Kind: share.KindFile, Icon: "picture_as_pdf", AddedAt: "2026-01-02 03:04:05", Exists: true, Size: &size, Modified: "2026-01-02 03:04"},
		{ID: 2, Name: "photos", Path: "/tmp/photos", Kind: share.KindFolder, Icon: "folder", AddedAt: "2026-01-02 03:04:06"},
	}

	require.NoError(t, s.Save(in))
	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadLegacyKeys(t *testing.T) {
	s := newStore(t)
	legacy := `[
  {"id": 1, "name": "notes.txt", "path": "/srv/notes.txt", "type": "file", "icon": "description", "added_date": "2025-05-01 10:00:00", "exists": true, "size": 5, "modified": "2025-05-01 10:00"},
  {"id": 2, "name": "photos", "path": "/srv/photos", "type": "folder", "icon": "folder", "added_date": "2025-05-02 11:00:00", "exists": false}
]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0644))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, share.KindFile, out[0].Kind)
	assert.Equal(t, "2025-05-01 10:00:00", out[0].AddedAt)
	require.NotNil(t, out[0].Size)
	assert.Equal(t, int64(5), *out[0].Size)
	assert.Equal(t, share.KindFolder, out[1].Kind)
	assert.Equal(t, "2025-05-02 11:00:00", out[1].AddedAt)

	require.NoError(t, s.Save(out))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"added_at": "2025-05-02 11:00:00"`)
	assert.Contains(t, string(data), `"kind": "folder"`)
	assert.NotContains(t, string(data), "added_date")

	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSaveOverwritesWholeDocument(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]share.Entry{{ID: 1, Path: "a"}, {ID: 2, Path: "b"}}))
	require.NoError(t, s.Save([]share.Entry{{ID: 2, Path: "b"}}))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].ID)

	require.NoError(t, s.Save(nil))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]share.Entry{{ID: 1, Path: "a"}}))

	files, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "shared_files.json", files[0].Name())
}

func TestLoadCorruptDocument(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestConcurrentSaveKeepsDocumentValid(t *testing.T) {
	s := newStore(t)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, s.Save([]share.Entry{{ID: id, Path: "p"}}))
		}(i)
	}
	wg.Wait()

	out, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
