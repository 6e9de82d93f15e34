package cron

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KYD-04/Home-Files/config"
	"github.com/KYD-04/Home-Files/internal/archive"
	"github.com/KYD-04/Home-Files/pkg/logger"
	"github.com/KYD-04/Home-Files/pkg/share"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) List(ctx context.Context) ([]share.Entry, error) {
	f.calls++
	return []share.Entry{{ID: 1, Exists: true}, {ID: 2}}, f.err
}

func TestRefreshRegistry(t *testing.T) {
	refresher := &fakeRefresher{}
	m := NewManager(logger.New(), config.CronConfig{}, refresher, archive.New(t.TempDir()))

	m.refreshRegistry()
	assert.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("disk gone")
	m.refreshRegistry()
	assert.Equal(t, 2, refresher.calls)
}

func TestSweepArchives(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "homefiles-old.zip")
	fresh := filepath.Join(dir, "homefiles-fresh.zip")
	other := filepath.Join(dir, "keep.zip")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("zip"), 0644))
	}
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))
	require.NoError(t, os.Chtimes(other, stale, stale))

	m := NewManager(logger.New(), config.CronConfig{}, &fakeRefresher{}, archive.New(dir))
	m.sweepArchives()

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	m := NewManager(logger.New(), config.CronConfig{Refresh: "not a schedule"}, &fakeRefresher{}, archive.New(t.TempDir()))
	assert.Error(t, m.Start())

	m = NewManager(logger.New(), config.CronConfig{Refresh: "*/5 * * * *", Sweep: "0 * * * *"}, &fakeRefresher{}, archive.New(t.TempDir()))
	require.NoError(t, m.Start())
	assert.Len(t, m.cron.Entries(), 2)
	m.Stop()
}
