package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KYD-04/Home-Files/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8110", cfg.Server.Admin.Addr())
	assert.Equal(t, "0.0.0.0:8111", cfg.Server.Public.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, uint64(100*1000*1000), cfg.Upload.MaxFileSize)
	assert.Equal(t, "uploads", cfg.Upload.Path)
	assert.Equal(t, filepath.Join("data", "shared_files.json"), cfg.Data.RegistryFile())
	assert.Contains(t, cfg.Upload.AllowedExtensions, "pdf")
	assert.NotContains(t, cfg.Upload.AllowedExtensions, "exe")
}

func TestEnsureFileThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", config.DefaultFileName)

	created, err := config.EnsureFile(path)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = config.EnsureFile(path)
	require.NoError(t, err)
	assert.False(t, created, "an existing document must not be overwritten")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "uploads", cfg.Upload.Path)
	assert.Len(t, cfg.Upload.AllowedExtensions, 12)
}

func TestLoadFromDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `upload_path: /srv/incoming
max_file_size: 2MiB
allowed_extensions: [".TXT", "Md", ""]
server:
  public:
    port: 9000
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/incoming", cfg.Upload.Path)
	assert.Equal(t, uint64(2*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, []string{"txt", "md"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, 9000, cfg.Server.Public.Port)
	assert.Equal(t, 8110, cfg.Server.Admin.Port)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOMEFILES_ADMIN_PORT", "9110")
	t.Setenv("HOMEFILES_MAX_FILE_SIZE", "1KB")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9110, cfg.Server.Admin.Port)
	assert.Equal(t, uint64(1000), cfg.Upload.MaxFileSize)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("size", func(t *testing.T) {
		t.Setenv("HOMEFILES_MAX_FILE_SIZE", "lots")
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("shared port", func(t *testing.T) {
		t.Setenv("HOMEFILES_PUBLIC_PORT", "8110")
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
