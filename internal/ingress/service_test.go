package ingress_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KYD-04/Home-Files/internal/ingress"
)

var defaultExtensions = []string{"txt", "pdf", "doc", "docx", "jpg", "jpeg", "png", "gif", "mp3", "mp4", "zip", "rar"}

func newService(t *testing.T, maxSize int64) (*ingress.Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	svc, err := ingress.New(ingress.Policy{Dir: dir, AllowedExtensions: defaultExtensions, MaxSize: maxSize})
	require.NoError(t, err)
	return svc, dir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":              "report.pdf",
		"../../etc/passwd":        "etc_passwd",
		`..\..\windows\win.ini`:   "windows_win.ini",
		"my holiday  photo.JPG":   "my_holiday_photo.JPG",
		"café menu.txt":           "cafe_menu.txt",
		"  .hidden.txt":           "hidden.txt",
		"rm -rf ; $(boom).txt":    "rm_-rf__boom.txt",
		"...":                     "",
		"привет":                  "",
		"/":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ingress.SanitizeFilename(in), in)
	}
}

func TestAcceptStoresFile(t *testing.T) {
	svc, dir := newService(t, 0)

	res, err := svc.Accept(context.Background(), "notes.TXT", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.TXT", res.Filename)
	assert.Equal(t, int64(5), res.Size)

	data, err := os.ReadFile(filepath.Join(dir, "notes.TXT"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, []string{"notes.TXT"}, listDir(t, dir))
}

func TestAcceptCannotEscapeUploadDir(t *testing.T) {
	svc, dir := newService(t, 0)

	res, err := svc.Accept(context.Background(), "../../etc/passwd.txt", strings.NewReader("root"))
	require.NoError(t, err)
	assert.Equal(t, "etc_passwd.txt", res.Filename)
	assert.FileExists(t, filepath.Join(dir, "etc_passwd.txt"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "passwd.txt"))
}

func TestAcceptTraversalWithoutExtensionIsRejected(t *testing.T) {
	svc, dir := newService(t, 0)

	_, err := svc.Accept(context.Background(), "../../etc/passwd", strings.NewReader("root"))
	assert.ErrorIs(t, err, ingress.ErrFileRejected)
	assert.Empty(t, listDir(t, dir))
}

func TestAcceptRejectsExtension(t *testing.T) {
	svc, dir := newService(t, 0)

	_, err := svc.Accept(context.Background(), "setup.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ingress.ErrFileRejected)
	assert.Empty(t, listDir(t, dir), "a rejected upload performs no write")
}

func TestAcceptNoFileSelected(t *testing.T) {
	svc, dir := newService(t, 0)

	for _, name := range []string{"", "   ", "...", "///"} {
		_, err := svc.Accept(context.Background(), name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ingress.ErrNoFileSelected, name)
	}
	assert.Empty(t, listDir(t, dir))
}

func TestAcceptOverwrites(t *testing.T) {
	svc, dir := newService(t, 0)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "a.txt", strings.NewReader("first version"))
	require.NoError(t, err)
	res, err := svc.Accept(ctx, "a.txt", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Size)

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, []string{"a.txt"}, listDir(t, dir))
}

func TestAcceptEnforcesMaxSize(t *testing.T) {
	svc, dir := newService(t, 4)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "big.txt", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ingress.ErrFileTooLarge)
	assert.Empty(t, listDir(t, dir))

	res, err := svc.Accept(ctx, "fits.txt", strings.NewReader("1234"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Size)
}

func TestAcceptCancelled(t *testing.T) {
	svc, dir := newService(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Accept(ctx, "a.txt", strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listDir(t, dir))
}
