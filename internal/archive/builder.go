// Package archive packs a folder subtree into a temporary zip file.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/KYD-04/Home-Files/internal/metrics"
	"github.com/KYD-04/Home-Files/pkg/logger"
)

var log = logger.New()

// TempPattern names every archive the builder creates
const TempPattern = "homefiles-*.zip"

// Builder creates folder archives in a temporary directory
type Builder struct {
	tempDir string
}

// New creates a Builder writing into tempDir, or the OS temp dir when empty
func New(tempDir string) *Builder {
	return &Builder{tempDir: tempDir}
}

// TempDir returns the directory archives are written to
func (b *Builder) TempDir() string {
	if b.tempDir == "" {
		return os.TempDir()
	}
	return b.tempDir
}

// Build walks folder recursively and writes every regular file into a new,
// uniquely named zip archive. Entry names are paths relative to folder with
// forward slashes. The caller owns the returned file and must remove it.
func (b *Builder) Build(ctx context.Context, folder string) (string, error) {
	start := time.Now()

	info, err := os.Stat(folder)
	if err != nil {
		return "", fmt.Errorf("error getting folder info: %v", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a folder: %s", folder)
	}

	tmp, err := os.CreateTemp(b.TempDir(), TempPattern)
	if err != nil {
		return "", fmt.Errorf("error creating archive: %v", err)
	}
	tmpName := tmp.Name()

	if err := writeArchive(ctx, tmp, folder); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("error closing archive: %v", err)
	}

	metrics.ObserveArchiveBuild(time.Since(start))
	log.Debug("Built archive %s for %s in %v", tmpName, folder, time.Since(start))
	return tmpName, nil
}

func writeArchive(ctx context.Context, w io.Writer, folder string) error {
	// WalkDir does not follow a symlinked root
	root, err := filepath.EvalSymlinks(folder)
	if err != nil {
		return fmt.Errorf("error resolving %s: %v", folder, err)
	}

	zw := zip.NewWriter(w)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		info, ok, err := regularFile(path, d)
		if err != nil || !ok {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		dst, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(dst, src)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("error archiving %s: %w", folder, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("error finishing archive: %v", err)
	}
	return nil
}

// regularFile reports whether path is a regular file, following symlinks.
// Broken links and links to directories are skipped.
func regularFile(path string, d fs.DirEntry) (fs.FileInfo, bool, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return info, info.Mode().IsRegular(), nil
	}
	if !d.Type().IsRegular() {
		return nil, false, nil
	}
	info, err := d.Info()
	return info, err == nil, err
}

// Sweep removes archives older than maxAge left behind in the temp
// directory, returning the removed paths
func (b *Builder) Sweep(ctx context.Context, maxAge time.Duration) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(b.TempDir(), TempPattern))
	if err != nil {
		return nil, fmt.Errorf("error listing archives: %v", err)
	}

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	var errs []string
	for _, path := range matches {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		removed = append(removed, path)
	}

	if len(errs) > 0 {
		return removed, fmt.Errorf("error removing archives: %s", strings.Join(errs, "; "))
	}
	return removed, nil
}
