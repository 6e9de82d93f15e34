// Package ingress validates and stores uploaded files.
package ingress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KYD-04/Home-Files/pkg/logger"
	"github.com/KYD-04/Home-Files/pkg/share"
)

var log = logger.New()

var (
	// ErrNoFileSelected is returned when the upload carries no usable file name
	ErrNoFileSelected = errors.New("no file selected")

	// ErrFileRejected is returned when the file extension is not allowed
	ErrFileRejected = errors.New("file type is not allowed")

	// ErrFileTooLarge is returned when the content exceeds the size limit
	ErrFileTooLarge = errors.New("file is too large")
)

// Policy constrains what Accept stores and where
type Policy struct {
	// Dir receives every stored upload
	Dir string
	// AllowedExtensions are lower-case extensions without the leading dot
	AllowedExtensions []string
	// MaxSize is the largest accepted upload in bytes, 0 for no limit
	MaxSize int64
}

// Service stores uploads under a Policy
type Service struct {
	policy  Policy
	allowed map[string]struct{}
}

// New creates a Service, creating the destination directory if needed
func New(policy Policy) (*Service, error) {
	if policy.Dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(policy.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	allowed := make(map[string]struct{}, len(policy.AllowedExtensions))
	for _, ext := range policy.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	log.Info("Upload service initialized with directory: %s", policy.Dir)
	return &Service{policy: policy, allowed: allowed}, nil
}

// Policy returns the policy the service enforces
func (s *Service) Policy() Policy {
	return s.policy
}

// MaxSize returns the upload size limit in bytes, 0 when unlimited
func (s *Service) MaxSize() int64 {
	return s.policy.MaxSize
}

// Accept sanitizes filename, checks it against the policy and writes content
// to the upload directory, replacing any file of the same name. Nothing is
// written when the name or extension is rejected.
func (s *Service) Accept(ctx context.Context, filename string, content io.Reader) (*share.UploadResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrNoFileSelected
	}

	name := SanitizeFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("%w: %q has no usable name", ErrNoFileSelected, filename)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := s.allowed[strings.TrimPrefix(ext, ".")]; !ok || ext == "" {
		return nil, fmt.Errorf("%w: %q", ErrFileRejected, ext)
	}

	size, err := s.write(ctx, name, content)
	if err != nil {
		return nil, err
	}

	log.Info("Stored upload %q (%d bytes)", name, size)
	return &share.UploadResult{
		Message:  "File uploaded",
		Filename: name,
		Size:     size,
	}, nil
}

// write copies content into a temporary file next to the destination and
// renames it into place once complete
func (s *Service) write(ctx context.Context, name string, content io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(s.policy.Dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("error creating upload file: %v", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int64, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	src := content
	if s.policy.MaxSize > 0 {
		src = io.LimitReader(content, s.policy.MaxSize+1)
	}
	n, err := io.Copy(tmp, &contextReader{ctx: ctx, r: src})
	if err != nil {
		return fail(fmt.Errorf("error writing upload: %w", err))
	}
	if s.policy.MaxSize > 0 && n > s.policy.MaxSize {
		return fail(fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.policy.MaxSize))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("error closing upload: %v", err)
	}

	dst := filepath.Join(s.policy.Dir, name)
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("error storing upload: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, fmt.Errorf("error getting upload info: %v", err)
	}
	return info.Size(), nil
}

// contextReader stops a copy once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
