// Package service holds the business rules of the shared entry registry.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/KYD-04/Home-Files/internal/events"
	"github.com/KYD-04/Home-Files/internal/metrics"
	"github.com/KYD-04/Home-Files/internal/registry/resolver"
	"github.com/KYD-04/Home-Files/internal/registry/store"
	"github.com/KYD-04/Home-Files/pkg/logger"
	"github.com/KYD-04/Home-Files/pkg/share"
)

var log = logger.New()

// Publisher receives registry change notifications
type Publisher interface {
	Publish(event events.Event)
}

// RegistryService is the single source of truth for shared entries. One
// instance is shared by every listener profile; its read-modify-write
// operations are serialised.
type RegistryService struct {
	mu        sync.Mutex
	store     store.Store
	publisher Publisher
	now       func() time.Time
}

// Option configures a RegistryService
type Option func(*RegistryService)

// WithPublisher sends change events to p
func WithPublisher(p Publisher) Option {
	return func(s *RegistryService) {
		s.publisher = p
	}
}

// WithClock overrides the time source used for added_at stamps
func WithClock(now func() time.Time) Option {
	return func(s *RegistryService) {
		s.now = now
	}
}

// New creates a RegistryService backed by st
func New(st store.Store, opts ...Option) *RegistryService {
	s := &RegistryService{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List refreshes every entry against the filesystem, persists the refreshed
// registry and returns it. List always writes.
func (s *RegistryService) List(ctx context.Context) ([]share.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resolver.Refresh(&entries[i])
	}

	if err := s.store.Save(entries); err != nil {
		return nil, err
	}
	metrics.SetRegistryEntries(len(entries))

	return entries, nil
}

// Add registers path. Adding a path that is already registered succeeds
// without creating a duplicate; created reports whether a new entry was made.
func (s *RegistryService) Add(ctx context.Context, path string) (entry *share.Entry, created bool, err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false, fmt.Errorf("%w: path must not be empty", ErrInvalidPath)
	}

	// Any stat failure, including permission errors, means the path cannot be shared
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load()
	if err != nil {
		return nil, false, err
	}

	for i := range entries {
		if entries[i].Path == path {
			existing := entries[i]
			return &existing, false, nil
		}
	}

	name := filepath.Base(path)
	e := share.Entry{
		ID:      nextID(entries),
		Name:    name,
		Path:    path,
		Kind:    share.KindFile,
		Icon:    resolver.FileIcon(name),
		AddedAt: s.now().Format(share.AddedAtLayout),
		Exists:  true,
	}
	if info.IsDir() {
		e.Kind = share.KindFolder
		e.Icon = resolver.IconFolder
	}
	size := info.Size()
	e.Size = &size
	e.Modified = info.ModTime().Format(share.ModifiedLayout)

	entries = append(entries, e)
	if err := s.store.Save(entries); err != nil {
		return nil, false, err
	}
	metrics.SetRegistryEntries(len(entries))

	log.Info("Shared %s %q as id %d", e.Kind, e.Path, e.ID)
	s.publish(events.Event{Type: events.EventAdded, ID: e.ID, Name: e.Name})

	return &e, true, nil
}

// Remove deletes the entry with id. The filesystem object is untouched.
func (s *RegistryService) Remove(ctx context.Context, id int) (*share.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		removed := entries[i]
		entries = append(entries[:i], entries[i+1:]...)
		if err := s.store.Save(entries); err != nil {
			return nil, err
		}
		metrics.SetRegistryEntries(len(entries))

		log.Info("Unshared %q (id %d)", removed.Path, removed.ID)
		s.publish(events.Event{Type: events.EventRemoved, ID: removed.ID, Name: removed.Name})
		return &removed, nil
	}

	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Get returns the stored entry with id, refreshed against the filesystem.
// The refresh is not persisted.
func (s *RegistryService) Get(ctx context.Context, id int) (*share.Entry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID == id {
			e := entries[i]
			resolver.Refresh(&e)
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// FindDownloadable returns the entry with id when it currently exists and is a file
func (s *RegistryService) FindDownloadable(ctx context.Context, id int) (*share.Entry, error) {
	return s.findKind(ctx, id, share.KindFile)
}

// FindDownloadableFolder returns the entry with id when it currently exists and is a folder
func (s *RegistryService) FindDownloadableFolder(ctx context.Context, id int) (*share.Entry, error) {
	return s.findKind(ctx, id, share.KindFolder)
}

func (s *RegistryService) findKind(ctx context.Context, id int, kind share.Kind) (*share.Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Exists {
		return nil, fmt.Errorf("%w: %s no longer exists", ErrNotFound, e.Path)
	}
	if e.Kind != kind {
		return nil, fmt.Errorf("%w: %s is not a %s", ErrNotFound, e.Path, kind)
	}
	return e, nil
}

func (s *RegistryService) load() ([]share.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

func (s *RegistryService) publish(event events.Event) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

// nextID returns one more than the largest id present, so an id is never
// shared by two entries at the same time.
func nextID(entries []share.Entry) int {
	max := 0
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}
