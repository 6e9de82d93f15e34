package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/emicklei/go-restful/v3"

	"github.com/KYD-04/Home-Files/internal/common"
	"github.com/KYD-04/Home-Files/internal/share/api"
	"github.com/KYD-04/Home-Files/pkg/format"
	"github.com/KYD-04/Home-Files/pkg/logger"
)

var log = logger.New()

type listener struct {
	profile   Profile
	container *restful.Container
	ws        *restful.WebService
	server    *http.Server
	ln        net.Listener
}

// Server hosts one HTTP listener per profile. Every profile dispatches to the
// same handler, so all listeners observe one registry.
type Server struct {
	mu        sync.Mutex
	listeners []*listener
	started   bool

	stopOnce sync.Once
	stopCh   chan struct{}
	reason   string
	errCh    chan error
}

// New creates a Server with no profiles
func New() *Server {
	return &Server{
		stopCh: make(chan struct{}),
	}
}

// AddProfile registers the routes enabled by profile on a dedicated container
func (s *Server) AddProfile(profile Profile, handler *api.ShareHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("server already started")
	}
	for _, l := range s.listeners {
		if l.profile.Name == profile.Name {
			return fmt.Errorf("profile %q already registered", profile.Name)
		}
	}

	container := restful.NewContainer()

	ws := new(restful.WebService)
	ws.Path("/")
	api.RegisterRoutes(ws, handler, profile.Capabilities)
	container.Add(ws)

	container.Filter(requestFilter(profile.Name))
	container.Filter(corsFilter)

	s.listeners = append(s.listeners, &listener{
		profile:   profile,
		container: container,
		ws:        ws,
		server: &http.Server{
			Addr:    profile.Addr,
			Handler: container,
		},
	})
	return nil
}

// Start binds every profile and serves them concurrently. If any bind fails
// the listeners opened so far are closed.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("server already started")
	}
	if len(s.listeners) == 0 {
		return fmt.Errorf("no profiles registered")
	}

	for i, l := range s.listeners {
		ln, err := net.Listen("tcp", l.profile.Addr)
		if err != nil {
			for _, opened := range s.listeners[:i] {
				opened.ln.Close()
				opened.ln = nil
			}
			return fmt.Errorf("failed to bind %s interface on %s: %w", l.profile.Name, l.profile.Addr, err)
		}
		l.ln = ln
	}

	errCh := make(chan error, len(s.listeners))
	s.errCh = errCh
	for _, l := range s.listeners {
		go func(l *listener) {
			if err := l.server.Serve(l.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s interface: %w", l.profile.Name, err)
			}
		}(l)
	}
	s.started = true
	return nil
}

// Addr returns the bound address of the named profile, or its configured
// address before Start
func (s *Server) Addr(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findLocked(name)
	if l == nil {
		return ""
	}
	if l.ln != nil {
		return l.ln.Addr().String()
	}
	return l.profile.Addr
}

// Container returns the container serving the named profile
func (s *Server) Container(name string) *restful.Container {
	if l := s.find(name); l != nil {
		return l.container
	}
	return nil
}

// RequestShutdown asks the owner of the server to stop it. Only the first
// request is recorded.
func (s *Server) RequestShutdown(reason string) {
	s.stopOnce.Do(func() {
		s.reason = reason
		close(s.stopCh)
	})
}

// ShutdownRequested is closed once RequestShutdown has been called
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.stopCh
}

// ShutdownReason returns the reason passed to RequestShutdown
func (s *Server) ShutdownReason() string {
	select {
	case <-s.stopCh:
		return s.reason
	default:
		return ""
	}
}

// Errors reports listeners that stopped serving unexpectedly
func (s *Server) Errors() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errCh
}

// Shutdown stops every listener, draining in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	listeners := append([]*listener(nil), s.listeners...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	errs := make([]error, len(listeners))
	for i, l := range listeners {
		wg.Add(1)
		go func(i int, l *listener) {
			defer wg.Done()
			if err := l.server.Shutdown(ctx); err != nil {
				errs[i] = fmt.Errorf("%s interface: %w", l.profile.Name, err)
			}
		}(i, l)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// LogBanner prints each profile's address, reachable URLs and endpoints
func (s *Server) LogBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.listeners {
		addr := l.profile.Addr
		if l.ln != nil {
			addr = l.ln.Addr().String()
		}
		log.Info("%s", format.FormatProfile(l.profile.Name, addr))
		log.Info("Accessible URLs:")
		for _, url := range common.AccessibleURLs(addr) {
			log.Info("  %s", url)
		}

		endpoints := make([]format.APIEndpoint, 0, len(l.ws.Routes()))
		for _, route := range l.ws.Routes() {
			endpoints = append(endpoints, format.APIEndpoint{
				Method:      route.Method,
				Path:        route.Path,
				Description: route.Doc,
			})
		}
		format.LogAPIEndpoints(log, l.profile.Name, endpoints)
	}
}

func (s *Server) find(name string) *listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(name)
}

func (s *Server) findLocked(name string) *listener {
	for _, l := range s.listeners {
		if l.profile.Name == name {
			return l
		}
	}
	return nil
}
