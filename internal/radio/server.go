package radio

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/banasraf/telnet-server/internal/broadcast"
	"github.com/banasraf/telnet-server/internal/events"
	"github.com/banasraf/telnet-server/internal/guarded"
	"github.com/banasraf/telnet-server/internal/menu"
)

var ErrServerStopped = errors.New("server stopped")

type Options struct {
	Addr         string
	WriteTimeout time.Duration
	InputRate    float64
	InputBurst   int
	Stations     []menu.Station
}

// Server is the process-wide context: it owns the shared menu, the options
// listing, the broadcast writer and the event queue, and hands them to every
// session it accepts.
type Server struct {
	opts     Options
	logger   *slog.Logger
	listener net.Listener

	menu    *guarded.Value[menu.Menu]
	options *guarded.Value[menu.OptionsListing]
	output  *broadcast.MultiWriter
	events  *events.Queue[MenuEvent]
	loop    *EventLoop

	mu       sync.Mutex
	sessions map[*UserConnection]struct{}
	stopped  bool
	conns    sync.WaitGroup
	stopOnce sync.Once
}

func NewServer(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.InputRate <= 0 {
		opts.InputRate = 50
	}
	if opts.InputBurst <= 0 {
		opts.InputBurst = 20
	}

	s := &Server{
		opts:     opts,
		logger:   logger,
		menu:     guarded.New(*menu.New()),
		options:  guarded.New(*menu.NewOptionsListing(opts.Stations)),
		output:   broadcast.NewMultiWriter(logger),
		events:   events.NewQueue[MenuEvent](),
		sessions: make(map[*UserConnection]struct{}),
	}
	s.output.OnError = func(error) { BroadcastWriteFailures.Inc() }
	s.loop = NewEventLoop(s.menu, s.options, s.output, s.events, logger)
	return s
}

func (s *Server) Menu() *guarded.Value[menu.Menu]              { return s.menu }
func (s *Server) Options() *guarded.Value[menu.OptionsListing] { return s.options }
func (s *Server) Output() *broadcast.MultiWriter               { return s.output }
func (s *Server) Events() *events.Queue[MenuEvent]             { return s.events }

// Addr is the bound listen address, valid after Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrServerStopped
	}
	if s.listener != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go func() {
		if err := s.loop.Run(context.Background()); err != nil {
			s.logger.Error("event loop failed", "error", err)
		}
	}()
	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Stop queues STOP behind every pending event, closes the listener and all
// sessions, and waits for the connection goroutines and the event loop.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("shutting down")

		s.mu.Lock()
		s.stopped = true
		ln := s.listener
		sessions := make([]*UserConnection, 0, len(s.sessions))
		for u := range s.sessions {
			sessions = append(sessions, u)
		}
		s.mu.Unlock()

		s.events.Push(AppEvent(EventStop))
		if ln != nil {
			_ = ln.Close()
		}
		for _, u := range sessions {
			_ = u.Close()
		}
		s.conns.Wait()
		if ln != nil {
			s.loop.Wait()
		}

		s.logger.Info("shutdown complete")
	})
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			// Closed listener: normal shutdown.
			return
		}

		u := NewUserConnection(conn, s)
		if !s.track(u) {
			_ = u.Close()
			continue
		}

		s.logger.Info("client connected", "addr", u.RemoteAddr())
		go s.serve(u)
	}
}

func (s *Server) serve(u *UserConnection) {
	defer s.conns.Done()
	defer s.untrack(u)
	defer u.Close()

	if err := u.Serve(); err != nil {
		s.logger.Info("client disconnected", "addr", u.RemoteAddr(), "error", err)
		return
	}
	s.logger.Info("client disconnected", "addr", u.RemoteAddr())
}

// track records u and reserves its slot in the connection wait group. It
// refuses once Stop has begun.
func (s *Server) track(u *UserConnection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.sessions[u] = struct{}{}
	s.conns.Add(1)
	return true
}

func (s *Server) untrack(u *UserConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, u)
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
