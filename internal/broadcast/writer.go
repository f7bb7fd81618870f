// Package broadcast fans a single write out to every registered output sink.
package broadcast

import (
	"io"
	"log/slog"
	"sync"

	"github.com/banasraf/telnet-server/internal/guarded"
)

// Sink is one per-connection destination. Its writer is only touched inside
// the sink's own scope, so fan-out and direct writes never interleave.
type Sink = guarded.Value[io.Writer]

func NewSink(w io.Writer) *Sink {
	return guarded.New(w)
}

// Send writes p to a single sink under its scope.
func Send(s *Sink, p []byte) error {
	return s.DoErr(func(w *io.Writer) error {
		_, err := (*w).Write(p)
		return err
	})
}

// MultiWriter is the live set of sinks, keyed by identity.
type MultiWriter struct {
	mu     sync.Mutex
	sinks  map[*Sink]struct{}
	logger *slog.Logger

	// OnError, when set, is called for every failed sink write during
	// fan-out. It runs with the registry lock held.
	OnError func(err error)
}

func NewMultiWriter(logger *slog.Logger) *MultiWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiWriter{
		sinks:  make(map[*Sink]struct{}),
		logger: logger,
	}
}

// Add registers s. Adding the same sink twice keeps a single registration.
func (m *MultiWriter) Add(s *Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks[s] = struct{}{}
}

// Remove deregisters s. Removing an unknown sink is a no-op.
func (m *MultiWriter) Remove(s *Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sinks, s)
}

func (m *MultiWriter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sinks)
}

// Contains reports whether s is currently registered.
func (m *MultiWriter) Contains(s *Sink) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sinks[s]
	return ok
}

// Write delivers p to every registered sink. A failing sink does not stop
// delivery to the rest and stays registered until its owner removes it;
// Write itself never reports an error.
func (m *MultiWriter) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for s := range m.sinks {
		if err := Send(s, p); err != nil {
			m.logger.Warn("broadcast write failed", "error", err)
			if m.OnError != nil {
				m.OnError(err)
			}
		}
	}
	return len(p), nil
}
