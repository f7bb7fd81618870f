package telnet

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Stream binds the codec and a CommandHandler to one connection. Reads return
// application bytes only; negotiation replies are written back inline.
// Writes escape IAC. Read must be called from a single goroutine, Write is
// safe for concurrent use.
type Stream struct {
	rw      io.ReadWriter
	handler CommandHandler
	logger  *slog.Logger

	// OnCommand, when set before Start, observes every command sent ("out")
	// or received ("in").
	OnCommand func(direction string, cmd Command)

	dec     Decoder
	buf     []byte
	data    []byte
	pending []byte

	mu       sync.Mutex // serializes writes to rw
	replyErr error
}

func NewStream(rw io.ReadWriter, handler CommandHandler, logger *slog.Logger) *Stream {
	if handler == nil {
		handler = InteractiveHandler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{
		rw:      rw,
		handler: handler,
		logger:  logger,
		buf:     make([]byte, 512),
	}
}

// Start sends the handler's initial handshake.
func (s *Stream) Start() error {
	cmds := s.handler.Init()
	if err := s.sendCommands(cmds); err != nil {
		return fmt.Errorf("telnet handshake: %w", err)
	}
	return nil
}

func (s *Stream) Read(p []byte) (int, error) {
	for {
		if len(s.pending) > 0 {
			n := copy(p, s.pending)
			s.pending = s.pending[n:]
			return n, nil
		}
		if s.replyErr != nil {
			err := s.replyErr
			s.replyErr = nil
			return 0, err
		}

		n, err := s.rw.Read(s.buf)
		if n > 0 {
			s.data = s.dec.Decode(s.buf[:n], s.data[:0], s.handleCommand)
			s.pending = s.data
		}
		if err != nil {
			if len(s.pending) > 0 {
				n := copy(p, s.pending)
				s.pending = s.pending[n:]
				return n, nil
			}
			return 0, err
		}
	}
}

func (s *Stream) Write(p []byte) (int, error) {
	out := Escape(make([]byte, 0, len(p)+8), p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.rw.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *Stream) handleCommand(cmd Command) {
	s.observe("in", cmd)
	s.logger.Debug("telnet command received", "command", cmd.String())

	replies := s.handler.Response(cmd)
	if len(replies) == 0 {
		return
	}
	if err := s.sendCommands(replies); err != nil && s.replyErr == nil {
		s.replyErr = fmt.Errorf("telnet reply: %w", err)
	}
}

func (s *Stream) sendCommands(cmds []Command) error {
	if len(cmds) == 0 {
		return nil
	}
	out := EncodeCommands(nil, cmds)

	s.mu.Lock()
	_, err := s.rw.Write(out)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, c := range cmds {
		s.observe("out", c)
		s.logger.Debug("telnet command sent", "command", c.String())
	}
	return nil
}

func (s *Stream) observe(direction string, cmd Command) {
	if s.OnCommand != nil {
		s.OnCommand(direction, cmd)
	}
}
