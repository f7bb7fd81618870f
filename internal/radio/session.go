package radio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/time/rate"

	"github.com/banasraf/telnet-server/internal/broadcast"
	"github.com/banasraf/telnet-server/internal/events"
	"github.com/banasraf/telnet-server/internal/telnet"
	"github.com/banasraf/telnet-server/internal/terminal"
)

// UserConnection ties one TCP connection to its telnet stream and to its
// sink in the broadcast set. The sink is registered from construction until
// Close.
type UserConnection struct {
	conn    net.Conn
	stream  *telnet.Stream
	sink    *broadcast.Sink
	output  *broadcast.MultiWriter
	events  *events.Queue[MenuEvent]
	limiter *rate.Limiter
	logger  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewUserConnection negotiates nothing yet; it only wires the stream and
// registers the sink. Call Serve to run the session and Close to end it.
func NewUserConnection(conn net.Conn, s *Server) *UserConnection {
	logger := s.logger.With("remote", conn.RemoteAddr().String())

	stream := telnet.NewStream(newDeadlineConn(conn, s.opts.WriteTimeout), telnet.InteractiveHandler{}, logger)
	stream.OnCommand = func(direction string, cmd telnet.Command) {
		TelnetCommands.WithLabelValues(direction, cmd.Verb.String()).Inc()
	}

	u := &UserConnection{
		conn:    conn,
		stream:  stream,
		sink:    broadcast.NewSink(stream),
		output:  s.output,
		events:  s.events,
		limiter: rate.NewLimiter(rate.Limit(s.opts.InputRate), s.opts.InputBurst),
		logger:  logger,
	}
	// The sink exists before it becomes visible to broadcasts.
	u.output.Add(u.sink)
	ConnectedSessions.Inc()
	return u
}

func (u *UserConnection) RemoteAddr() string {
	return u.conn.RemoteAddr().String()
}

func (u *UserConnection) Stream() *telnet.Stream {
	return u.stream
}

func (u *UserConnection) Writer() *broadcast.Sink {
	return u.sink
}

// Serve runs the handshake, announces the user and then turns input into
// events until the peer leaves, presses quit or the connection fails.
func (u *UserConnection) Serve() error {
	if err := u.stream.Start(); err != nil {
		return err
	}
	u.events.Push(NewUserEvent(u.sink))

	var dec terminal.KeyDecoder
	buf := make([]byte, 256)
	keys := make([]terminal.ActionKey, 0, 8)
	for {
		n, err := u.stream.Read(buf)
		if n > 0 {
			keys = dec.Decode(buf[:n], keys[:0])
			for _, k := range keys {
				if k == terminal.KeyQuit {
					_ = broadcast.Send(u.sink, []byte(terminal.ShowCursor+terminal.NewLine+"Bye"+terminal.NewLine))
					return nil
				}
				if !u.limiter.Allow() {
					DroppedKeys.Inc()
					u.logger.Debug("key dropped by rate limit", "key", k.String())
					continue
				}
				u.events.Push(UserInput(k))
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
	}
}

// Close deregisters the sink and then closes the connection. It is safe to
// call more than once and from several goroutines.
func (u *UserConnection) Close() error {
	u.closeOnce.Do(func() {
		u.output.Remove(u.sink)
		u.closeErr = u.conn.Close()
		ConnectedSessions.Dec()
	})
	return u.closeErr
}
