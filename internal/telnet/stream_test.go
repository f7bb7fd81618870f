package telnet

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readN(t *testing.T, c net.Conn, n int) []byte {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, n)
	_, err := io.ReadFull(c, buf)
	require.NoError(t, err)
	return buf
}

// startStream runs the handshake and a read loop on the server end of a pipe,
// forwarding every application byte to the returned channel.
func startStream(t *testing.T, h CommandHandler) (client net.Conn, data <-chan byte) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	s := NewStream(server, h, nil)
	out := make(chan byte, 64)
	go func() {
		defer close(out)
		if err := s.Start(); err != nil {
			return
		}
		buf := make([]byte, 16)
		for {
			n, err := s.Read(buf)
			for _, b := range buf[:n] {
				out <- b
			}
			if err != nil {
				return
			}
		}
	}()
	return client, out
}

func nextByte(t *testing.T, ch <-chan byte) byte {
	t.Helper()
	select {
	case b, ok := <-ch:
		require.True(t, ok, "stream closed")
		return b
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for data")
	}
	return 0
}

func TestStream_HandshakeThenNoReplyForOwnedOption(t *testing.T) {
	client, data := startStream(t, InteractiveHandler{})

	assert.Equal(t, []byte{IAC, WILL, OptEcho, IAC, DO, OptLinemode}, readN(t, client, 6))

	_, err := client.Write([]byte{IAC, DO, OptEcho, 'a'})
	require.NoError(t, err)
	assert.Equal(t, byte('a'), nextByte(t, data))

	// No reply must be pending: a short read deadline expires without data.
	require.NoError(t, client.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, err = client.Read(make([]byte, 1))
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
}

func TestStream_RefusesUnclaimedOption(t *testing.T) {
	client, data := startStream(t, InteractiveHandler{})
	readN(t, client, 6)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = client.Write([]byte{IAC, WILL, 0x1F})
	}()
	assert.Equal(t, []byte{IAC, DONT, 0x1F}, readN(t, client, 3))
	<-done

	_, err := client.Write([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, byte('z'), nextByte(t, data))
}

type recordingHandler struct {
	mu   sync.Mutex
	seen []Command
}

func (h *recordingHandler) Init() []Command { return nil }

func (h *recordingHandler) Response(cmd Command) []Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, cmd)
	return nil
}

func TestStream_AcceptsAnyHandler(t *testing.T) {
	h := &recordingHandler{}
	client, data := startStream(t, h)

	_, err := client.Write([]byte{IAC, WONT, OptTerminalType, 'q'})
	require.NoError(t, err)
	assert.Equal(t, byte('q'), nextByte(t, data))

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []Command{Wont(OptTerminalType)}, h.seen)
}

func TestStream_WriteEscapesIAC(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s := NewStream(server, nil, nil)
	go func() {
		_, _ = s.Write([]byte{'a', IAC})
	}()
	assert.Equal(t, []byte{'a', IAC, IAC}, readN(t, client, 3))
}

func TestStream_ObservesCommands(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	var mu sync.Mutex
	var seen []string
	s := NewStream(server, InteractiveHandler{}, nil)
	s.OnCommand = func(dir string, c Command) {
		mu.Lock()
		seen = append(seen, dir+" "+c.String())
		mu.Unlock()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	readN(t, client, 6)
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"out WILL ECHO", "out DO LINEMODE"}, seen)
}
