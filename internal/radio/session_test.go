package radio

import (
	"context"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banasraf/telnet-server/internal/terminal"
)

func TestUserConnection_RegisteredUntilClose(t *testing.T) {
	srv := NewServer(Options{}, nil)
	server, client := net.Pipe()
	defer client.Close()

	u := NewUserConnection(server, srv)
	assert.True(t, srv.Output().Contains(u.Writer()))

	require.NoError(t, u.Close())
	assert.False(t, srv.Output().Contains(u.Writer()))
	assert.NoError(t, u.Close(), "second close is a no-op")
	assert.Equal(t, 0, srv.Output().Len())
}

func TestUserConnection_ServePushesEventsAndLimitsRate(t *testing.T) {
	srv := NewServer(Options{InputRate: 1, InputBurst: 1}, nil)
	server, client := net.Pipe()
	defer client.Close()

	u := NewUserConnection(server, srv)
	done := make(chan error, 1)
	go func() { done <- u.Serve() }()

	hs := make([]byte, len(handshake))
	_, err := io.ReadFull(client, hs)
	require.NoError(t, err)
	assert.Equal(t, handshake, hs)

	_, err = client.Write([]byte("jjjj"))
	require.NoError(t, err)
	waitUntil(t, func() bool { return srv.Events().Len() == 2 })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	first, _ := srv.Events().Next(ctx)
	assert.Equal(t, EventNewUser, first.Kind())
	assert.Same(t, u.Writer(), first.Sink())
	second, _ := srv.Events().Next(ctx)
	assert.Equal(t, terminal.KeyDown, second.Key())

	require.NoError(t, client.Close())
	select {
	case err := <-done:
		assert.NoError(t, err, "peer hang-up is a normal end")
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after hang-up")
	}
	require.NoError(t, u.Close())
	assert.Equal(t, 0, srv.Events().Len(), "rate-limited keys never reach the queue")
}

func TestDeadlineConn_WriteTimesOut(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	c := newDeadlineConn(server, 20*time.Millisecond)
	_, err := c.Write([]byte("nobody is reading"))
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)

	// The failed write closed the connection, so a pending read ends too.
	_, err = server.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	assert.Same(t, server, newDeadlineConn(server, 0))
}
