package broadcast

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestMultiWriter_DeliversToEverySink(t *testing.T) {
	m := NewMultiWriter(nil)
	a, b := &lockedBuffer{}, &lockedBuffer{}
	m.Add(NewSink(a))
	m.Add(NewSink(b))

	n, err := m.Write([]byte("menu"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "menu", a.String())
	assert.Equal(t, "menu", b.String())
}

func TestMultiWriter_DoubleAddDeliversOnce(t *testing.T) {
	m := NewMultiWriter(nil)
	buf := &lockedBuffer{}
	s := NewSink(buf)
	m.Add(s)
	m.Add(s)

	_, _ = m.Write([]byte("x"))
	assert.Equal(t, "x", buf.String())
	assert.Equal(t, 1, m.Len())
}

func TestMultiWriter_RemoveUnknownIsNoop(t *testing.T) {
	m := NewMultiWriter(nil)
	known := NewSink(&lockedBuffer{})
	m.Add(known)

	m.Remove(NewSink(&lockedBuffer{}))
	m.Remove(known)
	m.Remove(known)

	assert.Equal(t, 0, m.Len())
	_, err := m.Write([]byte("nobody"))
	assert.NoError(t, err)
}

func TestMultiWriter_FailingSinkDoesNotStopOthers(t *testing.T) {
	m := NewMultiWriter(nil)
	var failures int
	m.OnError = func(error) { failures++ }

	good := &lockedBuffer{}
	bad := NewSink(failingWriter{})
	m.Add(bad)
	m.Add(NewSink(good))

	n, err := m.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", good.String())
	assert.Equal(t, 1, failures)
	assert.True(t, m.Contains(bad), "failing sink is removed by its owner, not by Write")
}

func TestMultiWriter_RegistryMatchesNetAdds(t *testing.T) {
	m := NewMultiWriter(nil)
	sinks := make([]*Sink, 8)
	for i := range sinks {
		sinks[i] = NewSink(&lockedBuffer{})
	}

	rng := rand.New(rand.NewSource(1))
	want := map[*Sink]bool{}
	for i := 0; i < 500; i++ {
		s := sinks[rng.Intn(len(sinks))]
		if rng.Intn(2) == 0 {
			m.Add(s)
			want[s] = true
		} else {
			m.Remove(s)
			delete(want, s)
		}
	}

	assert.Equal(t, len(want), m.Len())
	for _, s := range sinks {
		assert.Equal(t, want[s], m.Contains(s))
	}
}

func TestMultiWriter_ConcurrentAddRemoveWrite(t *testing.T) {
	m := NewMultiWriter(nil)
	stable := &lockedBuffer{}
	m.Add(NewSink(stable))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := NewSink(&lockedBuffer{})
				m.Add(s)
				_, _ = m.Write([]byte("."))
				m.Remove(s)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Len())
	assert.Len(t, stable.String(), 1000)
}

func TestSend_ReturnsWriterError(t *testing.T) {
	err := Send(NewSink(failingWriter{}), []byte("x"))
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
}
