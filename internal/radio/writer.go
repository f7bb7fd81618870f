package radio

import (
	"net"
	"time"
)

// deadlineConn bounds every write so a stalled peer fails its own write
// instead of holding up the broadcast fan-out. A failed write closes the
// connection: the output may be cut mid-frame, and the session's blocked
// read then fails so the session tears itself down.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func newDeadlineConn(conn net.Conn, timeout time.Duration) net.Conn {
	if timeout <= 0 {
		return conn
	}
	return &deadlineConn{Conn: conn, timeout: timeout}
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		_ = c.Conn.Close()
		return 0, err
	}
	n, err := c.Conn.Write(p)
	if err != nil {
		_ = c.Conn.Close()
	}
	return n, err
}
