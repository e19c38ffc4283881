package testutil

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"regexp"
	"strings"
	"testing"
	"time"
)

const (
	iac = 255
	sb  = 250
	se  = 240
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// TelnetClient dials a terminal server and reads its output as plain text,
// with option negotiation and ANSI color codes removed.
type TelnetClient struct {
	conn    net.Conn
	reader  *bufio.Reader
	t       *testing.T
	pending strings.Builder
}

// NewTelnetClient dials addr and returns a test client closed at cleanup.
//
// Precondition: addr must be a "host:port" with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}
	t.Cleanup(func() { _ = conn.Close() })

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, reader: bufio.NewReader(conn), t: t}
}

// ReadUntil reads until substr appears in the cleaned output and returns the
// text up to and including the match. Text after the match is kept for the
// next call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns output containing substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	tmp := make([]byte, 1024)
	for {
		text := c.pending.String()
		if i := strings.Index(text, substr); i >= 0 {
			end := i + len(substr)
			c.pending.Reset()
			c.pending.WriteString(text[end:])
			return text[:end]
		}
		n, err := c.reader.Read(tmp)
		if n > 0 {
			c.pending.WriteString(clean(tmp[:n]))
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, c.pending.String(), err)
		}
	}
}

// Send writes text followed by CR LF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	_ = c.conn.Close()
}

// clean drops IAC command sequences, carriage returns and ANSI escapes.
// Sequences split across reads are not reassembled.
func clean(b []byte) string {
	var out bytes.Buffer
	for i := 0; i < len(b); i++ {
		switch {
		case b[i] == iac && i+1 < len(b) && b[i+1] == sb:
			for i < len(b) && !(b[i] == se && b[i-1] == iac) {
				i++
			}
		case b[i] == iac:
			i += 2
		case b[i] == '\r':
		default:
			out.WriteByte(b[i])
		}
	}
	return ansiPattern.ReplaceAllString(out.String(), "")
}
