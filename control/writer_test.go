package control

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestConn() (*ControlConnection, *bytes.Buffer) {
	var out bytes.Buffer
	c := &ControlConnection{
		rw: bufio.NewReadWriter(bufio.NewReader(&bytes.Buffer{}), bufio.NewWriter(&out)),
	}
	return c, &out
}

func TestFormatReplyLineSingle(t *testing.T) {
	line := formatReplyLine(250, ' ', "OK")
	require.Equal(t, "250 OK\r\n", string(line))
}

func TestFormatReplyLineTruncatesOverBudget(t *testing.T) {
	line := formatReplyLine(250, ' ', strings.Repeat("a", maxReplyLineLen*2))
	require.True(t, len(line) <= maxReplyLineLen)
	require.True(t, strings.HasSuffix(string(line), "\r\n"))
}

func TestWriteReplySingleLine(t *testing.T) {
	c, out := newTestConn()
	require.NoError(t, c.writeReply(250, []string{"OK"}))
	require.Equal(t, "250 OK\r\n", out.String())
}

func TestWriteReplyMultipleLines(t *testing.T) {
	c, out := newTestConn()
	require.NoError(t, c.writeReply(250, []string{"first", "second", "third"}))
	require.Equal(t, "250-first\r\n250-second\r\n250 third\r\n", out.String())
}

func TestWriteReplyEmptyIsNoop(t *testing.T) {
	c, out := newTestConn()
	require.NoError(t, c.writeReply(250, nil))
	require.Equal(t, 0, out.Len())
}

func TestWriteMultiLineValue(t *testing.T) {
	c, out := newTestConn()
	require.NoError(t, c.writeMultiLineValue(250, "info/key", []byte("line one\nline two\n")))
	require.NoError(t, c.flush())
	require.Equal(t, "250+info/key=\r\nline one\r\nline two\r\n.\r\n", out.String())
}
