package control

import (
	"bytes"
	"fmt"
)

// maxReplyLineLen bounds a single formatted reply line, per §4.8's
// "bounded internal buffer (>= 10 KiB)". A line that would overflow is
// truncated but always still ends in CRLF.
const maxReplyLineLen = 10 * 1024

// formatReplyLine renders one reply line: "<code><sep><text>\r\n",
// truncating text if necessary so the whole line never exceeds
// maxReplyLineLen while still ending in CRLF.
func formatReplyLine(code int, sep byte, text string) []byte {
	prefix := fmt.Sprintf("%03d%c", code, sep)
	budget := maxReplyLineLen - len(prefix) - 2 // room for CRLF
	if budget < 0 {
		budget = 0
	}
	if len(text) > budget {
		text = text[:budget]
	}
	var buf bytes.Buffer
	buf.WriteString(prefix)
	buf.WriteString(text)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// c.rw is shared between the dispatch goroutine (command replies) and
// whichever goroutine calls the node's Emit* methods (asynchronous
// events); every access goes through c.mu so the two never interleave
// writes to the same bufio.Writer. The exported methods below each take
// the lock for one logical reply; the "Locked" helpers assume the
// caller already holds it, for callers that must hold the lock across
// several writes (e.g. a multi-line GETINFO reply) so an event can't be
// interleaved partway through.

// writeReplyLineRawLocked is writeReplyLineRaw for a caller that already
// holds c.mu.
func (c *ControlConnection) writeReplyLineRawLocked(code int, sep byte, text string) error {
	_, err := c.rw.Write(formatReplyLine(code, sep, text))
	return err
}

// writeReplyLocked is writeReply for a caller that already holds c.mu.
func (c *ControlConnection) writeReplyLocked(code int, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	for i, line := range lines {
		sep := byte('-')
		if i == len(lines)-1 {
			sep = ' '
		}
		if err := c.writeReplyLineRawLocked(code, sep, line); err != nil {
			return err
		}
	}
	return c.rw.Flush()
}

// writeReply writes a batch of reply lines under a single 3-digit code.
// All but the last line use '-' (more lines follow); the last uses ' '.
// A single-line reply is written with ' ' directly. Empty lines slices
// are a programmer error and write nothing.
func (c *ControlConnection) writeReply(code int, lines []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeReplyLocked(code, lines)
}

// writeReplyLineRaw writes a single reply line without flushing, for
// multi-part responses that continue with further raw lines or a
// multi-line escaped-data block (see writeMultiLineValue) before the
// caller flushes once at the end. Takes c.mu for the one write.
func (c *ControlConnection) writeReplyLineRaw(code int, sep byte, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeReplyLineRawLocked(code, sep, text)
}

// writeMultiLineValueLocked is writeMultiLineValue for a caller that
// already holds c.mu.
func (c *ControlConnection) writeMultiLineValueLocked(code int, key string, value []byte) error {
	if err := c.writeReplyLineRawLocked(code, '+', key+"="); err != nil {
		return err
	}
	return writeEscapedData(c.rw, value)
}

// writeMultiLineValue writes a GETINFO-style "250+key=\r\n<escaped
// block>" reply for a value containing embedded LF/CR, per §4.8 and the
// §8 invariant that any such value uses the dot-stuffing-encoded
// multi-line form.
func (c *ControlConnection) writeMultiLineValue(code int, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeMultiLineValueLocked(code, key, value)
}

// flush drains any buffered output immediately, e.g. after
// writeMultiLineValue, which does not flush. Events do not go through it:
// connManager.emit flushes each event itself.
func (c *ControlConnection) flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rw.Flush()
}

// withWriteLock runs fn with c.mu held, for callers that need to issue
// several raw/multi-line writes (and a final flush) as one block so no
// asynchronous event can interleave its own "650 ..." line in the
// middle (e.g. PROTOCOLINFO's fixed reply block, or GETINFO's per-key
// reply lines).
func (c *ControlConnection) withWriteLock(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}
