package control

import (
	"bufio"
	"encoding/binary"
)

// legacyRejectionFrame is a fixed binary-dialect frame: a 2-byte length,
// a 2-byte type (0xffff, chosen so no real v0 command code collides with
// it), and a body that is also valid ASCII text carrying a migration
// hint, so the same bytes read sensibly whichever dialect the peer
// speaks.
var legacyRejectionBody = []byte("the legacy binary control protocol is no longer supported; upgrade your controller to the text protocol\n")

func legacyRejectionFrame() []byte {
	frame := make([]byte, 4+len(legacyRejectionBody))
	binary.BigEndian.PutUint16(frame[0:2], uint16(len(legacyRejectionBody)))
	binary.BigEndian.PutUint16(frame[2:4], 0xffff)
	copy(frame[4:], legacyRejectionBody)
	return frame
}

// looksLikeLegacyBinary reports whether the first byte received on a
// fresh connection is implausible as the start of a text-dialect command
// word. Text commands always begin with an ASCII letter (or '+' for a
// multi-line command); anything else is either the legacy binary
// dialect's length prefix or garbage, and is rejected the same way.
func looksLikeLegacyBinary(first byte) bool {
	isLetter := (first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z')
	return !isLetter && first != '+'
}

// detectDialect peeks at the first byte of a fresh connection. It must be
// called at most once per connection, before any line has been consumed.
// On a legacy-binary peer it writes the rejection frame and returns
// false; the caller must close the connection. On a text-dialect peer it
// returns true having consumed nothing.
func detectDialect(r *bufio.Reader, w *bufio.Writer) (isText bool, err error) {
	first, err := r.Peek(1)
	if err != nil {
		return false, err
	}
	if looksLikeLegacyBinary(first[0]) {
		if _, werr := w.Write(legacyRejectionFrame()); werr != nil {
			return false, werr
		}
		return false, w.Flush()
	}
	return true, nil
}
