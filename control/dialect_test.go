package control

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLooksLikeLegacyBinary(t *testing.T) {
	require.False(t, looksLikeLegacyBinary('A'))
	require.False(t, looksLikeLegacyBinary('a'))
	require.False(t, looksLikeLegacyBinary('+'))
	require.True(t, looksLikeLegacyBinary(0x00))
	require.True(t, looksLikeLegacyBinary('1'))
}

func TestDetectDialectText(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("AUTHENTICATE\r\n"))
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	isText, err := detectDialect(r, w)
	require.NoError(t, err)
	require.True(t, isText)
	require.Equal(t, 0, out.Len())
}

func TestDetectDialectLegacyRejected(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte{0x00, 0x01, 0x02}))
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	isText, err := detectDialect(r, w)
	require.NoError(t, err)
	require.False(t, isText)
	require.True(t, out.Len() > 0)
}
