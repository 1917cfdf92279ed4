package control

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteUnquoteRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hunter2",
		`has "quotes" inside`,
		`trailing backslash\`,
		"multi\nline\ninput",
	}
	for _, c := range cases {
		quoted := quote(c)
		decoded, rest, err := unquote(quoted)
		require.NoError(t, err)
		require.Equal(t, "", rest)
		require.Equal(t, c, decoded)
	}
}

func TestUnquoteRejectsUnterminated(t *testing.T) {
	_, _, err := unquote(`"no closing quote`)
	require.Error(t, err)
}

func TestUnquoteLeavesRemainder(t *testing.T) {
	decoded, rest, err := unquote(`"abc" trailing text`)
	require.NoError(t, err)
	require.Equal(t, "abc", decoded)
	require.Equal(t, " trailing text", rest)
}

func TestEscapedDataRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("single line\n"),
		[]byte("line one\nline two\n"),
		[]byte(".dot-leading line\nregular line\n"),
		[]byte(""),
	}
	for _, body := range cases {
		var buf bytes.Buffer
		require.NoError(t, writeEscapedData(&buf, body))
		r := bufio.NewReader(&buf)
		decoded, err := readEscapedData(r, 1<<20)
		require.NoError(t, err)
		require.Equal(t, string(body), string(decoded))
	}
}

func TestReadLineStripsCRLF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("hello\r\nworld\n"))
	line, err := readLine(r, 1024)
	require.NoError(t, err)
	require.Equal(t, "hello", line)
	line, err = readLine(r, 1024)
	require.NoError(t, err)
	require.Equal(t, "world", line)
}

func TestReadLineOversize(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(strings.Repeat("a", 100) + "\n"))
	_, err := readLine(r, 10)
	require.Equal(t, ErrOversizeLine, err)
}
