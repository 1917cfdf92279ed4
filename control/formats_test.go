package control

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitExtendedNoMarker(t *testing.T) {
	plain, extended := splitExtended("CIRC 1 BUILT")
	require.Equal(t, "CIRC 1 BUILT", plain)
	require.Equal(t, "CIRC 1 BUILT", extended)
}

func TestSplitExtendedWithMarker(t *testing.T) {
	plain, extended := splitExtended("CIRC 1 BUILT@REASON=FOO")
	require.Equal(t, "CIRC 1 BUILT", plain)
	require.Equal(t, "CIRC 1 BUILT REASON=FOO", extended)
}

func TestSplitExtendedMarkerAtStart(t *testing.T) {
	plain, extended := splitExtended("@REASON=FOO")
	require.Equal(t, "", plain)
	require.Equal(t, " REASON=FOO", extended)
}

func TestVariantOf(t *testing.T) {
	require.Equal(t, variantShortPlain, variantOf(false, false))
	require.Equal(t, variantShortExt, variantOf(false, true))
	require.Equal(t, variantLongPlain, variantOf(true, false))
	require.Equal(t, variantLongExt, variantOf(true, true))
}

func TestFmtCirc(t *testing.T) {
	body := fmtCirc(7, "BUILT", "$AAAA~nick", "NONE", "")
	plain, extended := splitExtended(body)
	require.Equal(t, "CIRC 7 BUILT $AAAA~nick", plain)
	require.Equal(t, "CIRC 7 BUILT $AAAA~nick REASON=NONE", extended)
}

func TestFmtCircWithRemoteReason(t *testing.T) {
	body := fmtCirc(7, "CLOSED", "", "FINISHED", "DONE")
	_, extended := splitExtended(body)
	require.Equal(t, "CIRC 7 CLOSED REASON=FINISHED REMOTE_REASON=DONE", extended)
}

func TestFmtStream(t *testing.T) {
	body := fmtStream(3, "SUCCEEDED", 7, "1.2.3.4:443", "REASON=DONE", "")
	plain, extended := splitExtended(body)
	require.Equal(t, "STREAM 3 SUCCEEDED 7 1.2.3.4:443", plain)
	require.Equal(t, "STREAM 3 SUCCEEDED 7 1.2.3.4:443 REASON=DONE", extended)
}

func TestFmtOrConnWithNCircs(t *testing.T) {
	body := fmtOrConn("$AAAA", "CONNECTED", "DONE", 3, true)
	plain, extended := splitExtended(body)
	require.Equal(t, "ORCONN $AAAA CONNECTED", plain)
	require.Equal(t, "ORCONN $AAAA CONNECTED REASON=DONE NCIRCS=3", extended)
}

func TestFmtBW(t *testing.T) {
	require.Equal(t, "BW 100 200", fmtBW(100, 200))
}

func TestFmtNewDesc(t *testing.T) {
	require.Equal(t, "NEWDESC $AAAA $BBBB", fmtNewDesc([]string{"$AAAA", "$BBBB"}))
}

func TestFmtGuard(t *testing.T) {
	require.Equal(t, "GUARD ENTRY $AAAA UP", fmtGuard(true, "AAAA", "UP"))
	require.Equal(t, "GUARD ENTRY AAAA UP", fmtGuard(false, "AAAA", "UP"))
}

func TestFmtStatus(t *testing.T) {
	body := fmtStatus("GENERAL", "ERR", "BUG", map[string]string{"REASON": `"oops"`})
	require.Equal(t, `STATUS_GENERAL ERR BUG REASON="oops"`, body)
}

func TestFmtLogStripsNewlines(t *testing.T) {
	require.Equal(t, "NOTICE a  b", fmtLog("NOTICE", "a\r\nb"))
}
