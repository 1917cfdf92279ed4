package control

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

var testLog = logging.MustGetLogger("control-test")

func newSubscribedConn(mask EventMask, longNames bool) (*ControlConnection, *bytes.Buffer) {
	var out bytes.Buffer
	c := newControlConnection(nil, testLog)
	c.rw = bufio.NewReadWriter(bufio.NewReader(&bytes.Buffer{}), bufio.NewWriter(&out))
	c.state = StateOpen
	c.eventMask = mask
	c.useLongNames = longNames
	return c, &out
}

func TestRecomputeInterestUnion(t *testing.T) {
	m := newConnManager(testLog)
	a, _ := newSubscribedConn(EventMask(0).with(EventCircuitStatus), false)
	b, _ := newSubscribedConn(EventMask(0).with(EventStreamStatus), true)
	m.add(a)
	m.add(b)

	require.True(t, m.isInteresting(EventCircuitStatus))
	require.True(t, m.isInteresting(EventStreamStatus))
	require.False(t, m.isInteresting(EventOrConnStatus))
}

func TestRecomputeInterestIgnoresUnauthenticated(t *testing.T) {
	m := newConnManager(testLog)
	c, _ := newSubscribedConn(EventMask(0).with(EventCircuitStatus), false)
	c.state = StateNeedAuth
	m.add(c)
	require.False(t, m.isInteresting(EventCircuitStatus))
}

func TestRecomputeInterestOnRemove(t *testing.T) {
	m := newConnManager(testLog)
	c, _ := newSubscribedConn(EventMask(0).with(EventCircuitStatus), false)
	m.add(c)
	require.True(t, m.isInteresting(EventCircuitStatus))
	m.remove(c)
	require.False(t, m.isInteresting(EventCircuitStatus))
}

func TestEmitFastPathSkipsFormatterWhenUninterested(t *testing.T) {
	m := newConnManager(testLog)
	called := false
	formatter := func() string {
		called = true
		return "CIRC 1 BUILT"
	}
	m.emit(EventCircuitStatus, false, formatter, formatter)
	require.False(t, called)
}

func TestEmitDeliversToSubscribedConnOnly(t *testing.T) {
	m := newConnManager(testLog)
	subscribed, out := newSubscribedConn(EventMask(0).with(EventCircuitStatus), false)
	unsubscribed, outUnsub := newSubscribedConn(EventMask(0).with(EventStreamStatus), false)
	m.add(subscribed)
	m.add(unsubscribed)

	body := func() string { return "CIRC 1 BUILT" }
	m.emit(EventCircuitStatus, false, body, body)

	require.Equal(t, "650 CIRC 1 BUILT\r\n", out.String())
	require.Equal(t, 0, outUnsub.Len())
}

func TestEmitSelectsVariantPerConn(t *testing.T) {
	m := newConnManager(testLog)
	shortConn, shortOut := newSubscribedConn(EventMask(0).with(EventCircuitStatus), false)
	longConn, longOut := newSubscribedConn(EventMask(0).with(EventCircuitStatus), true)
	m.add(shortConn)
	m.add(longConn)

	short := func() string { return "CIRC 1 BUILT $AAAA@REASON=NONE" }
	long := func() string { return "CIRC 1 BUILT $AAAA~nick@REASON=NONE" }
	m.emit(EventCircuitStatus, false, short, long)

	require.Equal(t, "650 CIRC 1 BUILT $AAAA\r\n", shortOut.String())
	require.Equal(t, "650 CIRC 1 BUILT $AAAA~nick\r\n", longOut.String())
}

func TestSuppressionPushPop(t *testing.T) {
	m := newConnManager(testLog)
	require.False(t, m.suppressed())
	m.pushSuppression()
	require.True(t, m.suppressed())
	m.pushSuppression()
	m.popSuppression()
	require.True(t, m.suppressed())
	m.popSuppression()
	require.False(t, m.suppressed())
}

func TestSuppressionUnderflowPanics(t *testing.T) {
	m := newConnManager(testLog)
	require.Panics(t, func() { m.popSuppression() })
}
