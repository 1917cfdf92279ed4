package control

import (
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

type fakeLogCollaborator struct {
	min, max logging.Level
	calls    int
}

func (f *fakeLogCollaborator) SetDeliveryRange(min, max logging.Level) {
	f.min, f.max = min, max
	f.calls++
}

func TestRecomputeSeverityRangeNoSubscribers(t *testing.T) {
	m := newConnManager(testLog)
	collab := &fakeLogCollaborator{}
	b := newLogBridge(m, collab)
	b.RecomputeSeverityRange()
	require.Equal(t, 1, collab.calls)
	require.True(t, collab.min > collab.max)
}

func TestRecomputeSeverityRangeSingleKind(t *testing.T) {
	m := newConnManager(testLog)
	conn, _ := newSubscribedConn(EventMask(0).with(EventLogWarn), false)
	m.add(conn)
	collab := &fakeLogCollaborator{}
	b := newLogBridge(m, collab)
	b.RecomputeSeverityRange()
	require.Equal(t, logging.WARNING, collab.min)
	require.Equal(t, logging.WARNING, collab.max)
}

func TestRecomputeSeverityRangeWidensForStatusGeneral(t *testing.T) {
	m := newConnManager(testLog)
	conn, _ := newSubscribedConn(EventMask(0).with(EventStatusGeneral).with(EventLogErr), false)
	m.add(conn)
	collab := &fakeLogCollaborator{}
	b := newLogBridge(m, collab)
	b.RecomputeSeverityRange()
	require.Equal(t, logging.CRITICAL, collab.min)
	require.Equal(t, logging.NOTICE, collab.max)
}

func TestRecomputeSeverityRangeSpansMinToMax(t *testing.T) {
	m := newConnManager(testLog)
	conn, _ := newSubscribedConn(EventMask(0).with(EventLogErr).with(EventLogDebug), false)
	m.add(conn)
	collab := &fakeLogCollaborator{}
	b := newLogBridge(m, collab)
	b.RecomputeSeverityRange()
	require.Equal(t, logging.ERROR, collab.min)
	require.Equal(t, logging.DEBUG, collab.max)
}

func TestHandleLogSuppressedDoesNothing(t *testing.T) {
	m := newConnManager(testLog)
	conn, out := newSubscribedConn(EventMask(0).with(EventLogNotice), false)
	m.add(conn)
	b := newLogBridge(m, &fakeLogCollaborator{})
	m.pushSuppression()
	b.HandleLog(logging.NOTICE, "test", "hello", false)
	require.Equal(t, 0, out.Len())
}

func TestHandleLogDeliversSubscribedSeverity(t *testing.T) {
	m := newConnManager(testLog)
	conn, out := newSubscribedConn(EventMask(0).with(EventLogNotice), false)
	m.add(conn)
	b := newLogBridge(m, &fakeLogCollaborator{})
	b.HandleLog(logging.NOTICE, "test", "hello", false)
	require.Equal(t, "650 NOTICE hello\r\n", out.String())
}

func TestHandleLogBugEmitsStatusGeneral(t *testing.T) {
	m := newConnManager(testLog)
	conn, out := newSubscribedConn(EventMask(0).with(EventStatusGeneral), false)
	m.add(conn)
	b := newLogBridge(m, &fakeLogCollaborator{})
	b.HandleLog(logging.ERROR, "test", "assertion failed", true)
	require.Contains(t, out.String(), "650 STATUS_GENERAL ERR BUG")
}
