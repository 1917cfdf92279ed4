package control

import (
	"sync"
	"sync/atomic"

	"github.com/op/go-logging"
)

// connManager owns the set of live connections (§9 design note: the
// event registry holds no back-references of its own; the manager that
// owns connections is what the emitter iterates).
type connManager struct {
	mu       sync.RWMutex
	conns    map[string]*ControlConnection
	interest GlobalEventInterest

	// suppressDepth implements the process-wide log-suppression counter
	// of §5/§7 as a plain atomic int rather than a global, so multiple
	// connManagers (e.g. in tests) don't share state.
	suppressDepth int32

	log *logging.Logger
}

func newConnManager(log *logging.Logger) *connManager {
	return &connManager{
		conns: make(map[string]*ControlConnection),
		log:   log,
	}
}

func (m *connManager) add(c *ControlConnection) {
	m.mu.Lock()
	m.conns[c.ID()] = c
	m.mu.Unlock()
	m.recomputeInterest()
}

func (m *connManager) remove(c *ControlConnection) {
	m.mu.Lock()
	delete(m.conns, c.ID())
	m.mu.Unlock()
	m.recomputeInterest()
}

// recomputeInterest rebuilds GlobalEventInterest from every open,
// authenticated connection, partitioned by its name-format flag. Called
// whenever a connection opens, closes, or changes its subscription or
// name-format flag (§3).
func (m *connManager) recomputeInterest() {
	m.mu.RLock()
	var short, long EventMask
	for _, c := range m.conns {
		c.mu.Lock()
		if c.state == StateOpen {
			if c.useLongNames {
				long |= c.eventMask
			} else {
				short |= c.eventMask
			}
		}
		c.mu.Unlock()
	}
	m.mu.RUnlock()
	m.interest.set(short, long)
}

func (m *connManager) isInteresting(k EventKind) bool {
	return m.interest.isInteresting(k)
}

func (m *connManager) snapshot() []*ControlConnection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ControlConnection, 0, len(m.conns))
	for _, c := range m.conns {
		out = append(out, c)
	}
	return out
}

// pushSuppression/popSuppression implement the scoped-guard pattern of
// §9 for the log-suppression counter: every emission path that could
// itself log wraps its body in push/pop so every exit path releases it.
// An underflow is a bug and panics rather than silently going negative.
func (m *connManager) pushSuppression() {
	atomic.AddInt32(&m.suppressDepth, 1)
}

func (m *connManager) popSuppression() {
	if atomic.AddInt32(&m.suppressDepth, -1) < 0 {
		panic("control: log suppression depth underflow")
	}
}

func (m *connManager) suppressed() bool {
	return atomic.LoadInt32(&m.suppressDepth) > 0
}

// emit is the C6 emission contract. short and long lazily produce the
// format-variant body (with at most one '@'); most event kinds pass the
// same thunk for both. Every event is flushed synchronously as it is
// written: a subscribed controller must see it promptly (§4.6, scenario
// 1), not whenever the bufio.Writer's buffer happens to fill or a later
// reply flushes it. errorClass marks LogErr and STATUS_* "ERR " lines,
// which §4.6 point 4 singles out as needing an eager flush so they are
// not lost if the process dies immediately after; that requirement is
// now subsumed by the unconditional flush below, but the flag is kept
// so callers still say which events are error-class.
func (m *connManager) emit(kind EventKind, errorClass bool, short, long func() string) {
	if !m.isInteresting(kind) {
		return
	}

	needShort := m.interest.maskShortNames.has(kind)
	needLong := m.interest.maskLongNames.has(kind)

	var shortPlain, shortExt, longPlain, longExt string
	if needShort {
		shortPlain, shortExt = splitExtended(short())
	}
	if needLong {
		longPlain, longExt = splitExtended(long())
	}

	for _, c := range m.snapshot() {
		c.mu.Lock()
		if c.state != StateOpen || !c.eventMask.has(kind) {
			c.mu.Unlock()
			continue
		}
		var text string
		switch variantOf(c.useLongNames, c.useExtendedEvents) {
		case variantShortPlain:
			text = shortPlain
		case variantShortExt:
			text = shortExt
		case variantLongPlain:
			text = longPlain
		case variantLongExt:
			text = longExt
		}
		c.rw.WriteString("650 ")
		c.rw.WriteString(text)
		c.rw.WriteString("\r\n")
		c.rw.Flush()
		c.mu.Unlock()
	}
}

// emitMultiLine handles the multi-line escaped-data event bodies
// (AUTHDIR_NEWDESC, NS): "650+KIND\r\n<escaped block>650 OK\r\n".
func (m *connManager) emitMultiLine(kind EventKind, keyword string, body []byte) {
	if !m.isInteresting(kind) {
		return
	}
	for _, c := range m.snapshot() {
		c.mu.Lock()
		if c.state != StateOpen || !c.eventMask.has(kind) {
			c.mu.Unlock()
			continue
		}
		c.rw.WriteString("650+" + keyword + "\r\n")
		writeEscapedData(c.rw, body)
		c.rw.WriteString("650 OK\r\n")
		c.rw.Flush()
		c.mu.Unlock()
	}
}
