// Package control implements the controller interface subsystem: the
// line-oriented, authenticated, bidirectional command-and-event channel
// between a running node and a local supervising process.
package control

import (
	"bufio"
	"net"
	"sync"

	"github.com/op/go-logging"
	uuid "github.com/satori/go.uuid"
)

// ConnState is the per-connection authentication state.
type ConnState int

const (
	StateNeedAuth ConnState = iota
	StateOpen
)

// EventKind is the stable numeric assignment for asynchronous event kinds.
// The high bit (31) is reserved; if the vocabulary ever exceeds 31 kinds
// the mask representation below must widen from uint32.
type EventKind uint

const (
	EventCircuitStatus EventKind = iota
	EventStreamStatus
	EventOrConnStatus
	EventBandwidthUsed
	EventLogDebug
	EventLogInfo
	EventLogNotice
	EventLogWarn
	EventLogErr
	EventNewDescriptor
	EventAddressMapped
	EventDescriptorChanged
	EventStatusClient
	EventStatusServer
	EventStatusGeneral
	EventGuardStatus
	EventStreamBandwidth
	EventAuthDirNewDescs
	EventNetworkStatus

	numEventKinds
)

// eventNamesShort maps each SETEVENTS wire token to its EventKind; the
// same tokens are used whichever name format a connection has chosen.
var eventNamesShort = map[string]EventKind{
	"CIRC":            EventCircuitStatus,
	"STREAM":          EventStreamStatus,
	"ORCONN":          EventOrConnStatus,
	"BW":              EventBandwidthUsed,
	"DEBUG":           EventLogDebug,
	"INFO":            EventLogInfo,
	"NOTICE":          EventLogNotice,
	"WARN":            EventLogWarn,
	"ERR":             EventLogErr,
	"NEWDESC":         EventNewDescriptor,
	"ADDRMAP":         EventAddressMapped,
	"DESCCHANGED":     EventDescriptorChanged,
	"STATUS_CLIENT":   EventStatusClient,
	"STATUS_SERVER":   EventStatusServer,
	"STATUS_GENERAL":  EventStatusGeneral,
	"GUARD":           EventGuardStatus,
	"STREAM_BW":       EventStreamBandwidth,
	"AUTHDIR_NEWDESC": EventAuthDirNewDescs,
	"NS":              EventNetworkStatus,
}

func eventKindName(k EventKind) string {
	for name, kind := range eventNamesShort {
		if kind == k {
			return name
		}
	}
	return ""
}

// EventMask is a bit-set over EventKind, zero for every bit beyond
// numEventKinds.
type EventMask uint32

func (m EventMask) has(k EventKind) bool {
	return m&(1<<uint(k)) != 0
}

func (m EventMask) with(k EventKind) EventMask {
	return m | (1 << uint(k))
}

// ControlConnection is one connected controller.
type ControlConnection struct {
	mu sync.Mutex

	id   uuid.UUID
	conn net.Conn
	rw   *bufio.ReadWriter

	state ConnState

	eventMask         EventMask
	useLongNames      bool
	useExtendedEvents bool
	haveSentProtoInfo bool

	// incomingCmd is not used by the reader: readLine and
	// readEscapedData keep their own accumulation buffers.
	incomingCmd []byte

	closed bool
	log    *logging.Logger
}

// MaxIncomingCmdSize bounds what readLine and readEscapedData accumulate;
// a single logical unit (line, or multi-line payload body) that would
// exceed this is a protocol error.
const MaxIncomingCmdSize = 1 << 20 // 1 MiB

func newControlConnection(conn net.Conn, log *logging.Logger) *ControlConnection {
	return &ControlConnection{
		id:    uuid.NewV4(),
		conn:  conn,
		rw:    bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
		state: StateNeedAuth,
		log:   log,
	}
}

func (c *ControlConnection) ID() string { return c.id.String() }

// AuthConfig is process-wide, read-only from the core's perspective.
type AuthConfig struct {
	CookieEnabled bool
	CookieValue   []byte
	CookiePath    string

	// HashedPasswords is an ordered set of opaque (salt, digest, iterations)
	// tuples decoded from configuration. The binary salt/specifier format
	// is treated as an opaque contract (see DESIGN.md, Open Question 1).
	HashedPasswords []HashedPassword
}

// HashedPassword is one configured salted-password entry.
type HashedPassword struct {
	Salt       []byte
	Iterations int
	Digest     []byte
}

func (a *AuthConfig) anyConfigured() bool {
	return a.CookieEnabled || len(a.HashedPasswords) > 0
}

// GlobalEventInterest is derived from the union over all open connections.
type GlobalEventInterest struct {
	mu             sync.RWMutex
	maskShortNames EventMask
	maskLongNames  EventMask
}

func (g *GlobalEventInterest) maskAny() EventMask {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maskShortNames | g.maskLongNames
}

func (g *GlobalEventInterest) isInteresting(k EventKind) bool {
	return g.maskAny().has(k)
}

func (g *GlobalEventInterest) set(short, long EventMask) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.maskShortNames = short
	g.maskLongNames = long
}
