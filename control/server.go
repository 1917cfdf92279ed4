package control

import (
	"io"
	"net"
	"strings"

	"github.com/op/go-logging"
)

// Node bundles the external-collaborator facade (C10) plus the
// process-wide auth configuration the core needs.
type Node struct {
	Auth *AuthConfig

	Config    ConfigStore
	Circuits  CircuitManager
	Streams   StreamManager
	Routers   RouterStore
	AddrMap   AddressMap
	Accounting Accounting
	Guards    EntryGuards
	GeoIP     GeoIP
	DNS       DNSResolver
	Signals   SignalHandler
	Log       LogCollaborator

	Version string
}

// Server is the connection manager and command dispatcher: it accepts
// connections, runs each through the text-dialect state machine, and
// fans out asynchronous events to subscribers.
type Server struct {
	node *Node
	mgr  *connManager
	lb   *logBridge
	log  *logging.Logger

	getinfo *getInfoRegistry

	listenerAddr string
}

// NewServer wires a Node's collaborators into a running control server.
func NewServer(node *Node, log *logging.Logger) *Server {
	mgr := newConnManager(log)
	s := &Server{
		node: node,
		mgr:  mgr,
		lb:   newLogBridge(mgr, node.Log),
		log:  log,
	}
	s.getinfo = newGetInfoRegistry(s)
	return s
}

// HandleLog is the process-wide log callback the daemon should register
// with its logging subsystem (C7).
func (s *Server) HandleLog(level logging.Level, domain, message string, isBug bool) {
	s.lb.HandleLog(level, domain, message, isBug)
}

// Emit* methods let the rest of the node push asynchronous events
// through the fan-out (C6) without depending on connection internals.

func (s *Server) EmitBandwidth(read, written int64) {
	body := func() string { return fmtBW(read, written) }
	s.mgr.emit(EventBandwidthUsed, false, body, body)
}

func (s *Server) EmitStreamBandwidth() {
	if !s.mgr.isInteresting(EventStreamBandwidth) {
		return
	}
	for id, rw := range s.node.Streams.BandwidthSnapshot() {
		if rw[0] == 0 && rw[1] == 0 {
			continue
		}
		read, written := rw[0], rw[1]
		body := func() string { return fmtStreamBW(id, read, written) }
		s.mgr.emit(EventStreamBandwidth, false, body, body)
	}
}

func (s *Server) EmitCircuitStatus(id int, status, path, reason, remoteReason string) {
	body := func() string { return fmtCirc(id, status, path, reason, remoteReason) }
	s.mgr.emit(EventCircuitStatus, false, body, body)
}

func (s *Server) EmitStreamStatus(id int, status string, circID int, addrPort, reasonBlock, sourceBlock string) {
	body := func() string { return fmtStream(id, status, circID, addrPort, reasonBlock, sourceBlock) }
	s.mgr.emit(EventStreamStatus, false, body, body)
}

func (s *Server) EmitOrConnStatus(name, status, reason string, ncircs int, hasNCircs bool) {
	body := func() string { return fmtOrConn(name, status, reason, ncircs, hasNCircs) }
	s.mgr.emit(EventOrConnStatus, false, body, body)
}

func (s *Server) EmitNewDescriptor(shortIDs, longIDs []string) {
	s.mgr.emit(EventNewDescriptor, false,
		func() string { return fmtNewDesc(shortIDs) },
		func() string { return fmtNewDesc(longIDs) })
}

func (s *Server) EmitAddressMapped(from, to, expiry, errMsg string) {
	body := func() string { return fmtAddrMap(from, to, expiry, errMsg) }
	s.mgr.emit(EventAddressMapped, false, body, body)
}

func (s *Server) EmitDescriptorChanged() {
	body := func() string { return fmtDescChanged() }
	s.mgr.emit(EventDescriptorChanged, false, body, body)
}

func (s *Server) EmitGuardStatus(hexID, nickname, status string) {
	s.mgr.emit(EventGuardStatus, false,
		func() string { return fmtGuard(true, hexID, status) },
		func() string { return fmtGuard(false, nickname, status) })
}

func (s *Server) EmitStatus(kind, severity, keyword string, kv map[string]string) {
	var eventKind EventKind
	switch kind {
	case "CLIENT":
		eventKind = EventStatusClient
	case "SERVER":
		eventKind = EventStatusServer
	default:
		eventKind = EventStatusGeneral
	}
	body := func() string { return fmtStatus(kind, severity, keyword, kv) }
	s.mgr.emit(eventKind, severity == "ERR", body, body)
}

func (s *Server) EmitAuthDirNewDescs(body []byte) {
	s.mgr.emitMultiLine(EventAuthDirNewDescs, "AUTHDIR_NEWDESC", body)
}

func (s *Server) EmitNetworkStatus(body []byte) {
	s.mgr.emitMultiLine(EventNetworkStatus, "NS", body)
}

// Serve accepts connections from listener until it returns an error
// (typically because the listener was closed).
func (s *Server) Serve(listener net.Listener) error {
	s.listenerAddr = listener.Addr().String()
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(netConn net.Conn) {
	defer netConn.Close()

	c := newControlConnection(netConn, s.log)
	s.mgr.add(c)
	defer s.mgr.remove(c)

	if uid, ok := peerUID(netConn); ok {
		s.log.Debug("control connection ", c.ID(), " peer uid ", uid, " same-user=", peerIsSameUser(netConn))
	}

	isText, err := detectDialect(c.rw.Reader, c.rw.Writer)
	if err != nil {
		return
	}
	if !isText {
		return
	}

	for {
		if err := s.readAndDispatch(c); err != nil {
			if err != io.EOF {
				s.log.Debug("control connection ", c.ID(), " closing: ", err)
			}
			return
		}
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
	}
}

func (s *Server) readAndDispatch(c *ControlConnection) error {
	line, err := readLine(c.rw.Reader, MaxIncomingCmdSize)
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}

	cmdWord, rest := splitCommandWord(line)
	multiLine := strings.HasPrefix(cmdWord, "+")
	if multiLine {
		cmdWord = cmdWord[1:]
	}

	var body []byte
	if multiLine {
		body, err = readEscapedData(c.rw.Reader, MaxIncomingCmdSize)
		if err != nil {
			return err
		}
	}

	return s.dispatch(c, cmdWord, rest, body)
}

// splitCommandWord splits "CMD rest-of-line" on the first run of
// whitespace; further whitespace between arguments is tolerated by each
// handler's own argument parsing.
func splitCommandWord(line string) (cmd, rest string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i+1:], " \t")
}
