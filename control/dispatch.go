package control

import (
	"errors"
	"strings"
)

// Response codes, §6.
const (
	codeOK                     = 250
	codeActionNotCarriedOut    = 251
	codeUnrecognizedCommand    = 510
	codeObsoleteCommand        = 511
	codeSyntaxError            = 512
	codeUnacceptableValue      = 513
	codeAuthRequired           = 514
	codeAuthFailed             = 515
	codeInternalError          = 551
	codeUnrecognizedEntity     = 552
	codeTransitionOrUnable     = 553
	codeDescriptorParseFailure = 554
	codeNotManaged             = 555
)

// errCloseConnection is returned by a handler to signal the dispatcher
// that, having already written any needed reply, the connection must now
// be closed (QUIT, auth failure, or a pre-auth non-initial command).
var errCloseConnection = errors.New("control: close connection")

// initialCommands is the set of commands accepted while NEEDAUTH (§4.3).
var initialCommands = map[string]bool{
	"AUTHENTICATE": true,
	"QUIT":         true,
	"PROTOCOLINFO": true,
}

type handlerFunc func(s *Server, c *ControlConnection, args string, body []byte) error

var commandTable map[string]handlerFunc

func init() {
	commandTable = map[string]handlerFunc{
		"AUTHENTICATE":      handleAuthenticate,
		"QUIT":              handleQuit,
		"PROTOCOLINFO":      handleProtocolInfo,
		"SETCONF":           handleSetConf,
		"RESETCONF":         handleResetConf,
		"GETCONF":           handleGetConf,
		"SAVECONF":          handleSaveConf,
		"SETEVENTS":         handleSetEvents,
		"SIGNAL":            handleSignal,
		"MAPADDRESS":        handleMapAddress,
		"GETINFO":           handleGetInfo,
		"EXTENDCIRCUIT":     handleExtendCircuit,
		"SETCIRCUITPURPOSE": handleSetCircuitPurpose,
		"ATTACHSTREAM":      handleAttachStream,
		"POSTDESCRIPTOR":    handlePostDescriptor,
		"REDIRECTSTREAM":    handleRedirectStream,
		"CLOSESTREAM":       handleCloseStream,
		"CLOSECIRCUIT":      handleCloseCircuit,
		"RESOLVE":           handleResolve,
		"USEFEATURE":        handleUseFeature,
		"SETROUTERPURPOSE":  handleObsolete,
	}
}

// dispatch is the command dispatcher (C5): case-insensitive lookup, the
// initial-command gate, and invocation of the per-command handler.
func (s *Server) dispatch(c *ControlConnection, cmdWord, args string, body []byte) error {
	upper := strings.ToUpper(cmdWord)

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	if state == StateNeedAuth && !initialCommands[upper] {
		c.writeReply(codeAuthRequired, []string{"Authentication required."})
		return errCloseConnection
	}

	handler, ok := commandTable[upper]
	if !ok {
		c.writeReply(codeUnrecognizedCommand, []string{`Unrecognized command "` + cmdWord + `"`})
		return nil
	}

	err := handler(s, c, args, body)
	if err == errCloseConnection {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		return err
	}
	return nil
}

func handleObsolete(s *Server, c *ControlConnection, args string, body []byte) error {
	c.writeReply(codeObsoleteCommand, []string{"SETROUTERPURPOSE is obsolete"})
	return nil
}

// splitArgs splits a whitespace-separated argument list, collapsing runs
// of spaces/tabs, honoring neither quoting nor escaping (commands that
// need quoted values parse args themselves, e.g. SETCONF).
func splitArgs(s string) []string {
	return strings.Fields(s)
}
