package control

import (
	"strconv"
	"strings"
)

func handleExtendCircuit(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) < 1 {
		c.writeReply(codeSyntaxError, []string{"EXTENDCIRCUIT requires a circuit id"})
		return nil
	}

	idTok := parts[0]
	purpose := "general"
	var routers []string
	if len(parts) >= 2 {
		routers = strings.Split(parts[1], ",")
	}
	for _, p := range parts[2:] {
		if strings.HasPrefix(strings.ToUpper(p), "PURPOSE=") {
			purpose = p[len("purpose="):]
		}
	}

	if idTok == "0" {
		id, err := s.node.Circuits.New(purpose)
		if err != nil {
			c.writeReply(codeInternalError, []string{"Could not create circuit: " + err.Error()})
			return nil
		}
		for _, r := range routers {
			if r == "" {
				continue
			}
			if err := s.node.Circuits.Extend(id, r); err != nil {
				c.writeReply(codeUnrecognizedEntity, []string{"No such router \"" + r + "\""})
				return nil
			}
		}
		s.EmitCircuitStatus(id, "LAUNCHED", "", "", "")
		c.writeReply(codeOK, []string{"EXTENDED " + strconv.Itoa(id)})
		return nil
	}

	id, err := strconv.Atoi(idTok)
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid circuit id"})
		return nil
	}
	info, ok := s.node.Circuits.Lookup(id)
	if !ok {
		c.writeReply(codeUnrecognizedEntity, []string{"No such circuit"})
		return nil
	}
	if !info.Open {
		c.writeReply(codeNotManaged, []string{"Circuit is not open"})
		return nil
	}
	for _, r := range routers {
		if r == "" {
			continue
		}
		if err := s.node.Circuits.Extend(id, r); err != nil {
			c.writeReply(codeUnrecognizedEntity, []string{"No such router \"" + r + "\""})
			return nil
		}
	}
	c.writeReply(codeOK, []string{"EXTENDED " + strconv.Itoa(id)})
	return nil
}

func handleSetCircuitPurpose(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) < 2 {
		c.writeReply(codeSyntaxError, []string{"SETCIRCUITPURPOSE requires a circuit id and purpose"})
		return nil
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid circuit id"})
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(parts[1]), "purpose=") {
		c.writeReply(codeSyntaxError, []string{"Expected purpose=..."})
		return nil
	}
	purpose := parts[1][len("purpose="):]
	if err := s.node.Circuits.SetPurpose(id, purpose); err != nil {
		c.writeReply(codeUnrecognizedEntity, []string{"No such circuit"})
		return nil
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func handleCloseCircuit(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) < 1 {
		c.writeReply(codeSyntaxError, []string{"CLOSECIRCUIT requires a circuit id"})
		return nil
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid circuit id"})
		return nil
	}
	ifUnused := false
	for _, flag := range parts[1:] {
		if strings.EqualFold(flag, "IfUnused") {
			ifUnused = true
		}
	}
	const reasonRequested = 3
	if _, err := s.node.Circuits.Close(id, ifUnused, reasonRequested); err != nil {
		c.writeReply(codeUnrecognizedEntity, []string{"No such circuit"})
		return nil
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func handleAttachStream(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) < 2 {
		c.writeReply(codeSyntaxError, []string{"ATTACHSTREAM requires a stream id and circuit id"})
		return nil
	}
	streamID, err := strconv.Atoi(parts[0])
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid stream id"})
		return nil
	}
	circID, err := strconv.Atoi(parts[1])
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid circuit id"})
		return nil
	}
	hop := 0
	for _, p := range parts[2:] {
		if strings.HasPrefix(strings.ToUpper(p), "HOP=") {
			hop, err = strconv.Atoi(p[len("HOP="):])
			if err != nil {
				c.writeReply(codeSyntaxError, []string{"Invalid HOP value"})
				return nil
			}
		}
	}

	stream, ok := s.node.Streams.Lookup(streamID)
	if !ok {
		c.writeReply(codeUnrecognizedEntity, []string{"No such stream"})
		return nil
	}
	if !isAttachableState(stream.State) {
		c.writeReply(codeNotManaged, []string{"Stream is not in an attachable state"})
		return nil
	}

	const reasonTimeout = 1
	if stream.CircuitID != 0 {
		_ = s.node.Streams.Detach(streamID, reasonTimeout)
	}

	if circID != 0 {
		info, ok := s.node.Circuits.Lookup(circID)
		if !ok {
			c.writeReply(codeUnrecognizedEntity, []string{"No such circuit"})
			return nil
		}
		if !info.Open {
			c.writeReply(codeNotManaged, []string{"Circuit is not open"})
			return nil
		}
		minLen := 2
		if hop > minLen {
			minLen = hop
		}
		if len(info.Path) < minLen {
			c.writeReply(codeNotManaged, []string{"Circuit is too short"})
			return nil
		}
	}

	if err := s.node.Streams.AttachToCircuit(streamID, circID, hop); err != nil {
		c.writeReply(codeInternalError, []string{err.Error()})
		return nil
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func isAttachableState(state string) bool {
	switch state {
	case "NEW", "NEWRESOLVE", "REMAP":
		return true
	default:
		return false
	}
}
