package control

import "strconv"

func handleRedirectStream(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) < 2 {
		c.writeReply(codeSyntaxError, []string{"REDIRECTSTREAM requires a stream id and address"})
		return nil
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid stream id"})
		return nil
	}
	port := 0
	if len(parts) >= 3 {
		port, err = strconv.Atoi(parts[2])
		if err != nil {
			c.writeReply(codeSyntaxError, []string{"Invalid port"})
			return nil
		}
	}
	if err := s.node.Streams.Redirect(id, parts[1], port); err != nil {
		c.writeReply(codeUnrecognizedEntity, []string{"No such stream"})
		return nil
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func handleCloseStream(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) < 2 {
		c.writeReply(codeSyntaxError, []string{"CLOSESTREAM requires a stream id and reason"})
		return nil
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		c.writeReply(codeSyntaxError, []string{"Invalid stream id"})
		return nil
	}
	reason, err := strconv.Atoi(parts[1])
	if err != nil || reason < 0 || reason > 255 {
		c.writeReply(codeSyntaxError, []string{"Invalid reason"})
		return nil
	}
	if err := s.node.Streams.Close(id, byte(reason)); err != nil {
		c.writeReply(codeUnrecognizedEntity, []string{"No such stream"})
		return nil
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func handleResolve(s *Server, c *ControlConnection, args string, body []byte) error {
	tokens := splitArgs(args)
	reverse := false
	var names []string
	for _, t := range tokens {
		if t == "mode=reverse" {
			reverse = true
			continue
		}
		names = append(names, t)
	}
	if len(names) == 0 {
		c.writeReply(codeSyntaxError, []string{"RESOLVE requires at least one name"})
		return nil
	}

	c.mu.Lock()
	subscribedAddrMap := c.eventMask.has(EventAddressMapped)
	c.mu.Unlock()
	if !subscribedAddrMap {
		s.log.Warning("RESOLVE issued by a controller not subscribed to ADDRMAP events")
	}

	for _, n := range names {
		if err := s.node.DNS.LaunchResolve(n, reverse); err != nil {
			c.writeReply(codeInternalError, []string{err.Error()})
			return nil
		}
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}
