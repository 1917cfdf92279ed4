package control

import "strings"

func handleSetEvents(s *Server, c *ControlConnection, args string, body []byte) error {
	tokens := splitArgs(args)

	var mask EventMask
	var extended bool
	for _, tok := range tokens {
		upper := strings.ToUpper(tok)
		if upper == "EXTENDED" {
			extended = true
			continue
		}
		kind, ok := eventNamesShort[upper]
		if !ok {
			c.writeReply(codeUnrecognizedEntity, []string{`Unrecognized event "` + tok + `"`})
			return nil
		}
		mask = mask.with(kind)
	}

	c.mu.Lock()
	wasSubscribedToStreamBW := c.eventMask.has(EventStreamBandwidth)
	c.eventMask = mask
	if extended {
		c.useExtendedEvents = true
	}
	c.mu.Unlock()

	if mask.has(EventStreamBandwidth) && !wasSubscribedToStreamBW {
		s.node.Streams.ZeroByteCounters()
	}

	s.mgr.recomputeInterest()
	s.lb.RecomputeSeverityRange()

	c.writeReply(codeOK, []string{"OK"})
	return nil
}
