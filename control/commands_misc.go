package control

import "strings"

func isValidDestination(to string) bool {
	return to != "" && !strings.ContainsAny(to, " \t")
}

func handleMapAddress(s *Server, c *ControlConnection, args string, body []byte) error {
	pairs := splitArgs(args)
	if len(pairs) == 0 {
		c.writeReply(codeSyntaxError, []string{"MAPADDRESS requires at least one from=to pair"})
		return nil
	}

	var replies []string
	anyValid := false
	for _, pair := range pairs {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			replies = append(replies, `syntax error in address mapping "`+pair+`"`)
			continue
		}
		from := strings.ToLower(pair[:eq])
		to := strings.ToLower(pair[eq+1:])

		if !isValidDestination(to) {
			replies = append(replies, `"`+pair+`": invalid destination "`+to+`"`)
			continue
		}

		if from == "." || from == "0.0.0.0" {
			family := 4
			virtual, err := s.node.AddrMap.NewVirtual(family)
			if err != nil {
				replies = append(replies, `"`+pair+`": `+err.Error())
				continue
			}
			anyValid = true
			replies = append(replies, virtual+"="+to)
			s.EmitAddressMapped(virtual, to, "NEVER", "")
			continue
		}

		if err := s.node.AddrMap.Register(from, to); err != nil {
			replies = append(replies, `"`+pair+`": `+err.Error())
			continue
		}
		anyValid = true
		replies = append(replies, from+"="+to)
		s.EmitAddressMapped(from, to, "NEVER", "")
	}

	if !anyValid {
		c.writeReply(codeSyntaxError, replies)
		return nil
	}
	c.writeReply(codeOK, replies)
	return nil
}

// signalTokens maps every accepted SIGNAL token (§6) to a canonical
// action name passed to the SignalHandler collaborator.
var signalTokens = map[string]string{
	"RELOAD":        "RELOAD",
	"HUP":           "RELOAD",
	"SHUTDOWN":      "SHUTDOWN",
	"INT":           "SHUTDOWN",
	"DUMP":          "DUMP",
	"USR1":          "DUMP",
	"DEBUG":         "DEBUG",
	"USR2":          "DEBUG",
	"HALT":          "HALT",
	"TERM":          "HALT",
	"NEWNYM":        "NEWNYM",
	"CLEARDNSCACHE": "CLEARDNSCACHE",
}

func handleSignal(s *Server, c *ControlConnection, args string, body []byte) error {
	parts := splitArgs(args)
	if len(parts) != 1 {
		c.writeReply(codeSyntaxError, []string{"SIGNAL requires exactly one argument"})
		return nil
	}
	action, ok := signalTokens[strings.ToUpper(parts[0])]
	if !ok {
		c.writeReply(codeSyntaxError, []string{`Unrecognized signal "` + parts[0] + `"`})
		return nil
	}

	// OK is sent before invoking the action because some actions (e.g.
	// SHUTDOWN, HALT) may terminate the process before a later write
	// could land.
	c.writeReply(codeOK, []string{"OK"})

	if err := s.node.Signals.Do(action); err != nil {
		s.log.Error("signal handler for ", action, " failed: ", err)
	}
	return nil
}

func handlePostDescriptor(s *Server, c *ControlConnection, args string, body []byte) error {
	purpose := "general"
	cache := true
	for _, tok := range splitArgs(args) {
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "purpose="):
			purpose = tok[len("purpose="):]
		case strings.HasPrefix(lower, "cache="):
			cache = strings.EqualFold(tok[len("cache="):], "yes")
		}
	}

	added, reason, err := s.node.Routers.LoadDescriptor(body, purpose, cache)
	if err != nil {
		c.writeReply(codeDescriptorParseFailure, []string{"Could not parse descriptor: " + err.Error()})
		return nil
	}
	if !added {
		msg := "Descriptor not added"
		if reason != "" {
			msg += ": " + reason
		}
		c.writeReply(codeActionNotCarriedOut, []string{msg})
		return nil
	}
	c.writeReply(codeOK, []string{"OK"})
	return nil
}
