package control

// parseConfArgs parses a SETCONF/RESETCONF argument list: a
// whitespace-separated sequence of `key`, `key=value`, or
// `key="quoted value"` entries.
func parseConfArgs(args string) ([]KeyValue, error) {
	var out []KeyValue
	i := 0
	n := len(args)
	skipSpace := func() {
		for i < n && (args[i] == ' ' || args[i] == '\t') {
			i++
		}
	}
	for {
		skipSpace()
		if i >= n {
			break
		}
		start := i
		for i < n && args[i] != '=' && args[i] != ' ' && args[i] != '\t' {
			i++
		}
		key := args[start:i]
		if i >= n || args[i] != '=' {
			out = append(out, KeyValue{Key: key, HasValue: false})
			continue
		}
		i++ // consume '='
		if i < n && args[i] == '"' {
			decoded, rest, err := unquote(args[i:])
			if err != nil {
				return nil, err
			}
			out = append(out, KeyValue{Key: key, Value: decoded, HasValue: true})
			i = len(args) - len(rest)
			continue
		}
		start = i
		for i < n && args[i] != ' ' && args[i] != '\t' {
			i++
		}
		out = append(out, KeyValue{Key: key, Value: args[start:i], HasValue: true})
	}
	return out, nil
}

func setConfOutcomeCode(o SetConfOutcome) (int, string) {
	switch o {
	case SetConfUnrecognizedKey:
		return codeUnrecognizedEntity, "Unrecognized option"
	case SetConfUnacceptableValue:
		return codeUnacceptableValue, "Unacceptable option value"
	case SetConfTransitionNotAllowed:
		return codeTransitionOrUnable, "Transition not allowed"
	case SetConfUnableToSet:
		return codeTransitionOrUnable, "Unable to set option"
	default:
		return codeOK, "OK"
	}
}

func doSetConf(s *Server, c *ControlConnection, args string, reset bool) error {
	lines, err := parseConfArgs(args)
	if err != nil {
		c.writeReply(codeSyntaxError, []string{err.Error()})
		return nil
	}
	if len(lines) == 0 {
		c.writeReply(codeSyntaxError, []string{"SETCONF requires at least one argument"})
		return nil
	}

	outcome, msg, err := s.node.Config.TrialSet(lines, reset, true)
	if err != nil {
		s.node.Config.Rollback()
		c.writeReply(codeInternalError, []string{err.Error()})
		return nil
	}
	if outcome != SetConfOK {
		s.node.Config.Rollback()
		code, defaultMsg := setConfOutcomeCode(outcome)
		if msg == "" {
			msg = defaultMsg
		}
		c.writeReply(code, []string{msg})
		return nil
	}
	s.node.Config.Commit()
	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func handleSetConf(s *Server, c *ControlConnection, args string, body []byte) error {
	return doSetConf(s, c, args, false)
}

func handleResetConf(s *Server, c *ControlConnection, args string, body []byte) error {
	return doSetConf(s, c, args, true)
}

func handleGetConf(s *Server, c *ControlConnection, args string, body []byte) error {
	names := splitArgs(args)
	if len(names) == 0 {
		c.writeReply(codeSyntaxError, []string{"GETCONF requires at least one argument"})
		return nil
	}

	var unrecognized []string
	var valueLines []string
	for _, name := range names {
		canonical, ok := s.node.Config.IsRecognized(name)
		if !ok {
			unrecognized = append(unrecognized, name)
			continue
		}
		values, hasValues := s.node.Config.Get(canonical)
		if !hasValues {
			valueLines = append(valueLines, canonical)
			continue
		}
		for _, v := range values {
			valueLines = append(valueLines, canonical+"="+v)
		}
	}

	if len(unrecognized) > 0 {
		var lines []string
		for _, u := range unrecognized {
			lines = append(lines, `Unrecognized configuration key "`+u+`"`)
		}
		c.writeReply(codeUnrecognizedEntity, lines)
		return nil
	}

	valueLines = append(valueLines, "OK")
	c.writeReply(codeOK, valueLines)
	return nil
}

func handleSaveConf(s *Server, c *ControlConnection, args string, body []byte) error {
	if err := s.node.Config.Save(); err != nil {
		c.writeReply(codeInternalError, []string{err.Error()})
		return nil
	}
	c.writeReply(codeOK, []string{"Configuration saved"})
	return nil
}
