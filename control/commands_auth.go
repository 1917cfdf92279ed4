package control

import (
	"fmt"
	"strconv"
	"strings"
)

func handleAuthenticate(s *Server, c *ControlConnection, args string, body []byte) error {
	password, err := parseAuthArgument(args)
	if err != nil {
		c.writeReply(codeAuthFailed, []string{err.Error()})
		return errCloseConnection
	}

	if err := authenticate(s.node.Auth, password); err != nil {
		c.writeReply(codeAuthFailed, []string{err.Error()})
		return errCloseConnection
	}

	c.mu.Lock()
	c.state = StateOpen
	c.mu.Unlock()
	s.mgr.recomputeInterest()

	c.writeReply(codeOK, []string{"OK"})
	return nil
}

func handleQuit(s *Server, c *ControlConnection, args string, body []byte) error {
	c.writeReply(codeOK, []string{"closing connection"})
	return errCloseConnection
}

func handleProtocolInfo(s *Server, c *ControlConnection, args string, body []byte) error {
	c.mu.Lock()
	alreadySent := c.haveSentProtoInfo
	authed := c.state == StateOpen
	c.mu.Unlock()

	if alreadySent && !authed {
		c.writeReply(codeAuthRequired, []string{"PROTOCOLINFO may only be sent once before authentication"})
		return errCloseConnection
	}

	for _, tok := range splitArgs(args) {
		if _, err := strconv.Atoi(tok); err != nil {
			if !authed {
				c.writeReply(codeSyntaxError, []string{"PROTOCOLINFO version must be a non-negative integer"})
				return errCloseConnection
			}
		}
	}

	c.mu.Lock()
	c.haveSentProtoInfo = true
	c.mu.Unlock()

	var authMethods []string
	if s.node.Auth.CookieEnabled {
		authMethods = append(authMethods, "COOKIE")
	}
	if len(s.node.Auth.HashedPasswords) > 0 {
		authMethods = append(authMethods, "HASHEDPASSWORD")
	}
	if len(authMethods) == 0 {
		authMethods = append(authMethods, "NULL")
	}

	authLine := "AUTH METHODS=" + strings.Join(authMethods, ",")
	if s.node.Auth.CookieEnabled {
		authLine += fmt.Sprintf(" COOKIEFILE=%s", quote(s.node.Auth.CookiePath))
	}

	var err error
	c.withWriteLock(func() {
		c.writeReplyLineRawLocked(codeOK, '-', "PROTOCOLINFO 1")
		c.writeReplyLineRawLocked(codeOK, '-', authLine)
		c.writeReplyLineRawLocked(codeOK, '-', "VERSION Tor="+quote(s.node.Version))
		c.writeReplyLineRawLocked(codeOK, ' ', "OK")
		err = c.rw.Flush()
	})
	return err
}

func handleUseFeature(s *Server, c *ControlConnection, args string, body []byte) error {
	tokens := splitArgs(args)

	var longNames, extended bool
	for _, tok := range tokens {
		switch strings.ToUpper(tok) {
		case "VERBOSE_NAMES":
			longNames = true
		case "EXTENDED_EVENTS", "EXTENDED_FORMAT":
			extended = true
		default:
			c.writeReply(codeSyntaxError, []string{"Unrecognized feature \"" + tok + "\""})
			return nil
		}
	}

	c.mu.Lock()
	if longNames {
		c.useLongNames = true
	}
	if extended {
		c.useExtendedEvents = true
	}
	c.mu.Unlock()

	if longNames {
		s.mgr.recomputeInterest()
	}

	c.writeReply(codeOK, []string{"OK"})
	return nil
}
