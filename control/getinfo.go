package control

import "strings"

// getInfoHandler resolves one GETINFO key (or, for prefix entries, a key
// sharing the entry's prefix) to its value. ok=false means "not
// currently available", treated the same as an unrecognized key by the
// dispatcher per §4.5.
type getInfoHandler func(s *Server, key string) (value string, ok bool, err error)

type getInfoEntry struct {
	name       string
	isPrefix   bool
	handler    getInfoHandler
	documented bool // listed by "info/names" when true
}

// getInfoRegistry is C9: a linear table of {name-or-prefix, handler}.
type getInfoRegistry struct {
	entries []getInfoEntry
}

func (r *getInfoRegistry) register(name string, isPrefix, documented bool, h getInfoHandler) {
	r.entries = append(r.entries, getInfoEntry{name: name, isPrefix: isPrefix, handler: h, documented: documented})
}

func (r *getInfoRegistry) lookup(key string) (getInfoEntry, bool) {
	for _, e := range r.entries {
		if e.isPrefix {
			if strings.HasPrefix(key, e.name) {
				return e, true
			}
			continue
		}
		if key == e.name {
			return e, true
		}
	}
	return getInfoEntry{}, false
}

func newGetInfoRegistry(s *Server) *getInfoRegistry {
	r := &getInfoRegistry{}
	registerMiscGetInfo(r, s)
	registerConfigGetInfo(r, s)
	registerDirectoryGetInfo(r, s)
	registerEventsSummaryGetInfo(r, s)
	registerAccountingGetInfo(r, s)
	registerGuardsGetInfo(r, s)
	registerGeoIPGetInfo(r, s)
	registerPolicyGetInfo(r, s)
	return r
}

func handleGetInfo(s *Server, c *ControlConnection, args string, body []byte) error {
	keys := splitArgs(args)
	if len(keys) == 0 {
		c.writeReply(codeSyntaxError, []string{"GETINFO requires at least one argument"})
		return nil
	}

	type resolved struct {
		key   string
		value string
	}
	var results []resolved
	var unrecognized []string

	for _, key := range keys {
		entry, found := s.getinfo.lookup(key)
		if !found {
			unrecognized = append(unrecognized, key)
			continue
		}
		value, ok, err := entry.handler(s, key)
		if err != nil {
			c.writeReply(codeInternalError, []string{err.Error()})
			return nil
		}
		if !ok {
			unrecognized = append(unrecognized, key)
			continue
		}
		results = append(results, resolved{key: key, value: value})
	}

	if len(unrecognized) > 0 {
		var lines []string
		for _, u := range unrecognized {
			lines = append(lines, `Unrecognized key "`+u+`"`)
		}
		c.writeReply(codeUnrecognizedEntity, lines)
		return nil
	}

	c.withWriteLock(func() {
		for _, r := range results {
			if strings.ContainsAny(r.value, "\n\r") {
				if err := c.writeMultiLineValueLocked(codeOK, r.key, []byte(r.value)); err != nil {
					return
				}
			} else {
				if err := c.writeReplyLineRawLocked(codeOK, '-', r.key+"="+r.value); err != nil {
					return
				}
			}
		}
		c.writeReplyLineRawLocked(codeOK, ' ', "OK")
		c.rw.Flush()
	})
	return nil
}
