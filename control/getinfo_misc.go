package control

import (
	"sort"
	"strings"
)

func registerMiscGetInfo(r *getInfoRegistry, s *Server) {
	r.register("version", false, true, func(s *Server, key string) (string, bool, error) {
		return s.node.Version, true, nil
	})
	r.register("config-file", false, true, func(s *Server, key string) (string, bool, error) {
		values, ok := s.node.Config.Get("__config_file")
		if !ok || len(values) == 0 {
			return "", false, nil
		}
		return values[0], true, nil
	})
	r.register("fingerprint", false, true, func(s *Server, key string) (string, bool, error) {
		values, ok := s.node.Config.Get("Fingerprint")
		if !ok || len(values) == 0 {
			return "", false, nil
		}
		return values[0], true, nil
	})
	r.register("address", false, true, func(s *Server, key string) (string, bool, error) {
		values, ok := s.node.Config.Get("Address")
		if !ok || len(values) == 0 {
			return "", false, nil
		}
		return values[0], true, nil
	})
	r.register("events/names", false, true, func(s *Server, key string) (string, bool, error) {
		names := make([]string, 0, len(eventNamesShort))
		for name := range eventNamesShort {
			names = append(names, name)
		}
		sort.Strings(names)
		return strings.Join(names, " "), true, nil
	})
	r.register("features/names", false, true, func(s *Server, key string) (string, bool, error) {
		return "VERBOSE_NAMES EXTENDED_EVENTS", true, nil
	})
	r.register("net/listeners/control", false, true, func(s *Server, key string) (string, bool, error) {
		if s.listenerAddr == "" {
			return "", false, nil
		}
		return s.listenerAddr, true, nil
	})
	r.register("info/names", false, false, func(s *Server, key string) (string, bool, error) {
		var lines []string
		for _, e := range s.getinfo.entries {
			if !e.documented {
				continue
			}
			suffix := ""
			if e.isPrefix {
				suffix = "*"
			}
			lines = append(lines, e.name+suffix+" -- ")
		}
		sort.Strings(lines)
		return strings.Join(lines, "\n"), true, nil
	})
}
