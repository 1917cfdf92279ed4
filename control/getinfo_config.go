package control

import "strings"

func registerConfigGetInfo(r *getInfoRegistry, s *Server) {
	r.register("config/names", false, true, func(s *Server, key string) (string, bool, error) {
		// The configuration collaborator owns the canonical name list;
		// this implementation exposes it via a sentinel lookup rather
		// than widening the ConfigStore interface further.
		values, ok := s.node.Config.Get("__config_names")
		if !ok {
			return "", false, nil
		}
		return strings.Join(values, "\n"), true, nil
	})
	r.register("config-text", false, true, func(s *Server, key string) (string, bool, error) {
		values, ok := s.node.Config.Get("__config_file")
		if !ok {
			return "", false, nil
		}
		return strings.Join(values, "\n"), true, nil
	})
	r.register("config/", true, false, func(s *Server, key string) (string, bool, error) {
		name := strings.TrimPrefix(key, "config/")
		canonical, ok := s.node.Config.IsRecognized(name)
		if !ok {
			return "", false, nil
		}
		return canonical, true, nil
	})
}
