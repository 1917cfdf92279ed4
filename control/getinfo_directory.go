package control

import "strings"

func registerDirectoryGetInfo(r *getInfoRegistry, s *Server) {
	r.register("desc/id/", true, false, func(s *Server, key string) (string, bool, error) {
		hex := strings.TrimPrefix(key, "desc/id/")
		d, ok := s.node.Routers.ByHexDigest(hex)
		if !ok {
			return "", false, nil
		}
		return string(d.Raw), true, nil
	})
	r.register("desc/name/", true, false, func(s *Server, key string) (string, bool, error) {
		nick := strings.TrimPrefix(key, "desc/name/")
		d, ok := s.node.Routers.ByNickname(nick)
		if !ok {
			return "", false, nil
		}
		return string(d.Raw), true, nil
	})
	r.register("desc/all-recent", false, true, func(s *Server, key string) (string, bool, error) {
		var buf strings.Builder
		for _, d := range s.node.Routers.AllRecent() {
			buf.Write(d.Raw)
			buf.WriteByte('\n')
		}
		return buf.String(), true, nil
	})
	r.register("ns/id/", true, false, func(s *Server, key string) (string, bool, error) {
		hex := strings.TrimPrefix(key, "ns/id/")
		d, ok := s.node.Routers.ByHexDigest(hex)
		if !ok {
			return "", false, nil
		}
		return s.node.Routers.VerboseNickname(d.HexDigest), true, nil
	})
	r.register("extra-info/digest/", true, false, func(s *Server, key string) (string, bool, error) {
		// Extrainfo documents are a separate document class the router
		// collaborator doesn't model in this implementation; treated as
		// never available rather than guessed.
		return "", false, nil
	})
}
