package control

import "fmt"

func registerAccountingGetInfo(r *getInfoRegistry, s *Server) {
	r.register("accounting/enabled", false, true, func(s *Server, key string) (string, bool, error) {
		if s.node.Accounting.Enabled() {
			return "1", true, nil
		}
		return "0", true, nil
	})
	r.register("accounting/bytes-left", false, true, func(s *Server, key string) (string, bool, error) {
		if !s.node.Accounting.Enabled() {
			return "", false, nil
		}
		read, written := s.node.Accounting.BytesLeftInInterval()
		return fmt.Sprintf("%d %d", read, written), true, nil
	})
	r.register("accounting/interval-end", false, true, func(s *Server, key string) (string, bool, error) {
		if !s.node.Accounting.Enabled() {
			return "", false, nil
		}
		return s.node.Accounting.IntervalEnd().UTC().Format("2006-01-02 15:04:05"), true, nil
	})
}

func registerGuardsGetInfo(r *getInfoRegistry, s *Server) {
	r.register("entry-guards", false, true, func(s *Server, key string) (string, bool, error) {
		var out string
		for i, g := range s.node.Guards.List() {
			if i > 0 {
				out += "\n"
			}
			out += fmt.Sprintf("%s %s %s", g.HexID, g.Nickname, g.Status)
		}
		return out, true, nil
	})
}

func registerGeoIPGetInfo(r *getInfoRegistry, s *Server) {
	r.register("ip-to-country/", true, false, func(s *Server, key string) (string, bool, error) {
		addr := key[len("ip-to-country/"):]
		cc, ok := s.node.GeoIP.CountryCode(addr)
		if !ok {
			return "??", true, nil
		}
		return cc, true, nil
	})
}

func registerPolicyGetInfo(r *getInfoRegistry, s *Server) {
	r.register("exit-policy/default", false, true, func(s *Server, key string) (string, bool, error) {
		values, ok := s.node.Config.Get("ExitPolicy")
		if !ok {
			return "", true, nil
		}
		var out string
		for i, v := range values {
			if i > 0 {
				out += ","
			}
			out += v
		}
		return out, true, nil
	})
	r.register("unregistered-servers-", true, false, func(s *Server, key string) (string, bool, error) {
		// Authority-only bookkeeping; this implementation only runs
		// the relay/client-facing subset of GETINFO.
		return "", false, nil
	})
}
