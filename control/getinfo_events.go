package control

import (
	"fmt"
	"strings"
	"time"
)

func registerEventsSummaryGetInfo(r *getInfoRegistry, s *Server) {
	r.register("circuit-status", false, true, func(s *Server, key string) (string, bool, error) {
		var lines []string
		for id := 1; id <= maxScannedID; id++ {
			info, ok := s.node.Circuits.Lookup(id)
			if !ok {
				continue
			}
			status := "BUILT"
			if !info.Open {
				status = "LAUNCHED"
			}
			lines = append(lines, fmt.Sprintf("%d %s %s", info.ID, status, strings.Join(info.Path, ",")))
		}
		return strings.Join(lines, "\n"), true, nil
	})
	r.register("stream-status", false, true, func(s *Server, key string) (string, bool, error) {
		var lines []string
		for id := 1; id <= maxScannedID; id++ {
			info, ok := s.node.Streams.Lookup(id)
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d %s %d %s:%d", info.ID, info.State, info.CircuitID, info.TargetAddr, info.TargetPort))
		}
		return strings.Join(lines, "\n"), true, nil
	})
	r.register("orconn-status", false, true, func(s *Server, key string) (string, bool, error) {
		// OR-connection bookkeeping lives entirely with the (out of
		// scope) OR-connection manager; nothing in this implementation
		// models it yet.
		return "", false, nil
	})
	r.register("address-mappings/all", false, true, func(s *Server, key string) (string, bool, error) {
		return formatAddressMappings(s, true), true, nil
	})
	r.register("address-mappings/config", false, true, func(s *Server, key string) (string, bool, error) {
		return formatAddressMappings(s, false), true, nil
	})
	r.register("status/version/recommended", false, true, func(s *Server, key string) (string, bool, error) {
		return s.node.Version, true, nil
	})
	r.register("status/version/current", false, true, func(s *Server, key string) (string, bool, error) {
		return "recommended", true, nil
	})
	r.register("status/reachability/or", false, true, func(s *Server, key string) (string, bool, error) {
		return "1", true, nil
	})
	r.register("status/reachability/dir", false, true, func(s *Server, key string) (string, bool, error) {
		return "1", true, nil
	})
	r.register("status/", true, false, func(s *Server, key string) (string, bool, error) {
		// Lower bound only (§9 Open Question 3): unknown status/*
		// subkeys are unrecognized rather than guessed.
		return "", false, nil
	})
}

// maxScannedID bounds the linear id scan used by the circuit/stream
// summary handlers above; real deployments would have the collaborator
// expose an iterator instead, but the facade (§C) keeps this narrow.
const maxScannedID = 4096

func formatAddressMappings(s *Server, includeExpiry bool) string {
	all := s.node.AddrMap.All(includeExpiry)
	var lines []string
	for from, to := range all {
		if includeExpiry {
			_, expiry, ok := s.node.AddrMap.Lookup(from)
			expiryStr := "NEVER"
			if ok && !expiry.IsZero() {
				expiryStr = expiry.UTC().Format(time.RFC3339)
			}
			lines = append(lines, fmt.Sprintf("%s %s %s", from, to, expiryStr))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s", from, to))
		}
	}
	return strings.Join(lines, "\n")
}
