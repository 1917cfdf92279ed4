// Package geoip is a reference GeoIP collaborator backing GETINFO
// ip-to-country/*. No third-party GeoIP database client appears anywhere
// in the dependency set this module draws from, so this is a deliberately
// minimal, stdlib-only in-memory table the daemon populates from a loaded
// database file; see DESIGN.md.
package geoip

import (
	"bufio"
	"net"
	"os"
	"strings"
	"sync"
)

type entry struct {
	network *net.IPNet
	country string
}

type Table struct {
	mu      sync.RWMutex
	entries []entry
}

func New() *Table {
	return &Table{}
}

// Load parses a simple "cidr country" table, one per line, such as a
// generated extract of a MaxMind GeoLite2 country database.
func (t *Table) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var entries []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		_, network, err := net.ParseCIDR(fields[0])
		if err != nil {
			continue
		}
		entries = append(entries, entry{network: network, country: strings.ToUpper(fields[1])})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	return nil
}

func (t *Table) CountryCode(addr string) (string, bool) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.network.Contains(ip) {
			return e.country, true
		}
	}
	return "", false
}
