// Package addrmap is a reference AddressMap collaborator: a bounded cache
// of address rewrites with expiry, backing MAPADDRESS and GETINFO
// address-mappings/*.
package addrmap

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"github.com/oniond/oniond/control"
)

type entry struct {
	to       string
	expiry   time.Time
	fromConf bool // registered via configuration, not MAPADDRESS
}

// Map wraps groupcache's LRU with an expiry field per entry. Entries from
// configuration are kept in a separate map (conf), so they are never
// evicted by size pressure; they are what address-mappings/config lists.
type Map struct {
	mu    sync.Mutex
	cache *lru.Cache
	conf  map[string]string
}

func New(capacity int) *Map {
	return &Map{cache: lru.New(capacity), conf: make(map[string]string)}
}

// RegisterFromConfig seeds a permanent address mapping read from
// configuration at startup.
func (m *Map) RegisterFromConfig(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conf[from] = to
}

func (m *Map) Register(from, to string) error {
	if from == "" {
		return fmt.Errorf("addrmap: empty source address")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if to == "" {
		m.cache.Remove(from)
		return nil
	}
	m.cache.Add(from, entry{to: to, expiry: time.Now().Add(30 * time.Minute)})
	return nil
}

// virtualPool is the RFC 3330-reserved range an onion-routing node is
// expected to hand out virtual addresses from (§4.9's NewVirtual).
const virtualPool = "127.192."

func (m *Map) NewVirtual(family int) (string, error) {
	addr := fmt.Sprintf("%s%d.%d", virtualPool, rand.Intn(256), rand.Intn(256))
	return addr, nil
}

func (m *Map) Lookup(from string) (string, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if to, ok := m.conf[from]; ok {
		return to, time.Time{}, true
	}
	v, ok := m.cache.Get(from)
	if !ok {
		return "", time.Time{}, false
	}
	e := v.(entry)
	if !e.expiry.IsZero() && time.Now().After(e.expiry) {
		m.cache.Remove(from)
		return "", time.Time{}, false
	}
	return e.to, e.expiry, true
}

// All returns the configuration-sourced mappings only, whatever
// includeExpiry says, so address-mappings/all and address-mappings/config
// list the same entries. Mappings created through Register live in the
// groupcache LRU, which has no enumeration API, and are never listed here.
func (m *Map) All(includeExpiry bool) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.conf))
	for from, to := range m.conf {
		out[from] = to
	}
	return out
}

var _ control.AddressMap = (*Map)(nil)
