// Package streammgr is a reference StreamManager backing the stream-related
// control commands and GETINFO stream-status / STREAM_BW.
package streammgr

import (
	"fmt"
	"sync"

	"github.com/oniond/oniond/control"
)

type stream struct {
	id         int
	state      string
	circuitID  int
	targetAddr string
	targetPort int
	sourceAddr string
	hasSource  bool
	read       int64
	written    int64
}

type Manager struct {
	mu     sync.Mutex
	stream map[int]*stream
}

func New() *Manager {
	return &Manager{stream: make(map[int]*stream)}
}

// Register adds a stream under construction; real deployments would drive
// this from the SOCKS/transparent-proxy front end, out of scope here (§1).
func (m *Manager) Register(id int, targetAddr string, targetPort int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stream[id] = &stream{id: id, state: "NEW", targetAddr: targetAddr, targetPort: targetPort}
}

func (m *Manager) Lookup(id int) (control.StreamInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stream[id]
	if !ok {
		return control.StreamInfo{}, false
	}
	return control.StreamInfo{
		ID: s.id, State: s.state, CircuitID: s.circuitID,
		TargetAddr: s.targetAddr, TargetPort: s.targetPort,
		SourceAddr: s.sourceAddr, HasSource: s.hasSource,
	}, true
}

func (m *Manager) Detach(id int, reason byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stream[id]
	if !ok {
		return fmt.Errorf("streammgr: unknown stream %d", id)
	}
	s.circuitID = 0
	s.state = "NEW"
	return nil
}

func (m *Manager) AttachToCircuit(id, circID, hop int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stream[id]
	if !ok {
		return fmt.Errorf("streammgr: unknown stream %d", id)
	}
	s.circuitID = circID
	s.state = "SUCCEEDED"
	return nil
}

func (m *Manager) Redirect(id int, addr string, port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stream[id]
	if !ok {
		return fmt.Errorf("streammgr: unknown stream %d", id)
	}
	s.targetAddr = addr
	if port != 0 {
		s.targetPort = port
	}
	return nil
}

func (m *Manager) Close(id int, reason byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stream[id]; !ok {
		return fmt.Errorf("streammgr: unknown stream %d", id)
	}
	delete(m.stream, id)
	return nil
}

func (m *Manager) ZeroByteCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stream {
		s.read, s.written = 0, 0
	}
}

func (m *Manager) BandwidthSnapshot() map[int][2]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int][2]int64, len(m.stream))
	for id, s := range m.stream {
		out[id] = [2]int64{s.read, s.written}
	}
	return out
}

// AddBytes lets the (out-of-scope) data-plane report traffic for the
// STREAM_BW event; no control command calls it.
func (m *Manager) AddBytes(id int, read, written int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stream[id]; ok {
		s.read += read
		s.written += written
	}
}
