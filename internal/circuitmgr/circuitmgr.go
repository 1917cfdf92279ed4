// Package circuitmgr is a reference CircuitManager: enough in-memory
// bookkeeping to exercise the control package's circuit-related commands
// and GETINFO circuit-status without a real onion-routing core behind it.
package circuitmgr

import (
	"fmt"
	"sync"

	"github.com/oniond/oniond/control"
)

type circuit struct {
	id      int
	open    bool
	purpose string
	path    []string
}

type Manager struct {
	mu      sync.Mutex
	nextID  int
	circuit map[int]*circuit
}

func New() *Manager {
	return &Manager{circuit: make(map[int]*circuit)}
}

func (m *Manager) New(purpose string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	if purpose == "" {
		purpose = "GENERAL"
	}
	m.circuit[id] = &circuit{id: id, purpose: purpose}
	return id, nil
}

func (m *Manager) Extend(id int, routerNickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.circuit[id]
	if !ok {
		return fmt.Errorf("circuitmgr: unknown circuit %d", id)
	}
	c.path = append(c.path, routerNickname)
	c.open = true
	return nil
}

func (m *Manager) Lookup(id int) (control.CircuitInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.circuit[id]
	if !ok {
		return control.CircuitInfo{}, false
	}
	return control.CircuitInfo{ID: c.id, Open: c.open, Purpose: c.purpose, Path: append([]string(nil), c.path...)}, true
}

func (m *Manager) SetPurpose(id int, purpose string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.circuit[id]
	if !ok {
		return fmt.Errorf("circuitmgr: unknown circuit %d", id)
	}
	c.purpose = purpose
	return nil
}

func (m *Manager) Close(id int, ifUnused bool, reason byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.circuit[id]
	if !ok {
		return false, fmt.Errorf("circuitmgr: unknown circuit %d", id)
	}
	delete(m.circuit, id)
	return true, nil
}
