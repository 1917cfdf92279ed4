// Package guards is a reference EntryGuards collaborator backing GETINFO
// entry-guards and the GUARD event.
package guards

import (
	"sync"

	"github.com/oniond/oniond/control"
)

type Set struct {
	mu     sync.Mutex
	guards []control.GuardInfo
}

func New() *Set {
	return &Set{}
}

func (s *Set) List() []control.GuardInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]control.GuardInfo(nil), s.guards...)
}

// SetStatus adds or updates one guard's status, reported via the GUARD
// event by whatever wires this collaborator into control.Server.
func (s *Set) SetStatus(hexID, nickname, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.guards {
		if g.HexID == hexID {
			s.guards[i].Status = status
			s.guards[i].Nickname = nickname
			return
		}
	}
	s.guards = append(s.guards, control.GuardInfo{HexID: hexID, Nickname: nickname, Status: status})
}
