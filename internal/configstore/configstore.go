// Package configstore is a reference implementation of the control
// package's ConfigStore collaborator: an in-memory option table with a
// staged-transaction SETCONF/RESETCONF path and JSON-backed persistence.
package configstore

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/oniond/oniond/control"
)

// Option describes one recognized configuration key: its canonical
// (casing-normalized) name and whether it may be changed after startup.
type Option struct {
	Canonical     string
	Mutable       bool
	AcceptedValue func(value string) bool
}

type Store struct {
	mu sync.RWMutex

	path    string
	options map[string]Option // lower(name) -> Option
	values  map[string][]string

	staged map[string][]string
	reset  bool
}

func New(path string, options []Option) *Store {
	s := &Store{
		path:    path,
		options: make(map[string]Option, len(options)),
		values:  make(map[string][]string),
	}
	for _, o := range options {
		s.options[strings.ToLower(o.Canonical)] = o
	}
	return s
}

func (s *Store) IsRecognized(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.options[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return o.Canonical, true
}

func (s *Store) Get(canonical string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if canonical == "__config_file" {
		return []string{s.path}, s.path != ""
	}
	if canonical == "__config_names" {
		names := make([]string, 0, len(s.options))
		for _, o := range s.options {
			names = append(names, o.Canonical)
		}
		sort.Strings(names)
		return names, true
	}
	v, ok := s.values[canonical]
	return v, ok
}

// TrialSet stages lines for a later Commit. It validates recognition,
// mutability and value acceptance up front so the caller can report the
// first failure without having mutated anything (§4.5's SETCONF semantics).
func (s *Store) TrialSet(lines []control.KeyValue, reset, clearFirst bool) (control.SetConfOutcome, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string][]string)
	for k, v := range s.values {
		staged[k] = append([]string(nil), v...)
	}
	clearedThisTxn := make(map[string]bool)

	for _, kv := range lines {
		o, ok := s.options[strings.ToLower(kv.Key)]
		if !ok {
			return control.SetConfUnrecognizedKey, kv.Key, nil
		}
		if !o.Mutable {
			return control.SetConfTransitionNotAllowed, o.Canonical, nil
		}
		if kv.HasValue && o.AcceptedValue != nil && !o.AcceptedValue(kv.Value) {
			return control.SetConfUnacceptableValue, o.Canonical, nil
		}
		if clearFirst && !clearedThisTxn[o.Canonical] {
			staged[o.Canonical] = nil
			clearedThisTxn[o.Canonical] = true
		}
		if kv.HasValue {
			staged[o.Canonical] = append(staged[o.Canonical], kv.Value)
		} else {
			staged[o.Canonical] = nil
		}
	}

	if reset {
		for _, kv := range lines {
			o := s.options[strings.ToLower(kv.Key)]
			if !kv.HasValue {
				delete(staged, o.Canonical)
			}
		}
	}

	s.staged = staged
	s.reset = reset
	return control.SetConfOK, "", nil
}

func (s *Store) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return
	}
	s.values = s.staged
	s.staged = nil
}

func (s *Store) Rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

type persistedConfig struct {
	Values map[string][]string
}

func (s *Store) Save() error {
	s.mu.RLock()
	p := persistedConfig{Values: s.values}
	path := s.path
	s.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("configstore: no backing file configured")
	}
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, body, 0600)
}

func (s *Store) Load() error {
	body, err := ioutil.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var p persistedConfig
	if err := json.Unmarshal(body, &p); err != nil {
		return err
	}
	s.mu.Lock()
	s.values = p.Values
	s.mu.Unlock()
	return nil
}
