package control

import "time"

// This file declares the narrow, typed external-collaborator facade
// (C10). Per spec §1 these collaborators - configuration, circuit
// construction, streams, the router/descriptor store, accounting,
// address-map, entry guards, GeoIP, DNS resolution, and node lifecycle -
// are out of the core's scope; the core only ever calls through these
// interfaces. Concrete implementations live under internal/.

// KeyValue is one parsed SETCONF/RESETCONF entry: `key`, `key=value`, or
// `key="quoted value"`.
type KeyValue struct {
	Key      string
	Value    string
	HasValue bool
}

// SetConfOutcome is §4.5's SETCONF/RESETCONF outcome enumeration; each
// outcome maps to a fixed response code via setConfOutcomeCode in
// commands_conf.go.
type SetConfOutcome int

const (
	SetConfOK SetConfOutcome = iota
	SetConfUnrecognizedKey
	SetConfUnacceptableValue
	SetConfTransitionNotAllowed
	SetConfUnableToSet
)

// ConfigStore is the configuration collaborator.
type ConfigStore interface {
	// IsRecognized reports whether name is a known option, and its
	// canonical (casing-normalized) name.
	IsRecognized(name string) (canonical string, ok bool)
	// Get returns the assigned line values for a recognized option, or
	// ok=false if it has no assigned value.
	Get(canonical string) (values []string, ok bool)
	// TrialSet stages lines for SETCONF (reset=false) or RESETCONF
	// (reset=true); clearFirst always true per §4.5. Returns the first
	// failing entry's outcome, or SetConfOK if all succeeded.
	TrialSet(lines []KeyValue, reset, clearFirst bool) (SetConfOutcome, string, error)
	Commit()
	Rollback()
	Save() error
}

// CircuitInfo is the subset of circuit state the core needs to report.
type CircuitInfo struct {
	ID      int
	Open    bool
	Purpose string
	Path    []string // router identifiers, in hop order
}

// CircuitManager is the circuit-construction collaborator.
type CircuitManager interface {
	New(purpose string) (id int, err error)
	Extend(id int, routerNickname string) error
	Lookup(id int) (CircuitInfo, bool)
	SetPurpose(id int, purpose string) error
	Close(id int, ifUnused bool, reason byte) (closed bool, err error)
}

// StreamInfo is the subset of stream state the core needs.
type StreamInfo struct {
	ID          int
	State       string // e.g. NEW, or SUCCEEDED once attached
	CircuitID   int
	TargetAddr  string
	TargetPort  int
	SourceAddr  string
	HasSource   bool
}

// StreamManager is the stream collaborator.
type StreamManager interface {
	Lookup(id int) (StreamInfo, bool)
	Detach(id int, reason byte) error
	AttachToCircuit(id, circID, hop int) error
	Redirect(id int, addr string, port int) error
	Close(id int, reason byte) error
	ZeroByteCounters()
	BandwidthSnapshot() map[int][2]int64 // id -> {read, written}
}

// Descriptor is the subset of a router descriptor the core reports via
// GETINFO and NEWDESC.
type Descriptor struct {
	HexDigest string
	Nickname  string
	Named     bool
	Address   string
	ORPort    int
	Raw       []byte
}

// RouterStore is the router/descriptor collaborator.
type RouterStore interface {
	LoadDescriptor(body []byte, purpose string, cache bool) (added bool, rejectReason string, err error)
	ByHexDigest(hex string) (Descriptor, bool)
	ByNickname(nick string) (Descriptor, bool)
	AllRecent() []Descriptor
	// VerboseNickname renders the long ("verbose nickname") identifier
	// form for a known router, or the bare "$<hex>" form if the digest
	// is unknown.
	VerboseNickname(hexDigest string) string
}

// AddressMap is the address-mapping collaborator.
type AddressMap interface {
	Register(from, to string) error
	NewVirtual(family int) (addr string, err error)
	Lookup(from string) (to string, expiry time.Time, ok bool)
	All(includeExpiry bool) map[string]string
}

// Accounting is the bandwidth-accounting collaborator (GETINFO
// accounting/*).
type Accounting interface {
	Enabled() bool
	BytesLeftInInterval() (int64, int64) // read, written
	IntervalEnd() time.Time
}

// EntryGuards is the entry-guard collaborator (GETINFO entry-guards).
type EntryGuards interface {
	List() []GuardInfo
}

// GuardInfo is one entry guard's reportable state.
type GuardInfo struct {
	Nickname string
	HexID    string
	Status   string // "up" or "down"
}

// GeoIP is the GeoIP-lookup collaborator (GETINFO ip-to-country/*).
type GeoIP interface {
	CountryCode(addr string) (string, bool)
}

// DNSResolver is the RESOLVE collaborator.
type DNSResolver interface {
	LaunchResolve(name string, reverse bool) error
}

// SignalHandler is the sink for the SIGNAL command (§4.5); the daemon
// wires it to its own shutdown/reload logic.
type SignalHandler interface {
	Do(signal string) error
}
