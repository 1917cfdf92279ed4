package logsetup

import "github.com/op/go-logging"

// ForwardingBackend wraps a real logging.Backend and additionally invokes
// a handler for every record it receives; this is how the control
// package's HandleLog(C7) sees the node's log messages. Setup wraps it in
// the module-level filter, so the handler only sees records that pass the
// level RangeSetter sets. The handler is attached after construction
// (SetHandler) since the control.Server it belongs to is itself built from
// the logger this package sets up.
type ForwardingBackend struct {
	inner   logging.Backend
	handler func(level logging.Level, message string, isBug bool)
}

func NewForwardingBackend(inner logging.Backend) *ForwardingBackend {
	return &ForwardingBackend{inner: inner}
}

func (f *ForwardingBackend) SetHandler(h func(level logging.Level, message string, isBug bool)) {
	f.handler = h
}

// isBug reports CRITICAL-level records as bug reports: op/go-logging has
// no separate assertion-failure flag, and apart from the log.Fatal calls
// on startup failures (which log at CRITICAL) this daemon's ordinary
// operational logging tops out at ERROR, so a CRITICAL record signals the kind of
// should-never-happen condition the control package's STATUS_GENERAL BUG
// line exists for.
func isBug(level logging.Level) bool {
	return level == logging.CRITICAL
}

func (f *ForwardingBackend) Log(level logging.Level, calldepth int, rec *logging.Record) error {
	err := f.inner.Log(level, calldepth+1, rec)
	if f.handler != nil {
		f.handler(level, rec.Message(), isBug(level))
	}
	return err
}
