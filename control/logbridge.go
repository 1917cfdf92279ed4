package control

import (
	"github.com/op/go-logging"
)

// LogCollaborator is the narrow facade onto the node's own logging
// subsystem (out of scope per §1; the core only ever adjusts the
// severity range it wants delivered).
type LogCollaborator interface {
	SetDeliveryRange(min, max logging.Level)
}

// logBridge is C7: it receives every log message the node emits and
// turns subscribed-to ones into LogDebug..LogErr events, with reentrancy
// suppressed via connManager's suppression counter so that a log message
// emitted while formatting an event can't recurse forever.
type logBridge struct {
	mgr    *connManager
	collab LogCollaborator
}

func newLogBridge(mgr *connManager, collab LogCollaborator) *logBridge {
	return &logBridge{mgr: mgr, collab: collab}
}

func severityToKind(level logging.Level) (EventKind, string) {
	switch level {
	case logging.DEBUG:
		return EventLogDebug, "DEBUG"
	case logging.INFO:
		return EventLogInfo, "INFO"
	case logging.NOTICE:
		return EventLogNotice, "NOTICE"
	case logging.WARNING:
		return EventLogWarn, "WARN"
	default: // ERROR, CRITICAL
		return EventLogErr, "ERR"
	}
}

// HandleLog is the process-wide log callback. isBug marks messages the
// node itself flagged as bug reports (an assertion-like condition),
// which additionally surface as a STATUS_GENERAL BUG line.
func (b *logBridge) HandleLog(level logging.Level, domain, message string, isBug bool) {
	if b.mgr.suppressed() {
		return
	}

	if isBug && b.mgr.isInteresting(EventStatusGeneral) {
		b.mgr.pushSuppression()
		body := func() string {
			return fmtStatus("GENERAL", "ERR", "BUG", map[string]string{"REASON": quote(message)})
		}
		b.mgr.emit(EventStatusGeneral, true, body, body)
		b.mgr.popSuppression()
	}

	kind, severityToken := severityToKind(level)
	if b.mgr.isInteresting(kind) {
		b.mgr.pushSuppression()
		body := func() string { return fmtLog(severityToken, message) }
		b.mgr.emit(kind, kind == EventLogErr, body, body)
		b.mgr.popSuppression()
	}
}

// logKindLevels lists, in severity order, the log EventKinds and their
// op/go-logging level, used to compute the (min, max) delivery range.
var logKindLevels = []struct {
	kind  EventKind
	level logging.Level
}{
	{EventLogErr, logging.ERROR},
	{EventLogWarn, logging.WARNING},
	{EventLogNotice, logging.NOTICE},
	{EventLogInfo, logging.INFO},
	{EventLogDebug, logging.DEBUG},
}

// RecomputeSeverityRange recomputes the (min, max) log severities the
// node must deliver to this bridge and tells the logging collaborator to
// adjust accordingly (§4.7). op/go-logging numbers CRITICAL=0 through
// DEBUG=5, i.e. lower is more severe; min is the most-severe bound,
// max the most-verbose bound. If STATUS_GENERAL is subscribed, the range
// is widened (never narrowed) so CRITICAL..NOTICE always reaches the
// bridge, since a bug report may log at any of those severities.
func (b *logBridge) RecomputeSeverityRange() {
	haveAny := false
	min := logging.CRITICAL
	max := logging.CRITICAL
	for _, lv := range logKindLevels {
		if b.mgr.isInteresting(lv.kind) {
			if !haveAny {
				min, max = lv.level, lv.level
				haveAny = true
				continue
			}
			if lv.level < min {
				min = lv.level
			}
			if lv.level > max {
				max = lv.level
			}
		}
	}
	if b.mgr.isInteresting(EventStatusGeneral) {
		if !haveAny {
			min = logging.CRITICAL
			max = logging.NOTICE
			haveAny = true
		} else {
			if min > logging.CRITICAL {
				min = logging.CRITICAL
			}
			if max < logging.NOTICE {
				max = logging.NOTICE
			}
		}
	}
	if !haveAny {
		// Nothing subscribed: request the narrowest possible range.
		b.collab.SetDeliveryRange(logging.CRITICAL, logging.CRITICAL-1)
		return
	}
	b.collab.SetDeliveryRange(min, max)
}
