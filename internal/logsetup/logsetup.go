// Package logsetup wires op/go-logging into the daemon and CLI binaries:
// syslog when available, a colored stderr backend otherwise, with a level
// override via environment variable.
package logsetup

import (
	"os"

	"github.com/op/go-logging"
)

var Log = logging.MustGetLogger("oniond")

var syslogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} %{module} ▶ %{message}`,
)
var stderrFormat = logging.MustStringFormatter(
	`%{color}oniond ▶ %{message}%{color:reset}`,
)

// Setup installs the logging backend and returns the module logger every
// package should use. trySyslog is ignored on platforms with no syslog
// backend (see logsetup_windows.go).
func Setup(prefix string, defaultLevel logging.Level, trySyslog bool) (*logging.Logger, logging.LeveledBackend, *ForwardingBackend) {
	var backend logging.Backend
	if trySyslog {
		backend = trySyslogBackend(prefix)
	}
	if backend == nil {
		backend = logging.NewLogBackend(os.Stderr, prefix, 0)
		logging.SetFormatter(stderrFormat)
	}
	forwarder := NewForwardingBackend(backend)

	leveled := logging.AddModuleLevel(forwarder)
	leveled.SetLevel(levelFromEnv(defaultLevel), "")
	logging.SetBackend(leveled)
	return Log, leveled, forwarder
}

func levelFromEnv(defaultLevel logging.Level) logging.Level {
	switch os.Getenv("ONIOND_LOG_LEVEL") {
	case "CRITICAL":
		return logging.CRITICAL
	case "ERROR":
		return logging.ERROR
	case "WARNING":
		return logging.WARNING
	case "NOTICE":
		return logging.NOTICE
	case "INFO":
		return logging.INFO
	case "DEBUG":
		return logging.DEBUG
	default:
		return defaultLevel
	}
}
