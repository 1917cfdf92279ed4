// +build windows

package logsetup

import "github.com/op/go-logging"

// Windows has no syslog; the stderr backend is always used.
func trySyslogBackend(prefix string) logging.Backend {
	return nil
}
