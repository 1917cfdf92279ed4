// +build windows

package control

import (
	"net"

	winio "github.com/Microsoft/go-winio"
)

// ListenNamedPipe opens a Windows named pipe as the control listener, the
// platform counterpart to a unix-domain socket. The pipe is restricted to
// the calling user's security descriptor; remote controller connections are
// out of scope (§1 Non-goals).
func ListenNamedPipe(pipeName string) (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: "D:P(A;;GA;;;OW)",
		MessageMode:        false,
		InputBufferSize:    65536,
		OutputBufferSize:   65536,
	}
	return winio.ListenPipe(pipeName, cfg)
}
