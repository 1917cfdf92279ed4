// +build windows

package main

import (
	"net"

	"github.com/oniond/oniond/control"
)

func listen(dir string) (net.Listener, error) {
	return control.ListenNamedPipe(`\\.\pipe\oniond-control`)
}
