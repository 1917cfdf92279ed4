// +build !windows

package main

import (
	"net"
	"os"
	"path/filepath"
)

func listen(dir string) (net.Listener, error) {
	path := filepath.Join(dir, "control.sock")
	_ = os.Remove(path)
	return net.Listen("unix", path)
}
