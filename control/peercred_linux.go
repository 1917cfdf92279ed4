package control

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// peerUID returns the effective UID of the process on the other end of a
// unix-domain control connection, via SO_PEERCRED. ok is false for any
// connection type this cannot introspect (TCP, named pipe).
func peerUID(conn net.Conn) (uid uint32, ok bool) {
	unixConn, isUnix := conn.(*net.UnixConn)
	if !isUnix {
		return 0, false
	}
	raw, err := unixConn.SyscallConn()
	if err != nil {
		return 0, false
	}
	var cred *unix.Ucred
	var credErr error
	err = raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if err != nil || credErr != nil {
		return 0, false
	}
	return cred.Uid, true
}

// peerIsSameUser reports whether the connection's peer UID matches this
// process's own UID. Purely defensive and logged only (§4.4 authentication
// remains the sole gate); never itself a reason to reject a connection.
func peerIsSameUser(conn net.Conn) bool {
	uid, ok := peerUID(conn)
	if !ok {
		return false
	}
	return int(uid) == os.Getuid()
}
