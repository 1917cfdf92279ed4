// Package authcookie manages the control port's cookie-authentication file:
// generation, atomic persistence, and the optional group-readable mode
// described in §5's resource model.
package authcookie

import (
	"crypto/rand"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/youtube/vitess/go/ioutil2"
)

const CookieLength = 32

// EnsureCookie loads the cookie at path, generating and atomically writing
// a fresh 32-byte cookie if the file does not yet exist. groupReadable
// widens the file mode to 0640 for deployments that share the socket with a
// trusted group (§5); the default is 0600, owner-only.
func EnsureCookie(path string, groupReadable bool) (cookie []byte, err error) {
	cookie, err = ioutil.ReadFile(path)
	if err == nil {
		if len(cookie) != CookieLength {
			return nil, fmt.Errorf("authcookie: existing cookie at %s is %d bytes, want %d", path, len(cookie), CookieLength)
		}
		return cookie, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	cookie = make([]byte, CookieLength)
	if _, err = rand.Read(cookie); err != nil {
		return nil, err
	}

	mode := os.FileMode(0600)
	if groupReadable {
		mode = 0640
	}
	if err = ioutil2.WriteFileAtomic(path, cookie, mode); err != nil {
		return nil, err
	}
	return cookie, nil
}

// Remove deletes the cookie file, e.g. on clean daemon shutdown (§5); a
// missing file is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
