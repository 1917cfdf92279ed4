package control

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

var (
	errPlainTextPassword = errors.New(`Authentication failed: Password did not match any of expected types. The standard protocol of supplying a password as "hunter2" is to quote it with double quotes: AUTHENTICATE "hunter2"`)
	errBadHex            = errors.New("Authentication failed: invalid hex-encoded password")
	errBadCookieLength   = errors.New("Authentication failed: wrong cookie length")
	errBadPassword       = errors.New("Authentication failed: wrong password")
)

// parseAuthArgument decodes the trailing argument of an AUTHENTICATE
// command per §4.4: hex of even length, empty/whitespace-only (zero
// length password), or a backslash-escaped quoted string. A bare
// unquoted non-hex token is rejected with a diagnostic steering the
// operator toward quoting.
func parseAuthArgument(arg string) ([]byte, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return []byte{}, nil
	}
	if arg[0] == '"' {
		decoded, rest, err := unquote(arg)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(rest) != "" {
			return nil, errors.New("Authentication failed: trailing data after quoted password")
		}
		return []byte(decoded), nil
	}
	if isHex(arg) {
		decoded, err := hex.DecodeString(arg)
		if err != nil {
			return nil, errBadHex
		}
		return decoded, nil
	}
	return nil, errPlainTextPassword
}

func isHex(s string) bool {
	if len(s)%2 != 0 || len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// deriveHashedPasswordKey derives a comparison key from a provided
// password against one configured salted-hash entry. The iteration
// encoding itself is treated as an opaque collaborator contract (see
// DESIGN.md, Open Question 1); PBKDF2-HMAC-SHA256 is the concrete
// derivation this implementation has chosen for that contract.
func deriveHashedPasswordKey(password string, h HashedPassword) []byte {
	return pbkdf2.Key([]byte(password), h.Salt, h.Iterations, len(h.Digest), sha256.New)
}

// authenticate implements the AUTHENTICATE acceptance rule of §4.4: a
// match against either credential kind (if configured) accepts; if
// neither is configured, any input accepts. Comparisons are
// constant-time.
func authenticate(cfg *AuthConfig, password []byte) error {
	if !cfg.anyConfigured() {
		return nil
	}

	var cookieErr, passwordErr error

	if cfg.CookieEnabled {
		if len(password) != len(cfg.CookieValue) {
			cookieErr = errBadCookieLength
		} else if subtle.ConstantTimeCompare(password, cfg.CookieValue) == 1 {
			return nil
		} else {
			cookieErr = errBadPassword
		}
	}

	if len(cfg.HashedPasswords) > 0 {
		matched := false
		for _, h := range cfg.HashedPasswords {
			key := deriveHashedPasswordKey(string(password), h)
			if subtle.ConstantTimeCompare(key, h.Digest) == 1 {
				matched = true
			}
		}
		if matched {
			return nil
		}
		passwordErr = errBadPassword
	}

	if cfg.CookieEnabled && cookieErr != nil {
		return cookieErr
	}
	if passwordErr != nil {
		return passwordErr
	}
	return errBadPassword
}
