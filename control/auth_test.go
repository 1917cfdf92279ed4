package control

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAuthArgumentEmpty(t *testing.T) {
	arg, err := parseAuthArgument("   ")
	require.NoError(t, err)
	require.Equal(t, []byte{}, arg)
}

func TestParseAuthArgumentHex(t *testing.T) {
	arg, err := parseAuthArgument("48656c6c6f")
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), arg)
}

func TestParseAuthArgumentQuoted(t *testing.T) {
	arg, err := parseAuthArgument(`"hunter2"`)
	require.NoError(t, err)
	require.Equal(t, []byte("hunter2"), arg)
}

func TestParseAuthArgumentBarePlaintextRejected(t *testing.T) {
	_, err := parseAuthArgument("hunter2")
	require.Error(t, err)
}

func TestAuthenticateNoneConfiguredAcceptsAnything(t *testing.T) {
	cfg := &AuthConfig{}
	require.NoError(t, authenticate(cfg, []byte("anything")))
	require.NoError(t, authenticate(cfg, []byte{}))
}

func TestAuthenticateCookie(t *testing.T) {
	cfg := &AuthConfig{CookieEnabled: true, CookieValue: []byte("thecookie0123456789012345678901")}
	require.NoError(t, authenticate(cfg, []byte("thecookie0123456789012345678901")))
	require.Error(t, authenticate(cfg, []byte("wrongcookie")))
}

func TestAuthenticateHashedPassword(t *testing.T) {
	salt := []byte("saltsaltsaltsalt")
	key := deriveHashedPasswordKey("hunter2", HashedPassword{Salt: salt, Iterations: 100, Digest: make([]byte, 32)})
	cfg := &AuthConfig{HashedPasswords: []HashedPassword{{Salt: salt, Iterations: 100, Digest: key}}}
	require.NoError(t, authenticate(cfg, []byte("hunter2")))
	require.Error(t, authenticate(cfg, []byte("wrongpassword")))
}
