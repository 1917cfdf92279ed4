// Package routerstore is a reference RouterStore: an LRU-cached table of
// posted router descriptors, with optional signature verification and
// secretbox seal/unseal helpers. The store keeps everything in memory and
// writes nothing to disk.
package routerstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/keybase/saltpack"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/oniond/oniond/control"
)

// Store caches up to `capacity` recently posted descriptors, keyed by hex
// digest, with a secondary nickname index. Eviction under memory pressure
// is the cache's job (C10 says nothing about retention policy beyond
// "recent"), which is exactly what golang-lru provides.
type Store struct {
	mu       sync.RWMutex
	cache    *lru.Cache // hex digest -> control.Descriptor
	byNick   map[string]string
	sealKey  *[32]byte // nil: no seal key configured
	verifier saltpack.SigningPublicKey
}

func New(capacity int) (*Store, error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, byNick: make(map[string]string)}, nil
}

// WithSealKey sets the NaCl secretbox key that seal and unseal use.
func (s *Store) WithSealKey(key *[32]byte) *Store {
	s.sealKey = key
	return s
}

// WithVerifier requires every posted descriptor's accompanying saltpack
// signature to verify against pub before it is accepted.
func (s *Store) WithVerifier(pub saltpack.SigningPublicKey) *Store {
	s.verifier = pub
	return s
}

// singleKeyring adapts one known signing public key to saltpack's
// SigKeyring interface; the node trusts exactly one directory signing key
// in this implementation rather than a full keyring.
type singleKeyring struct {
	key saltpack.SigningPublicKey
}

func (k singleKeyring) LookupSigningPublicKey(kid []byte) saltpack.SigningPublicKey {
	if k.key == nil {
		return nil
	}
	if string(k.key.ToKID()) != string(kid) {
		return nil
	}
	return k.key
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// LoadDescriptor parses and stores one posted descriptor. Parsing the
// descriptor body format itself is out of scope (§1); this accepts any
// non-empty body and derives its identity from a content hash plus a
// leading "nickname" line, matching the minimal shape POSTDESCRIPTOR needs
// to exercise.
func (s *Store) LoadDescriptor(body []byte, purpose string, cache bool) (bool, string, error) {
	if len(body) == 0 {
		return false, "empty descriptor", nil
	}
	if s.verifier != nil {
		kr := singleKeyring{key: s.verifier}
		if _, _, err := saltpack.Dearmor62Verify(saltpack.CheckKnownMajorVersion, string(body), kr); err != nil {
			return false, fmt.Sprintf("signature verification failed: %v", err), nil
		}
	}

	hexDigest := digest(body)
	nickname := firstLine(body)

	d := control.Descriptor{
		HexDigest: hexDigest,
		Nickname:  nickname,
		Named:     purpose == "general",
		Raw:       body,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(hexDigest, d)
	s.byNick[nickname] = hexDigest
	return true, "", nil
}

func firstLine(body []byte) string {
	for i, b := range body {
		if b == '\n' {
			return string(body[:i])
		}
	}
	return string(body)
}

func (s *Store) ByHexDigest(hex string) (control.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache.Get(hex)
	if !ok {
		return control.Descriptor{}, false
	}
	return v.(control.Descriptor), true
}

func (s *Store) ByNickname(nick string) (control.Descriptor, bool) {
	s.mu.RLock()
	hexDigest, ok := s.byNick[nick]
	s.mu.RUnlock()
	if !ok {
		return control.Descriptor{}, false
	}
	return s.ByHexDigest(hexDigest)
}

func (s *Store) AllRecent() []control.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.cache.Keys()
	out := make([]control.Descriptor, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.cache.Peek(k); ok {
			out = append(out, v.(control.Descriptor))
		}
	}
	return out
}

func (s *Store) VerboseNickname(hexDigest string) string {
	d, ok := s.ByHexDigest(hexDigest)
	if !ok || d.Nickname == "" {
		return "$" + hexDigest
	}
	return "$" + hexDigest + "~" + d.Nickname
}

// seal returns nonce-prefixed secretbox ciphertext over plaintext under
// the configured seal key; unseal reverses it. Nothing in the store calls
// them or persists their output.
func (s *Store) seal(plaintext []byte, nonce *[24]byte) []byte {
	return secretbox.Seal(nonce[:], plaintext, nonce, s.sealKey)
}

func (s *Store) unseal(blob []byte) ([]byte, bool) {
	if len(blob) < 24 {
		return nil, false
	}
	var nonce [24]byte
	copy(nonce[:], blob[:24])
	return secretbox.Open(nil, blob[24:], &nonce, s.sealKey)
}
