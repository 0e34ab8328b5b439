// Package usm implements the RFC 3414 User-based Security Model subset
// spec.md §4.4 calls for: password-to-key localization and per-message
// authentication (no privacy/encryption — spec.md's Non-goals exclude it).
package usm

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"fmt"
	"hash"
	"sync"
)

// AuthProtocol names the keyed-digest algorithm used to localize a
// password and authenticate messages.
type AuthProtocol int

const (
	AuthNone AuthProtocol = iota
	AuthMD5
	AuthSHA
)

func (p AuthProtocol) newHash() func() hash.Hash {
	switch p {
	case AuthSHA:
		return sha1.New
	default:
		return md5.New
	}
}

// Level is the v3 security level spec.md §3 names: noAuth or auth
// (privacy is out of scope).
type Level int

const (
	LevelNoAuth Level = iota
	LevelAuth
)

// passwordCycleLen is the RFC 3414 Appendix A.2 password-cycling length:
// the password is repeated to fill exactly 1,048,576 bytes before the
// first digest pass.
const passwordCycleLen = 1048576

// localize implements RFC 3414 Appendix A.2's password-to-key algorithm:
// cycle the password through 1,048,576 bytes, digest that, then re-digest
// `digest ‖ engineID ‖ digest` to bind the key to the authoritative engine.
func localize(newHash func() hash.Hash, password, engineID string) []byte {
	h := newHash()
	buf := make([]byte, 64)
	pi := 0
	for written := 0; written < passwordCycleLen; written += 64 {
		for i := range buf {
			buf[i] = password[pi%len(password)]
			pi++
		}
		h.Write(buf)
	}
	compressed := h.Sum(nil)

	final := newHash()
	final.Write(compressed)
	final.Write([]byte(engineID))
	final.Write(compressed)
	return final.Sum(nil)
}

// keyCacheEntry caches a localized key for one (password, engineID, protocol) triple.
type keyCacheEntry struct {
	password, engineID string
	protocol           AuthProtocol
	key                []byte
}

// KeyStore caches localized authentication keys so that repeated session
// creation against the same user/engine pair is O(1), per spec.md §4.4.
type KeyStore struct {
	mu      sync.Mutex
	entries []keyCacheEntry
}

// NewKeyStore returns an empty, ready-to-use KeyStore.
func NewKeyStore() *KeyStore { return &KeyStore{} }

// LocalizedKey returns the localized authentication key for password and
// engineID under protocol, computing and caching it on first use.
func (s *KeyStore) LocalizedKey(protocol AuthProtocol, password, engineID string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.protocol == protocol && e.password == password && e.engineID == engineID {
			return e.key
		}
	}
	key := localize(protocol.newHash(), password, engineID)
	s.entries = append(s.entries, keyCacheEntry{password, engineID, protocol, key})
	return key
}

// authParamsLen is the wire length of the USM authentication-parameters
// OCTET STRING, per RFC 3414 §2.6.
const authParamsLen = 12

// Authenticate computes the message digest used to finalize a v3/USM
// message: digest the complete message with the authentication-parameters
// field (the authParamsStart..+12 window) zero-filled, keyed by the
// localized key, and return the leading 12 octets to be patched back in.
//
// msg must already contain authParamsLen zero bytes at authParamsStart;
// Authenticate does not mutate msg.
func Authenticate(protocol AuthProtocol, key []byte, msg []byte, authParamsStart int) ([]byte, error) {
	if authParamsStart < 0 || authParamsStart+authParamsLen > len(msg) {
		return nil, fmt.Errorf("usm: authentication-parameters window out of range")
	}
	mac := hmac.New(protocol.newHash(), key)
	mac.Write(msg)
	digest := mac.Sum(nil)
	if len(digest) < authParamsLen {
		return nil, fmt.Errorf("usm: digest shorter than authentication-parameters field")
	}
	return digest[:authParamsLen], nil
}

// Verify reports whether msg's authentication-parameters field at
// authParamsStart matches the digest computed with key, after
// zero-filling that field the way the sender did before signing.
func Verify(protocol AuthProtocol, key []byte, msg []byte, authParamsStart int) bool {
	if authParamsStart < 0 || authParamsStart+authParamsLen > len(msg) {
		return false
	}
	received := make([]byte, authParamsLen)
	copy(received, msg[authParamsStart:authParamsStart+authParamsLen])

	zeroed := make([]byte, len(msg))
	copy(zeroed, msg)
	clear(zeroed[authParamsStart : authParamsStart+authParamsLen])

	expected, err := Authenticate(protocol, key, zeroed, authParamsStart)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, received)
}
