// Package crypto provides the sealed-box primitive the datagram transport
// rides on: a ChaCha20-Poly1305 session keyed once per connection, with an
// explicit 64-bit nonce chosen by the caller.
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the session key length in bytes.
const KeySize = chacha20poly1305.KeySize

var (
	ErrBadKey        = errors.New("invalid session key")
	ErrDecryptFailed = errors.New("packet failed decryption")
)

// Key is a session key. The zero value is not usable; obtain one from
// GenerateKey or ParseKey.
type Key struct {
	bytes [KeySize]byte
}

// GenerateKey returns a fresh random session key.
func GenerateKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k.bytes[:]); err != nil {
		return Key{}, fmt.Errorf("generate key: %w", err)
	}
	return k, nil
}

// ParseKey decodes the unpadded-base64 text form produced by String.
func ParseKey(s string) (Key, error) {
	raw, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("%w: got %d bytes, want %d", ErrBadKey, len(raw), KeySize)
	}
	var k Key
	copy(k.bytes[:], raw)
	return k, nil
}

// String renders the key in the form the server prints at startup.
func (k Key) String() string {
	return base64.RawStdEncoding.EncodeToString(k.bytes[:])
}

// Session seals and opens datagrams for one connection. The 64-bit nonce is
// supplied by the transport (direction bit plus sequence number) and travels
// in the clear ahead of the box so the receiver can open it.
type Session struct {
	aead cipher.AEAD
}

// NewSession creates a session from a key.
func NewSession(key Key) (*Session, error) {
	aead, err := chacha20poly1305.New(key.bytes[:])
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{aead: aead}, nil
}

// nonceBytes expands the 64-bit wire nonce into the AEAD's 96-bit nonce.
func nonceBytes(nonce uint64) []byte {
	n := make([]byte, chacha20poly1305.NonceSize)
	binary.BigEndian.PutUint64(n[4:], nonce)
	return n
}

// Encrypt seals plaintext under nonce. The wire form is the 8-byte big-endian
// nonce followed by the ciphertext and tag.
func (s *Session) Encrypt(nonce uint64, plaintext []byte) []byte {
	out := make([]byte, 8, 8+len(plaintext)+s.aead.Overhead())
	binary.BigEndian.PutUint64(out, nonce)
	return s.aead.Seal(out, nonceBytes(nonce), plaintext, nil)
}

// Decrypt opens a wire datagram, returning the nonce it was sealed under and
// the plaintext. Any tampering, truncation, or wrong-key input yields
// ErrDecryptFailed.
func (s *Session) Decrypt(coded []byte) (uint64, []byte, error) {
	if len(coded) < 8+s.aead.Overhead() {
		return 0, nil, ErrDecryptFailed
	}
	nonce := binary.BigEndian.Uint64(coded[:8])
	plaintext, err := s.aead.Open(nil, nonceBytes(nonce), coded[8:], nil)
	if err != nil {
		return 0, nil, ErrDecryptFailed
	}
	return nonce, plaintext, nil
}
