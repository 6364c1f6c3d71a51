// Package cryptox implements the symmetric cipher used for wallet fields.
//
// Keys are derived deterministically from a master-key string, so any holder
// of the master key can decrypt any wallet encrypted under it without a
// separate key store. Ciphertexts are self-contained string tokens carrying
// everything needed for verification and decryption.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

// ErrAuthenticationFailed is returned by Decrypt when a token does not verify
// under the given master key: wrong key, tampered ciphertext, or a token that
// does not parse at all. Callers must not be able to tell these apart.
var ErrAuthenticationFailed = errors.New("authentication failed")

const (
	tokenVersion = 0x01
	headerSize   = 1 + 8 // version byte + big-endian unix timestamp
	nonceSize    = 12
)

// DeriveKey maps a master-key string to a 32-byte AES-256 key. The mapping is
// a plain SHA-256 of the UTF-8 bytes, so the same master key always yields
// the same key material.
func DeriveKey(masterKey string) []byte {
	digest := sha256.Sum256([]byte(masterKey))
	return digest[:]
}

func newGCM(masterKey string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(masterKey))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext under the key derived from masterKey and returns a
// base64url token: version byte, creation timestamp, random nonce, then the
// AES-GCM ciphertext with its tag. The header is bound to the ciphertext as
// GCM additional data. A fresh nonce is generated on every call, so the same
// plaintext never produces the same token twice.
func Encrypt(plaintext string, masterKey string) (string, error) {

	aesgcm, err := newGCM(masterKey)
	if err != nil {
		return "", err
	}

	header := make([]byte, headerSize)
	header[0] = tokenVersion
	binary.BigEndian.PutUint64(header[1:], uint64(time.Now().Unix()))

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	token := make([]byte, 0, headerSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	token = append(token, header...)
	token = append(token, nonce...)
	token = aesgcm.Seal(token, nonce, []byte(plaintext), header)

	return base64.RawURLEncoding.EncodeToString(token), nil
}

// Decrypt reverses Encrypt. Any failure (undecodable token, truncated
// layout, unknown version, or a tag that does not verify) is reported as
// ErrAuthenticationFailed. A wrong master key is an expected outcome for
// callers probing wallet ownership, not an exceptional one.
func Decrypt(token string, masterKey string) (string, error) {

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	if len(raw) < headerSize+nonceSize || raw[0] != tokenVersion {
		return "", ErrAuthenticationFailed
	}

	header := raw[:headerSize]
	nonce := raw[headerSize : headerSize+nonceSize]
	ciphertext := raw[headerSize+nonceSize:]

	aesgcm, err := newGCM(masterKey)
	if err != nil {
		return "", err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	return string(plaintext), nil
}
