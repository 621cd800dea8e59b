package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// deriveKey turns an operator-provided master key into a 256-bit AES key
// via SHA-256. Documented in spec.md §4.4 as an interim KDF, swappable for
// HKDF/KMS without changing this package's public interface.
func deriveKey(masterKey string) [32]byte {
	return sha256.Sum256([]byte(masterKey))
}

// randomEphemeralKey is used when no master key is configured. Secrets
// encrypted under it become unrecoverable across process restarts —
// development/demo use only, per spec.md §4.4.
func randomEphemeralKey() [32]byte {
	var k [32]byte
	if _, err := rand.Read(k[:]); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return k
}

// sealedData wraps a plaintext map before encryption so decryption
// recovers the original key/value structure rather than an opaque blob.
type sealedData struct {
	Data map[string]string `json:"data"`
}

// encrypt performs AES-256-GCM authenticated encryption of data with a
// fresh 96-bit random IV, returning (ciphertext, iv, authTag).
func encrypt(key [32]byte, data map[string]string) (ciphertext, iv, authTag []byte, err error) {
	plaintext, err := json.Marshal(sealedData{Data: data})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshaling secret plaintext: %w", err)
	}
	defer zero(plaintext)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("generating iv: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	overhead := gcm.Overhead()
	ciphertext = sealed[:len(sealed)-overhead]
	authTag = sealed[len(sealed)-overhead:]
	return ciphertext, nonce, authTag, nil
}

// decrypt reverses encrypt. Any failure (tampering, wrong key, corruption)
// yields a bare error with no further detail, to avoid oracle leaks — the
// caller maps this to DECRYPTION_FAILED without including err.Error().
func decrypt(key [32]byte, ciphertext, iv, authTag []byte) (map[string]string, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	sealed := append(append([]byte(nil), ciphertext...), authTag...)
	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, err
	}
	defer zero(plaintext)

	var out sealedData
	if err := json.Unmarshal(plaintext, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// zero overwrites a byte slice's contents in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// zeroStringMap overwrites every value in a plaintext map with the empty
// string before the map is dropped, per spec.md §4.4/§5's "plaintext is
// ephemeral" policy.
func zeroStringMap(m map[string]string) {
	for k := range m {
		m[k] = ""
	}
}
