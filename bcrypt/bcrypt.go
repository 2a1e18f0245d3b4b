// Package bcrypt implements the bcrypt adaptive password-hashing scheme
// (Provos & Mazieres), built on the Eksblowfish key schedule: a Blowfish
// key expansion interleaved with the password and salt and iterated
// 2^cost times before being used to encrypt a fixed plaintext.
//
// The low-level Blowfish block cipher and its key-expansion primitives
// come from golang.org/x/crypto/blowfish (NewSaltedCipher, ExpandKey);
// the EKS iteration loop, salt/hash string format, and password-length
// handling are this package's own, grounded on the bcrypt algorithm
// description and the gen_salt/hash/compare/get_rounds surface in
// boost.http.bcrypt (see original_source's bcrypt headers).
package bcrypt

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

const (
	// MinRounds and MaxRounds bound the cost factor; each increment
	// doubles the key-schedule iteration count.
	MinRounds = 4
	MaxRounds = 31

	// DefaultRounds is a suggested cost factor for callers; GenerateSalt
	// and Hash always take an explicit cost and do not apply it.
	DefaultRounds = 10

	// MaxPasswordLen is bcrypt's historical password-length cap: bytes
	// beyond this are silently ignored, matching every widely deployed
	// bcrypt implementation.
	MaxPasswordLen = 72

	saltLen      = 16 // raw salt bytes, before radix-64 encoding
	saltEncoded  = 22 // ceil(16*8/6), bcrypt salts never need padding
	hashEncoded  = 31 // ceil(23*8/6)
	encodedTotal = 7 + saltEncoded + hashEncoded // "$2b$NN$" + salt + hash
)

// magicCipherText is "OrpheanBeholderScryDoubt" split into three
// 64-bit Blowfish blocks; the fixed plaintext the EKS-keyed cipher
// encrypts 64 times to produce the hash output.
var magicCipherText = []byte{
	0x4f, 0x72, 0x70, 0x68, 0x65, 0x61, 0x6e, 0x42,
	0x65, 0x68, 0x6f, 0x6c, 0x64, 0x65, 0x72, 0x53,
	0x63, 0x72, 0x79, 0x44, 0x6f, 0x75, 0x62, 0x74,
}

// GenerateSalt returns a fresh "$2x$NN$<22 chars>" salt string for use
// with HashWithSalt, drawing its 16 random bytes from crypto/rand.
func GenerateSalt(rounds int, ver Version) (string, error) {
	if rounds < MinRounds || rounds > MaxRounds {
		return "", ErrRoundsOutOfRange
	}
	if !ver.valid() {
		panicPrecondition("unknown bcrypt version")
	}

	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("bcrypt: generating salt: %w", err)
	}
	return formatSalt(ver, rounds, raw), nil
}

// Hash generates a random salt at rounds and returns the full 60-byte
// bcrypt hash string for password.
func Hash(password []byte, rounds int) (string, error) {
	salt, err := GenerateSalt(rounds, V2b)
	if err != nil {
		return "", err
	}
	return HashWithSalt(password, salt)
}

// HashWithSalt hashes password against a previously generated salt
// string (from GenerateSalt, or extracted from an existing hash), and
// returns the full 60-byte hash string.
func HashWithSalt(password []byte, salt string) (string, error) {
	ver, rounds, rawSalt, err := parseSalt(salt)
	if err != nil {
		return "", err
	}
	if len(password) > MaxPasswordLen {
		password = password[:MaxPasswordLen]
	}

	c, err := eksBlowfishSetup(password, rounds, rawSalt)
	if err != nil {
		return "", err
	}

	cipherText := append([]byte(nil), magicCipherText...)
	for i := 0; i < 24; i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(cipherText[i:i+8], cipherText[i:i+8])
		}
	}
	// bcrypt drops the final byte of the 24-byte ciphertext before
	// encoding, matching every interoperable implementation's 23-byte,
	// 31-character hash field.
	encodedHash := encodeRadix64(cipherText[:23])

	return formatSalt(ver, rounds, rawSalt) + string(encodedHash), nil
}

// Compare reports whether password matches hashed, a full "$2x$NN$..."
// hash string as returned by Hash or HashWithSalt. It re-derives the
// salt and cost from hashed, re-hashes password under them, and
// compares in constant time.
func Compare(password []byte, hashed string) error {
	salt, hashPart, err := splitHash(hashed)
	if err != nil {
		return err
	}
	candidate, err := HashWithSalt(password, salt)
	if err != nil {
		return err
	}
	_, candidateHash, err := splitHash(candidate)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(candidateHash), []byte(hashPart)) == 1 {
		return nil
	}
	return ErrMismatchedHashAndPassword
}

// GetRounds extracts the cost factor encoded in hashed without doing
// any hashing work.
func GetRounds(hashed string) (int, error) {
	_, rounds, _, err := parseSalt(hashed)
	if err != nil {
		return 0, ErrInvalidHash
	}
	return rounds, nil
}

// eksBlowfishSetup runs the Eksblowfish key schedule: an ordinary
// salted Blowfish key expansion, followed by 2^cost rounds alternately
// re-expanding the key schedule against the password and then the
// salt. This is the "expensive" half of bcrypt's cost factor; the
// cipher returned has already paid for the full 2^cost iterations.
func eksBlowfishSetup(password []byte, rounds int, salt []byte) (*blowfish.Cipher, error) {
	key := append(password[:len(password):len(password)], 0)

	c, err := blowfish.NewSaltedCipher(key, salt)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: blowfish setup: %w", err)
	}

	iterations := uint64(1) << uint(rounds)
	for i := uint64(0); i < iterations; i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(salt, c)
	}
	return c, nil
}
