package bcrypt

import "errors"

var (
	// ErrInvalidSalt indicates a malformed salt string: wrong length,
	// unrecognized version prefix, or an out-of-range cost factor.
	ErrInvalidSalt = errors.New("bcrypt: invalid salt")

	// ErrInvalidHash indicates a malformed hash string passed to
	// Compare or GetRounds.
	ErrInvalidHash = errors.New("bcrypt: invalid hash")

	// ErrMismatchedHashAndPassword indicates Compare completed
	// successfully but the password does not match the hash.
	ErrMismatchedHashAndPassword = errors.New("bcrypt: hashedPassword is not the hash of the given password")

	// ErrRoundsOutOfRange indicates a cost factor outside [MinRounds,
	// MaxRounds] was requested.
	ErrRoundsOutOfRange = errors.New("bcrypt: rounds out of range")
)

func panicPrecondition(msg string) {
	panic("bcrypt: " + msg)
}
