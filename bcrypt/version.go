package bcrypt

// Version selects the hash string's "$2x$" prefix. Both versions run the
// identical EKS-Blowfish schedule in this implementation: Go's byte type
// has no signed/unsigned ambiguity, so the historical v2a defect this
// distinguishes from v2b (mis-terminating the password buffer once its
// length counter wrapped past 255 bytes in the original C
// implementations) has no analogue here. The tag is preserved purely so
// hashes round-trip through GetRounds and Compare with whichever prefix
// they were minted under.
type Version byte

const (
	// V2a is the "$2a$" prefix.
	V2a Version = 'a'
	// V2b is the "$2b$" prefix, the recommended default.
	V2b Version = 'b'
)

func (v Version) valid() bool {
	return v == V2a || v == V2b
}

func (v Version) String() string {
	switch v {
	case V2a:
		return "2a"
	case V2b:
		return "2b"
	default:
		return "2?"
	}
}
