package bcrypt

import "encoding/base64"

// bcrypt's radix-64 alphabet differs from both standard and URL-safe
// base64 only in character ordering, so the stdlib's custom-alphabet
// encoding.Encoding covers it exactly; no bit-packing logic of our own
// is needed, just the right table and no padding.
const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var encoding = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)

func encodeRadix64(src []byte) []byte {
	dst := make([]byte, encoding.EncodedLen(len(src)))
	encoding.Encode(dst, src)
	return dst
}

func decodeRadix64(src []byte) ([]byte, error) {
	dst := make([]byte, encoding.DecodedLen(len(src)))
	n, err := encoding.Decode(dst, src)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
