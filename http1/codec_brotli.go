package http1

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
)

// BrotliService is the CodecService for the "br" content-coding.
type BrotliService struct{}

// NewBrotliService returns the brotli decode service.
func NewBrotliService() *BrotliService { return &BrotliService{} }

func (*BrotliService) NewDecoder(int) (Decoder, error) {
	staged := bytes.NewBuffer(nil)
	return &brotliDecoder{staged: staged, br: brotli.NewReader(staged)}, nil
}

// brotliDecoder adapts andybalholm/brotli.Reader, which like the
// klauspost zlib-family readers is pull-based, to the push-style
// Decoder contract using the same growing-buffer bridge.
type brotliDecoder struct {
	staged *bytes.Buffer
	br     *brotli.Reader
	eos    bool
}

func (d *brotliDecoder) Push(in []byte) (out []byte, consumed int, eos bool, err error) {
	d.staged.Write(in)
	consumed = len(in)

	buf := make([]byte, 32*1024)
	var produced []byte
	for {
		n, rerr := d.br.Read(buf)
		if n > 0 {
			produced = append(produced, buf[:n]...)
		}
		if rerr == io.EOF {
			d.eos = true
			break
		}
		if rerr != nil {
			if rerr == io.ErrUnexpectedEOF {
				break
			}
			return produced, consumed, false, rerr
		}
		if n == 0 {
			break
		}
	}
	return produced, consumed, d.eos, nil
}

func (d *brotliDecoder) Close() error { return nil }

// identityDecoder passes bytes through unchanged; used when a message's
// Content-Encoding is absent or "identity" so the body pipeline has a
// uniform Decoder to call regardless of whether a real codec is active.
type identityDecoder struct{}

func (identityDecoder) Push(in []byte) ([]byte, int, bool, error) {
	return in, len(in), false, nil
}

func (identityDecoder) Close() error { return nil }
