package http1

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// DeflateService is the CodecService for the "deflate" content-coding.
// RFC 7231 specifies zlib-wrapped deflate for this coding (not raw
// deflate), so decoding goes through klauspost/compress/zlib.
// NewDecoder ignores its windowBits argument, so ParserConfig's
// ZlibWindowBits does not limit the decompression window.
type DeflateService struct{}

// NewDeflateService returns the deflate decode service.
func NewDeflateService() *DeflateService { return &DeflateService{} }

func (*DeflateService) NewDecoder(windowBits int) (Decoder, error) {
	return &deflateDecoder{}, nil
}

type deflateDecoder struct {
	staged *bytes.Buffer
	zr     io.ReadCloser
	eos    bool
}

func (d *deflateDecoder) Push(in []byte) (out []byte, consumed int, eos bool, err error) {
	if d.staged == nil {
		d.staged = bytes.NewBuffer(nil)
	}
	d.staged.Write(in)
	consumed = len(in)

	if d.zr == nil {
		d.zr, err = zlib.NewReader(d.staged)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, consumed, false, nil
		}
		if err != nil {
			return nil, consumed, false, err
		}
	}

	buf := make([]byte, 32*1024)
	var produced []byte
	for {
		n, rerr := d.zr.Read(buf)
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

func (d *deflateDecoder) Close() error {
	if d.zr != nil {
		return d.zr.Close()
	}
	return nil
}

// rawDeflateService decodes the (noncompliant but common in the wild)
// raw-deflate variant some clients send. It is unexported and not wired
// to any content-coding flag, since RFC 7231 specifies the zlib-wrapped
// form.
type rawDeflateService struct{}

func (*rawDeflateService) NewDecoder(int) (Decoder, error) {
	return &rawDeflateDecoder{}, nil
}

type rawDeflateDecoder struct {
	staged *bytes.Buffer
	fr     io.ReadCloser
}

func (d *rawDeflateDecoder) Push(in []byte) ([]byte, int, bool, error) {
	if d.staged == nil {
		d.staged = bytes.NewBuffer(nil)
		d.fr = flate.NewReader(d.staged)
	}
	d.staged.Write(in)
	buf := make([]byte, 32*1024)
	var produced []byte
	eos := false
	for {
		n, err := d.fr.Read(buf)
		if n > 0 {
			produced = append(produced, buf[:n]...)
		}
		if err == io.EOF {
			eos = true
			break
		}
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				break
			}
			return produced, len(in), false, err
		}
		if n == 0 {
			break
		}
	}
	return produced, len(in), eos, nil
}

func (d *rawDeflateDecoder) Close() error {
	if d.fr != nil {
		return d.fr.Close()
	}
	return nil
}
