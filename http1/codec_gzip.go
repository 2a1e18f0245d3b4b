package http1

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipService is the CodecService for the "gzip" content-coding,
// installed into a Container under this type. It is backed by
// klauspost/compress/gzip rather than stdlib compress/gzip, matching
// the throughput-oriented codec choice the rest of this toolkit's
// lineage (the shockwave engine) pulls in for its compression path.
type GzipService struct{}

// NewGzipService returns the gzip decode service.
func NewGzipService() *GzipService { return &GzipService{} }

func (*GzipService) NewDecoder(int) (Decoder, error) {
	return &gzipDecoder{}, nil
}

// gzipDecoder adapts klauspost/compress/gzip.Reader to the push-style
// Decoder contract. gzip.Reader is pull-based (it owns an io.Reader), so
// the decoder buffers pushed input in a bytes.Buffer and feeds it
// through an io.Pipe-free bridge: each Push appends to an internal
// staging buffer and drains whatever the gzip reader can produce from
// it without blocking.
type gzipDecoder struct {
	staged *bytes.Buffer
	gz     *gzip.Reader
	eos    bool
}

func (d *gzipDecoder) Push(in []byte) (out []byte, consumed int, eos bool, err error) {
	if d.staged == nil {
		d.staged = bytes.NewBuffer(nil)
	}
	d.staged.Write(in)
	consumed = len(in)

	if d.gz == nil {
		d.gz, err = gzip.NewReader(d.staged)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			// Header not fully buffered yet; wait for more input.
			return nil, consumed, false, nil
		}
		if err != nil {
			return nil, consumed, false, err
		}
	}

	buf := make([]byte, 32*1024)
	var produced []byte
	for {
		n, rerr := d.gz.Read(buf)
		if n > 0 {
			produced = append(produced, buf[:n]...)
		}
		if rerr == io.EOF {
			d.eos = true
			break
		}
		if rerr != nil {
			if rerr == io.ErrUnexpectedEOF {
				// Ran out of staged bytes; more input needed.
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

func (d *gzipDecoder) Close() error {
	if d.gz != nil {
		return d.gz.Close()
	}
	return nil
}
