package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/ogawa/format"
)

var s2WriterPool = sync.Pool{
	New: func() any {
		return s2.NewWriter(nil, s2.WriterConcurrency(1))
	},
}

// S2Codec compresses archives into the S2 stream format. Decompress also
// accepts Snappy framed streams.
type S2Codec struct{}

var _ Codec = S2Codec{}

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Type returns format.CompressionS2.
func (c S2Codec) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress encodes data as an S2 stream.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, _ := s2WriterPool.Get().(*s2.Writer)
	defer s2WriterPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decodes an S2 or Snappy stream.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := io.ReadAll(s2.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, corrupt("s2", err)
	}

	return decompressed, nil
}
