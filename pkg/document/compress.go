package document

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// zstdMagic is the frame header every zstd stream starts with.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Shared codecs; EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

// Compress returns data as a zstd frame.
func Compress(data []byte) ([]byte, error) {
	enc, err := encoder()
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "zstd encoder")
	}
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

// Decompress reverses [Compress]. Input without the zstd magic number is
// returned unchanged, so callers can accept plain and compressed payloads.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	dec, err := decoder()
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "zstd decoder")
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, &errors.ParseError{Offset: -1, Msg: "corrupt zstd stream", Cause: err}
	}
	return out, nil
}

// IsCompressed reports whether data starts with a zstd frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}
