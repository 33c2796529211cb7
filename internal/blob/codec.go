package blob

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Shared coders; EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic(err) // only fails on invalid options
	}
	decoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
}

func encode(shot Screenshot) ([]byte, error) {
	packed, err := msgpack.Marshal(&shot)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return encoder.EncodeAll(packed, nil), nil
}

func decode(raw []byte) (*Screenshot, error) {
	packed, err := decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	var shot Screenshot
	if err := msgpack.Unmarshal(packed, &shot); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &shot, nil
}
