package entry

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// cborHandle is the shared serialization handle for ledger entries.
// Canonical mode keeps the byte form deterministic for a given entry.
var cborHandle = func() *codec.CborHandle {
	h := new(codec.CborHandle)
	h.Canonical = true
	return h
}()

func encode(v any) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	return out, nil
}

func decode(data []byte, v any) error {
	dec := codec.NewDecoderBytes(data, cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	return nil
}
