// Package codec abstracts the wire encoding of RPC envelopes so the same
// connection code can speak JSON or CBOR.
package codec

import (
	"fmt"
	"io"
)

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
	NewDecoder(r io.Reader) Decoder
}

// Codec is a named, symmetric encoding.
type Codec interface {
	Marshaler
	Unmarshaler
	// Name is used as the WebSocket subprotocol.
	Name() string
	ContentType() string
}

// ByName returns the codec called "json" or "cbor".
func ByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "cbor":
		return NewCBOR(), nil
	}
	return nil, fmt.Errorf("codec: unknown codec %q", name)
}
