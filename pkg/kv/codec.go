package kv

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Codec turns typed values into the bytes a Store keeps.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// NewCodec returns the codec registered under name; empty means json.
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON{}, nil
	case "cbor":
		return newCBOR()
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// JSON is the default codec; stored collections stay readable by any
// JSON tool.
type JSON struct{}

func (JSON) Name() string                       { return "json" }
func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// CBOR uses Core Deterministic Encoding. Struct json tags are honored and
// TextMarshaler types travel as text strings, so both codecs agree on shape.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBOR() (CBOR, error) {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	enc, err := encOptions.EncMode()
	if err != nil {
		return CBOR{}, fmt.Errorf("cbor encoder: %w", err)
	}

	dec, err := cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		return CBOR{}, fmt.Errorf("cbor decoder: %w", err)
	}
	return CBOR{enc: enc, dec: dec}, nil
}

func (CBOR) Name() string                         { return "cbor" }
func (c CBOR) Marshal(v any) ([]byte, error)      { return c.enc.Marshal(v) }
func (c CBOR) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }
