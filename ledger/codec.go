package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack"
)

// Codec produces the canonical byte form of a payload. The same logical
// payload must always encode to the same bytes.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
}

// Registered codecs.
var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

var codecs = map[string]Codec{
	JSON.Name():    JSON,
	Msgpack.Name(): Msgpack,
}

// CodecByName resolves "json" or "msgpack".
func CodecByName(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// jsonCodec keeps struct fields in declaration order and map keys sorted.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// msgpackCodec sorts the keys of map[string]string and map[string]interface{}
// values; payloads with other map types are not canonical under this codec.
type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf).SortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
