package journal

import json "github.com/goccy/go-json"

// Codec turns cache keys and values into the byte form the journal stores
// and back again. Spec §4.4 leaves key/value encoding as "the caller's
// serialized form" above the Journal's byte layer; Codec is that pluggable
// boundary. This is the Go analogue of the original Rust AOF, which simply
// required K and V to implement serde's Serialize/Deserialize generically.
type Codec[K comparable, V any] interface {
	EncodeKey(K) ([]byte, error)
	DecodeKey([]byte) (K, error)
	EncodeValue(V) ([]byte, error)
	DecodeValue([]byte) (V, error)
}

// JSONCodec is the default Codec, marshalling keys and values as JSON via
// github.com/goccy/go-json (a drop-in, faster encoding/json replacement) —
// standing in for the original crate's serde_json.
type JSONCodec[K comparable, V any] struct{}

func (JSONCodec[K, V]) EncodeKey(k K) ([]byte, error) { return json.Marshal(k) }

func (JSONCodec[K, V]) DecodeKey(b []byte) (K, error) {
	var k K
	err := json.Unmarshal(b, &k)
	return k, err
}

func (JSONCodec[K, V]) EncodeValue(v V) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec[K, V]) DecodeValue(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
