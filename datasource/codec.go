package datasource

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cachekit/ddbsource/table"
)

// Codec converts records to and from the opaque byte strings stored in the
// cache. Round trips preserve every attribute type representable in the
// underlying encoding.
type Codec interface {
	Encode(item table.Item) ([]byte, error)
	Decode(data []byte) (table.Item, error)
}

// JSONCodec returns the default codec, encoding records as JSON text.
// DynamoDB number attributes decode back as numbers but lose their original
// S/N distinction only where JSON cannot express it (e.g. number sets).
func JSONCodec() Codec {
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Encode(item table.Item) ([]byte, error) {
	var plain map[string]any
	if err := attributevalue.UnmarshalMap(item, &plain); err != nil {
		return nil, err
	}
	return json.Marshal(plain)
}

func (jsonCodec) Decode(data []byte) (table.Item, error) {
	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return attributevalue.MarshalMap(plain)
}

// MsgpackCodec returns a codec encoding records as msgpack, for callers who
// prefer a compact binary cache payload.
func MsgpackCodec() Codec {
	return msgpackCodec{}
}

type msgpackCodec struct{}

func (msgpackCodec) Encode(item table.Item) ([]byte, error) {
	var plain map[string]any
	if err := attributevalue.UnmarshalMap(item, &plain); err != nil {
		return nil, err
	}
	return msgpack.Marshal(plain)
}

func (msgpackCodec) Decode(data []byte) (table.Item, error) {
	var plain map[string]any
	if err := msgpack.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return attributevalue.MarshalMap(plain)
}
