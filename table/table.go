// Package table describes how records are addressed in DynamoDB: a table
// name plus an ordered key schema (partition key, optional sort key). The
// schema drives primary-key extraction and cache-key derivation.
package table

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a raw DynamoDB record as returned by the SDK.
// Callers use attributevalue.UnmarshalMap to convert to their structs.
type Item = map[string]types.AttributeValue

type Definition struct {
	Name string
	Keys KeySchema
}

// KeySchema declares the key attributes of a table. The partition key is
// required, the sort key is optional (zero Name means none). The declaration
// order (partition first, then sort) is also the composition order for
// derived cache keys.
type KeySchema struct {
	PartitionKey KeyDef
	SortKey      KeyDef
}

type KeyDef struct {
	Name string
	Kind KeyKind
}

type KeyKind string

const (
	KeyKindS KeyKind = "S"
	KeyKindN KeyKind = "N"
	KeyKindB KeyKind = "B"
)

// HasSortKey reports whether the schema declares a sort key.
func (k KeySchema) HasSortKey() bool {
	return k.SortKey.Name != ""
}

// Elements returns the key attribute definitions in schema order.
func (k KeySchema) Elements() []KeyDef {
	if !k.HasSortKey() {
		return []KeyDef{k.PartitionKey}
	}
	return []KeyDef{k.PartitionKey, k.SortKey}
}

// Validate checks that the schema is usable: a named partition key with a
// known kind, and a known kind on the sort key if one is declared.
func (k KeySchema) Validate() error {
	if k.PartitionKey.Name == "" {
		return fmt.Errorf("partition key name is required")
	}
	if err := validKind(k.PartitionKey.Kind); err != nil {
		return fmt.Errorf("partition key %q: %w", k.PartitionKey.Name, err)
	}
	if !k.HasSortKey() {
		return nil
	}
	if err := validKind(k.SortKey.Kind); err != nil {
		return fmt.Errorf("sort key %q: %w", k.SortKey.Name, err)
	}
	return nil
}

func validKind(kind KeyKind) error {
	switch kind {
	case KeyKindS, KeyKindN, KeyKindB:
		return nil
	}
	return fmt.Errorf("unknown key kind %q", kind)
}

// ExtractPrimaryKey extracts exactly the schema's key attributes from a full
// item. The values are carried over unchanged. Missing key attributes and
// kind mismatches are errors.
func (t Definition) ExtractPrimaryKey(item Item) (Item, error) {
	return t.Keys.ExtractPrimaryKey(item)
}

func (k KeySchema) ExtractPrimaryKey(item Item) (Item, error) {
	key := make(Item, 2)
	for _, def := range k.Elements() {
		av, ok := item[def.Name]
		if !ok {
			return nil, fmt.Errorf("key attribute %q not found on item", def.Name)
		}
		if err := attributeMatchesDefinition(def.Kind, av); err != nil {
			return nil, fmt.Errorf("key attribute %q kind does not match definition: %w", def.Name, err)
		}
		key[def.Name] = av
	}
	return key, nil
}

func attributeMatchesDefinition(want KeyKind, v types.AttributeValue) error {
	var got KeyKind
	switch v.(type) {
	case *types.AttributeValueMemberS:
		got = KeyKindS
	case *types.AttributeValueMemberN:
		got = KeyKindN
	case *types.AttributeValueMemberB:
		got = KeyKindB
	default:
		return fmt.Errorf("unexpected key attribute type %T", v)
	}
	if got != want {
		return fmt.Errorf("got KeyKind %q want %q", got, want)
	}
	return nil
}
