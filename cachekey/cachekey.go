// Package cachekey derives deterministic, human-readable cache identifiers
// from a table name and a record's primary-key attribute values.
//
// Keys have the form
//
//	prefix + tableName + ":" + attrName + "-" + attrValue ...
//
// with one ":name-value" segment per key attribute, in key-schema order
// (partition key first, then sort key). Attribute names and values are not
// escaped: values containing ':' or '-' produce ambiguous but still
// deterministic keys. Known limitation.
package cachekey

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cachekit/ddbsource/table"
)

// Key composes the cache key for a primary key under the given table.
// Two records with the same primary key always yield the same key, whatever
// their other attributes. A key attribute absent from the map contributes an
// empty value segment.
func Key(prefix, tableName string, schema table.KeySchema, key table.Item) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(tableName)
	for _, def := range schema.Elements() {
		b.WriteString(":")
		b.WriteString(def.Name)
		b.WriteString("-")
		b.WriteString(valueString(key[def.Name]))
	}
	return b.String()
}

// BulkMap derives the cache key for every item and associates the full item
// with it. When two items collide on the same derived key, the later item in
// slice order wins.
func BulkMap(prefix, tableName string, schema table.KeySchema, items []table.Item) (map[string]table.Item, error) {
	m := make(map[string]table.Item, len(items))
	for _, item := range items {
		pk, err := schema.ExtractPrimaryKey(item)
		if err != nil {
			return nil, err
		}
		m[Key(prefix, tableName, schema, pk)] = item
	}
	return m, nil
}

func valueString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberB:
		return string(v.Value)
	default:
		return ""
	}
}
