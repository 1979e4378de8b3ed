package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/require"

	"github.com/cachekit/ddbsource/table"
)

func TestGet_CacheHitSkipsStore(t *testing.T) {
	item := table.Item{"id": s("x"), "v": n("1")}
	// The store is scripted to fail: a hit must never reach it.
	ddb := &mockDynamo{getErr: errors.New("store must not be called")}
	fc := newFakeCache()
	fc.entries["c:t:id-x"] = fakeEntry{data: encode(t, item), ttl: time.Minute}
	src := newTestSource(t, testTable, ddb, fc)

	got, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, item, got)
	require.Empty(t, ddb.getInputs)
}

func TestGet_CacheMissFetchesAndPopulates(t *testing.T) {
	item := table.Item{"id": s("x"), "v": n("1")}
	ddb := &mockDynamo{getOutput: &dynamodbv2.GetItemOutput{Item: item}}
	fc := newFakeCache()
	src := newTestSource(t, testTable, ddb, fc)

	got, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, item, got)

	require.Len(t, ddb.getInputs, 1)
	require.Equal(t, []string{"c:t:id-x"}, fc.setKeys)
	require.Equal(t, time.Minute, fc.entries["c:t:id-x"].ttl)

	cached, err := JSONCodec().Decode(fc.entries["c:t:id-x"].data)
	require.NoError(t, err)
	require.Equal(t, item, cached)
}

func TestGet_NoTTLDoesNotPopulate(t *testing.T) {
	item := table.Item{"id": s("x"), "v": n("1")}
	ddb := &mockDynamo{getOutput: &dynamodbv2.GetItemOutput{Item: item}}
	fc := newFakeCache()
	src := newTestSource(t, testTable, ddb, fc)

	got, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, 0)
	require.NoError(t, err)
	require.Equal(t, item, got)
	require.Empty(t, fc.setKeys)
}

func TestGet_SortKeyTableDerivesCompositeCacheKey(t *testing.T) {
	item := table.Item{"id": s("x"), "ts": s("2020"), "v": n("1")}
	ddb := &mockDynamo{getOutput: &dynamodbv2.GetItemOutput{Item: item}}
	fc := newFakeCache()
	src := newTestSource(t, testTableWithSort, ddb, fc)

	key := table.Item{"id": s("x"), "ts": s("2020")}
	_, err := src.Get(context.Background(), GetRequest{Key: key}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []string{"c:t:id-x:ts-2020"}, fc.setKeys)
}

func TestGet_CacheReadFailureFallsThroughToStore(t *testing.T) {
	item := table.Item{"id": s("x"), "v": n("1")}
	ddb := &mockDynamo{getOutput: &dynamodbv2.GetItemOutput{Item: item}}
	fc := newFakeCache()
	fc.failGet = errors.New("redis connection refused")
	src := newTestSource(t, testTable, ddb, fc)

	got, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, 0)
	require.NoError(t, err)
	require.Equal(t, item, got)
	require.Len(t, ddb.getInputs, 1)
}

func TestGet_UndecodableCacheEntryTreatedAsMiss(t *testing.T) {
	item := table.Item{"id": s("x"), "v": n("1")}
	ddb := &mockDynamo{getOutput: &dynamodbv2.GetItemOutput{Item: item}}
	fc := newFakeCache()
	fc.entries["c:t:id-x"] = fakeEntry{data: []byte("{not json"), ttl: time.Minute}
	src := newTestSource(t, testTable, ddb, fc)

	got, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, 0)
	require.NoError(t, err)
	require.Equal(t, item, got)
	require.Len(t, ddb.getInputs, 1)
}

func TestGet_StoreErrorSurfaces(t *testing.T) {
	cause := errors.New("throughput exceeded")
	ddb := &mockDynamo{getErr: cause}
	src := newTestSource(t, testTable, ddb, newFakeCache())

	_, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, time.Minute)
	require.ErrorIs(t, err, cause)
	require.ErrorContains(t, err, "failed to look up item")
}

func TestGet_AbsentRecordIsNotCached(t *testing.T) {
	ddb := &mockDynamo{} // GetItem returns no item
	fc := newFakeCache()
	src := newTestSource(t, testTable, ddb, fc)

	got, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, time.Minute)
	require.NoError(t, err)
	require.Nil(t, got)
	require.Empty(t, fc.setKeys)
}

func TestGet_CacheWriteFailureIsCacheError(t *testing.T) {
	item := table.Item{"id": s("x"), "v": n("1")}
	ddb := &mockDynamo{getOutput: &dynamodbv2.GetItemOutput{Item: item}}
	fc := newFakeCache()
	fc.failSet = errors.New("oom")
	src := newTestSource(t, testTable, ddb, fc)

	_, err := src.Get(context.Background(), GetRequest{Key: table.Item{"id": s("x")}}, time.Minute)
	var cerr *CacheError
	require.ErrorAs(t, err, &cerr)
	require.ErrorContains(t, err, "cache operation failed")
	require.ErrorContains(t, err, "oom")
}

func TestGet_ForwardsReadOptions(t *testing.T) {
	ddb := &mockDynamo{}
	src := newTestSource(t, testTable, ddb, newFakeCache())

	_, err := src.Get(context.Background(), GetRequest{
		Key:            table.Item{"id": s("x")},
		ConsistentRead: true,
		Projection:     []string{"id", "v"},
	}, 0)
	require.NoError(t, err)
	require.Len(t, ddb.getInputs, 1)

	input := ddb.getInputs[0]
	require.Equal(t, "t", *input.TableName)
	require.True(t, *input.ConsistentRead)
	require.NotNil(t, input.ProjectionExpression)
}
