package datasource

import (
	"context"
	"sync"
	"time"

	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/cachekit/ddbsource/cache"
)

// mockDynamo is a scripted DynamoClient that records every input it sees.
type mockDynamo struct {
	getInputs []*dynamodbv2.GetItemInput
	getOutput *dynamodbv2.GetItemOutput
	getErr    error

	putInputs []*dynamodbv2.PutItemInput
	putErr    error

	updateInputs []*dynamodbv2.UpdateItemInput
	updateOutput *dynamodbv2.UpdateItemOutput
	updateErr    error

	deleteInputs []*dynamodbv2.DeleteItemInput
	deleteOutput *dynamodbv2.DeleteItemOutput
	deleteErr    error

	queryInputs  []*dynamodbv2.QueryInput
	queryOutputs []*dynamodbv2.QueryOutput
	queryErr     error

	scanInputs []*dynamodbv2.ScanInput
	scanOutput *dynamodbv2.ScanOutput
	scanErr    error
}

var _ DynamoClient = (*mockDynamo)(nil)

func (m *mockDynamo) GetItem(_ context.Context, params *dynamodbv2.GetItemInput, _ ...func(*dynamodbv2.Options)) (*dynamodbv2.GetItemOutput, error) {
	m.getInputs = append(m.getInputs, params)
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOutput == nil {
		return &dynamodbv2.GetItemOutput{}, nil
	}
	return m.getOutput, nil
}

func (m *mockDynamo) PutItem(_ context.Context, params *dynamodbv2.PutItemInput, _ ...func(*dynamodbv2.Options)) (*dynamodbv2.PutItemOutput, error) {
	m.putInputs = append(m.putInputs, params)
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &dynamodbv2.PutItemOutput{}, nil
}

func (m *mockDynamo) UpdateItem(_ context.Context, params *dynamodbv2.UpdateItemInput, _ ...func(*dynamodbv2.Options)) (*dynamodbv2.UpdateItemOutput, error) {
	m.updateInputs = append(m.updateInputs, params)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateOutput == nil {
		return &dynamodbv2.UpdateItemOutput{}, nil
	}
	return m.updateOutput, nil
}

func (m *mockDynamo) DeleteItem(_ context.Context, params *dynamodbv2.DeleteItemInput, _ ...func(*dynamodbv2.Options)) (*dynamodbv2.DeleteItemOutput, error) {
	m.deleteInputs = append(m.deleteInputs, params)
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	if m.deleteOutput == nil {
		return &dynamodbv2.DeleteItemOutput{}, nil
	}
	return m.deleteOutput, nil
}

// Query pops one scripted output per call, so tests can emulate pagination.
// The input is snapshotted because the caller mutates it between pages.
func (m *mockDynamo) Query(_ context.Context, params *dynamodbv2.QueryInput, _ ...func(*dynamodbv2.Options)) (*dynamodbv2.QueryOutput, error) {
	snapshot := *params
	m.queryInputs = append(m.queryInputs, &snapshot)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if len(m.queryOutputs) == 0 {
		return &dynamodbv2.QueryOutput{}, nil
	}
	out := m.queryOutputs[0]
	m.queryOutputs = m.queryOutputs[1:]
	return out, nil
}

func (m *mockDynamo) Scan(_ context.Context, params *dynamodbv2.ScanInput, _ ...func(*dynamodbv2.Options)) (*dynamodbv2.ScanOutput, error) {
	m.scanInputs = append(m.scanInputs, params)
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	if m.scanOutput == nil {
		return &dynamodbv2.ScanOutput{}, nil
	}
	return m.scanOutput, nil
}

type fakeEntry struct {
	data []byte
	ttl  time.Duration
}

// fakeCache is an in-memory cache.Cache with failure injection and call
// recording. Bulk population writes concurrently, so it locks.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]fakeEntry

	getKeys    []string
	setKeys    []string
	deleteKeys []string

	failGet    error
	failSet    error
	failDelete error
}

var _ cache.Cache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]fakeEntry)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getKeys = append(f.getKeys, key)
	if f.failGet != nil {
		return nil, false, f.failGet
	}
	e, ok := f.entries[key]
	if !ok {
		return nil, false, nil
	}
	return e.data, true, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setKeys = append(f.setKeys, key)
	if f.failSet != nil {
		return f.failSet
	}
	f.entries[key] = fakeEntry{data: value, ttl: ttl}
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteKeys = append(f.deleteKeys, key)
	if f.failDelete != nil {
		return false, f.failDelete
	}
	_, ok := f.entries[key]
	delete(f.entries, key)
	return ok, nil
}
