package datasource

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cachekit/ddbsource/table"
)

// GetRequest identifies a single record to fetch. Read options are forwarded
// to DynamoDB verbatim.
type GetRequest struct {
	// Key holds the primary key attributes of the record.
	Key table.Item
	// ConsistentRead requests a strongly consistent read.
	ConsistentRead bool
	// Projection optionally limits which attributes are returned.
	Projection []string
}

func (r GetRequest) toInput(tableName string) (*dynamodbv2.GetItemInput, error) {
	input := &dynamodbv2.GetItemInput{
		TableName:      &tableName,
		Key:            r.Key,
		ConsistentRead: ptr(r.ConsistentRead),
	}
	if len(r.Projection) > 0 {
		expr, err := buildProjectionExpression(r.Projection)
		if err != nil {
			return nil, fmt.Errorf("failed to build projection: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}
	return input, nil
}

// QueryRequest describes a key-condition query. Expressions are built with
// the aws expression package and forwarded opaquely.
type QueryRequest struct {
	// KeyCondition is required.
	KeyCondition expression.KeyConditionBuilder
	// Filter optionally narrows the result set after the key condition.
	Filter expression.ConditionBuilder
	// IndexName queries a secondary index instead of the table.
	IndexName *string
	// Limit caps the page size per DynamoDB call, not the total result count.
	Limit *int32
	// Descending reverses the sort-key order.
	Descending bool
	// ConsistentRead requests strongly consistent reads (table queries only).
	ConsistentRead bool
	// ExclusiveStartKey resumes from a prior LastEvaluatedKey.
	ExclusiveStartKey table.Item
}

func (r QueryRequest) toInput(tableName string) (*dynamodbv2.QueryInput, error) {
	b := expression.NewBuilder().WithKeyCondition(r.KeyCondition)
	if r.Filter.IsSet() {
		b = b.WithFilter(r.Filter)
	}
	expr, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}
	return &dynamodbv2.QueryInput{
		TableName:                 &tableName,
		IndexName:                 r.IndexName,
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            ptr(r.ConsistentRead),
		Limit:                     r.Limit,
		ScanIndexForward:          ptr(!r.Descending),
		ExclusiveStartKey:         r.ExclusiveStartKey,
	}, nil
}

// ScanRequest describes a full-table scan. The pagination token is passed
// through unchanged; callers drive pagination themselves.
type ScanRequest struct {
	// Filter optionally narrows the result set.
	Filter expression.ConditionBuilder
	// IndexName scans a secondary index instead of the table.
	IndexName *string
	// Limit caps the number of evaluated items.
	Limit *int32
	// ConsistentRead requests strongly consistent reads (table scans only).
	ConsistentRead bool
	// ExclusiveStartKey resumes from a prior LastEvaluatedKey.
	ExclusiveStartKey table.Item
}

func (r ScanRequest) toInput(tableName string) (*dynamodbv2.ScanInput, error) {
	input := &dynamodbv2.ScanInput{
		TableName:         &tableName,
		IndexName:         r.IndexName,
		ConsistentRead:    ptr(r.ConsistentRead),
		Limit:             r.Limit,
		ExclusiveStartKey: r.ExclusiveStartKey,
	}
	if r.Filter.IsSet() {
		expr, err := expression.NewBuilder().WithFilter(r.Filter).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build scan expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	return input, nil
}

// PutRequest writes a full record.
type PutRequest struct {
	// Item is the full record to write, key attributes included.
	Item table.Item
	// Condition optionally makes the write conditional. A failed condition
	// check propagates as a store error.
	Condition expression.ConditionBuilder
}

func (r PutRequest) toInput(tableName string) (*dynamodbv2.PutItemInput, error) {
	input := &dynamodbv2.PutItemInput{
		TableName: &tableName,
		Item:      r.Item,
	}
	if r.Condition.IsSet() {
		expr, err := expression.NewBuilder().WithCondition(r.Condition).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build put condition: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	return input, nil
}

// UpdateRequest applies a partial update to the record at Key and requests
// the post-update record back.
type UpdateRequest struct {
	// Key holds the primary key attributes of the record.
	Key table.Item
	// Update carries the set/remove expressions. Required.
	Update expression.UpdateBuilder
	// Condition optionally makes the update conditional.
	Condition expression.ConditionBuilder
}

func (r UpdateRequest) toInput(tableName string) (*dynamodbv2.UpdateItemInput, error) {
	b := expression.NewBuilder().WithUpdate(r.Update)
	if r.Condition.IsSet() {
		b = b.WithCondition(r.Condition)
	}
	expr, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}
	return &dynamodbv2.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       r.Key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}, nil
}

// DeleteRequest removes the record at Key.
type DeleteRequest struct {
	// Key holds the primary key attributes of the record.
	Key table.Item
	// Condition optionally makes the delete conditional.
	Condition expression.ConditionBuilder
}

func (r DeleteRequest) toInput(tableName string) (*dynamodbv2.DeleteItemInput, error) {
	input := &dynamodbv2.DeleteItemInput{
		TableName:    &tableName,
		Key:          r.Key,
		ReturnValues: types.ReturnValueAllOld,
	}
	if r.Condition.IsSet() {
		expr, err := expression.NewBuilder().WithCondition(r.Condition).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build delete condition: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	return input, nil
}

func buildProjectionExpression(attributes []string) (expression.Expression, error) {
	var proj expression.ProjectionBuilder
	for i, attr := range attributes {
		if i == 0 {
			proj = expression.NamesList(expression.Name(attr))
		} else {
			proj = proj.AddNames(expression.Name(attr))
		}
	}
	return expression.NewBuilder().WithProjection(proj).Build()
}
