package datasource

import (
	"context"

	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoClient is the subset of the aws-sdk-go-v2 DynamoDB client the data
// source needs. *dynamodb.Client satisfies it.
type DynamoClient interface {
	GetItem(ctx context.Context, params *dynamodbv2.GetItemInput, optFns ...func(*dynamodbv2.Options)) (*dynamodbv2.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodbv2.PutItemInput, optFns ...func(*dynamodbv2.Options)) (*dynamodbv2.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodbv2.UpdateItemInput, optFns ...func(*dynamodbv2.Options)) (*dynamodbv2.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodbv2.DeleteItemInput, optFns ...func(*dynamodbv2.Options)) (*dynamodbv2.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodbv2.QueryInput, optFns ...func(*dynamodbv2.Options)) (*dynamodbv2.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodbv2.ScanInput, optFns ...func(*dynamodbv2.Options)) (*dynamodbv2.ScanOutput, error)
}
