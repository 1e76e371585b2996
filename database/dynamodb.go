package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/logger"
)

const defaultTableWait = 2 * time.Minute

// NewDynamoClient builds a DynamoDB client and makes sure the session cart table exists.
// The table is keyed by session_id and expires items through the expires_at TTL attribute.
func NewDynamoClient(ctx context.Context, cfg sdkaws.Config, table string) (*dynamodb.Client, error) {
	client := dynamodb.NewFromConfig(cfg)

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: sdkaws.String(table)})
	if err == nil {
		return client, nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: sdkaws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: sdkaws.String("session_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: sdkaws.String("session_id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: sdkaws.String(table)}, defaultTableWait); err != nil {
		return nil, fmt.Errorf("wait for table %s: %w", table, err)
	}

	_, err = client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: sdkaws.String(table),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: sdkaws.String("expires_at"),
			Enabled:       sdkaws.Bool(true),
		},
	})
	if err != nil {
		logger.Log.Warn("Failed to enable TTL on session cart table", zap.String("table", table), zap.Error(err))
	}

	logger.Log.Info("Created DynamoDB table", zap.String("table", table))
	return client, nil
}
