package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yashrajoria/sneakershop/models"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoSessionCartStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoSessionCartStore stores one item per session, expired by the table's TTL on
// expires_at. A positive ttl is pushed forward on every Load and Save.
type DynamoSessionCartStore struct {
	client DynamoAPI
	table  string
	ttl    time.Duration
	now    func() time.Time
}

func NewDynamoSessionCartStore(client DynamoAPI, table string, ttl time.Duration) *DynamoSessionCartStore {
	return &DynamoSessionCartStore{client: client, table: table, ttl: ttl, now: time.Now}
}

type ddbSessionCart struct {
	SessionID string                   `dynamodbav:"session_id"`
	Items     []models.SessionCartItem `dynamodbav:"items"`
	ExpiresAt int64                    `dynamodbav:"expires_at,omitempty"`
	UpdatedAt string                   `dynamodbav:"updated_at"`
}

func (r *DynamoSessionCartStore) Load(ctx context.Context, sessionID string) ([]models.SessionCartItem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return []models.SessionCartItem{}, nil
	}

	var cart ddbSessionCart
	if err := attributevalue.UnmarshalMap(out.Item, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal session cart: %w", err)
	}
	// TTL deletion is lazy, so expired items can still be returned
	if cart.ExpiresAt > 0 && r.now().Unix() > cart.ExpiresAt {
		return []models.SessionCartItem{}, nil
	}
	if cart.Items == nil {
		cart.Items = []models.SessionCartItem{}
	}
	if r.ttl > 0 {
		if err := r.touch(ctx, key); err != nil {
			return nil, err
		}
	}
	return cart.Items, nil
}

func (r *DynamoSessionCartStore) touch(ctx context.Context, key map[string]types.AttributeValue) error {
	expiresAt := strconv.FormatInt(r.now().Add(r.ttl).Unix(), 10)
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.table,
		Key:                 key,
		UpdateExpression:    aws.String("SET expires_at = :e"),
		ConditionExpression: aws.String("attribute_exists(session_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberN{Value: expiresAt},
		},
	})
	var condErr *types.ConditionalCheckFailedException
	if err != nil && !errors.As(err, &condErr) {
		return fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}
	return nil
}

func (r *DynamoSessionCartStore) Save(ctx context.Context, sessionID string, items []models.SessionCartItem) error {
	now := r.now()
	cart := ddbSessionCart{
		SessionID: sessionID,
		Items:     items,
		UpdatedAt: now.Format(time.RFC3339),
	}
	if cart.Items == nil {
		cart.Items = []models.SessionCartItem{}
	}
	if r.ttl > 0 {
		cart.ExpiresAt = now.Add(r.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(cart)
	if err != nil {
		return fmt.Errorf("marshal session cart: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoSessionCartStore) Delete(ctx context.Context, sessionID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
