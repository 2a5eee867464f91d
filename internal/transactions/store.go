package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/awsx"
)

// Store is the capability surface for gateway-transaction persistence.
type Store interface {
	// FindByOrderID returns the transaction for an order, or (nil, nil) when
	// none exists.
	FindByOrderID(ctx context.Context, orderID string) (*Transaction, error)
	// Save upserts the transaction record for its order id.
	Save(ctx context.Context, tx Transaction) error
	// UpdateStatus overwrites the transaction_status field.
	UpdateStatus(ctx context.Context, orderID, status string) error
	// GetStatus returns the stored transaction_status, or "" when the record
	// does not exist.
	GetStatus(ctx context.Context, orderID string) (string, error)
}

// DynamoStore implements Store against the transactions table.
type DynamoStore struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewDynamoStore(client awsx.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func (s *DynamoStore) FindByOrderID(ctx context.Context, orderID string) (*Transaction, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var tx Transaction
	if err := attributevalue.UnmarshalMap(out.Item, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return &tx, nil
}

func (s *DynamoStore) Save(ctx context.Context, tx Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.nowFunc()
	}
	item, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (s *DynamoStore) UpdateStatus(ctx context.Context, orderID, status string) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET transaction_status = :st"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":st": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (s *DynamoStore) GetStatus(ctx context.Context, orderID string) (string, error) {
	tx, err := s.FindByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if tx == nil {
		return "", nil
	}
	return tx.TransactionStatus, nil
}

func awsString(s string) *string { return &s }
