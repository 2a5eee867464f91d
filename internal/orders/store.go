package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/awsx"
)

// ErrStatusMismatch is returned by UpdateStatus when the stored status no
// longer matches the expected value (the conditional write lost the race).
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// Store is the capability surface the cancellation workflow needs from order
// persistence. Tests substitute an in-memory fake.
type Store interface {
	// Get fetches an order by id. Returns (nil, nil) if not found.
	Get(ctx context.Context, orderID string) (*Order, error)
	// UpdateStatus transitions expected -> newStatus as a conditional write.
	// Returns ErrStatusMismatch when the stored status is not expected.
	UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string) error
	// GetDeliveryInfo returns the delivery contact block for an order, or
	// (nil, nil) when the order does not exist.
	GetDeliveryInfo(ctx context.Context, orderID string) (*DeliveryInfo, error)
}

// DynamoStore implements Store against the orders table.
type DynamoStore struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamoStore creates a new orders store.
func NewDynamoStore(client awsx.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func (s *DynamoStore) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func (s *DynamoStore) UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string) error {
	now := s.nowFunc()
	updateExpr := "SET #s = :new, updated_at = :ua"
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         &updateExpr,
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: expectedStatus},
		},
		ConditionExpression: awsString("#s = :expected"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStatusMismatch
		}
		// some call paths surface the failure as a generic API error
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (s *DynamoStore) GetDeliveryInfo(ctx context.Context, orderID string) (*DeliveryInfo, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	d := o.Delivery
	return &d, nil
}

func awsString(s string) *string { return &s }
