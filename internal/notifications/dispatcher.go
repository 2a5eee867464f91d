package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/awsx"
)

// Message is the notification payload sent to the delivery queue. The worker
// renders and delivers it; the workflow never waits on delivery.
type Message struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	OrderID   string `json:"order_id,omitempty"`
}

// Dispatcher sends outcome notifications. Implementations are fire-and-forget
// from the workflow's perspective: callers log failures and move on.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// SQSDispatcher publishes notification messages to an SQS queue.
type SQSDispatcher struct {
	client   awsx.SQSAPI
	queueURL string
}

func NewSQSDispatcher(client awsx.SQSAPI, queueURL string) *SQSDispatcher {
	return &SQSDispatcher{
		client:   client,
		queueURL: queueURL,
	}
}

func (d *SQSDispatcher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	bodyStr := string(body)
	correlationID := uuid.NewString()
	input := &sqs.SendMessageInput{
		QueueUrl:    &d.queueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"order_id": {
				DataType:    awsString("String"),
				StringValue: &msg.OrderID,
			},
			"correlation_id": {
				DataType:    awsString("String"),
				StringValue: &correlationID,
			},
		},
	}

	if _, err := d.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
