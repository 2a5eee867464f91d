package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/notifications"
)

// EmailSender delivers a rendered notification. The default implementation
// only logs; a real SES/SMTP sender plugs in here.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender writes notifications to the process log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	log.Printf("[worker] email to=%s subject=%q body=%q", recipient, subject, body)
	return nil
}

// Processor consumes notification messages from the queue and delivers them.
type Processor struct {
	sender EmailSender
}

func NewProcessor(sender EmailSender) *Processor {
	if sender == nil {
		sender = LogSender{}
	}
	return &Processor{sender: sender}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg notifications.Message
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Recipient == "" {
		return fmt.Errorf("notification for order %s has no recipient", msg.OrderID)
	}

	log.Printf("[worker] delivering notification order=%s recipient=%s", msg.OrderID, msg.Recipient)
	if err := p.sender.Send(ctx, msg.Recipient, msg.Subject, msg.Body); err != nil {
		return fmt.Errorf("send notification for order %s: %w", msg.OrderID, err)
	}
	return nil
}
