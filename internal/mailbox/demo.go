package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

var demoMessages = []model.InboundMessage{
	{
		ID:          "demo-1",
		SenderEmail: "customer@example.com",
		Subject:     "Urgent Support Request - Cannot Access Account",
		Body:        "Hello,\n\nI am writing to you because I cannot access my account for the past 2 days. This is extremely urgent as I need to complete an important transaction. I have tried resetting my password multiple times but I keep getting an error. Please help me immediately!\n\nI am very frustrated with this issue.\n\nBest regards,\nJohn Smith\nPhone: (555) 123-4567",
	},
	{
		ID:          "demo-2",
		SenderEmail: "business@company.com",
		Subject:     "Help with Product Integration",
		Body:        "Hi there,\n\nI hope you are doing well. We are trying to integrate your API with our system but we are facing some challenges with the authentication process. Could you please provide us with some guidance?\n\nWe would appreciate any documentation or examples you might have.\n\nThank you for your help!\n\nBest,\nSarah Johnson\nTechnical Lead",
	},
	{
		ID:          "demo-3",
		SenderEmail: "user@email.com",
		Subject:     "Billing Query - Duplicate Charge",
		Body:        "Dear Support Team,\n\nI noticed a duplicate charge on my credit card statement for $99.99. The transaction appears twice for the same date. Please investigate this issue and provide a refund for the duplicate charge.\n\nTransaction ID: TXN123456789\nDate: January 15, 2024\n\nThank you for your assistance.\n\nMike Wilson",
	},
}

// demoMailbox serves fixed sample messages. Marking read is a no-op, so
// repeated runs rely on stored-email dedup.
type demoMailbox struct{}

func NewDemoMailbox() service.Mailbox {
	return demoMailbox{}
}

func (demoMailbox) Open(ctx context.Context) (service.MailboxSession, error) {
	return demoSession{}, nil
}

type demoSession struct{}

func (demoSession) ListUnread(ctx context.Context, limit int) ([]string, error) {
	msgs := demoMessages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids, nil
}

func (demoSession) Fetch(ctx context.Context, id string) (*model.InboundMessage, error) {
	for _, m := range demoMessages {
		if m.ID == id {
			msg := m
			msg.ReceivedAt = time.Now().UTC()
			return &msg, nil
		}
	}
	return nil, fmt.Errorf("demo message %s not found", id)
}

func (demoSession) MarkRead(ctx context.Context, id string) error { return nil }

func (demoSession) Close() error { return nil }
