package mailbox

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

const gmailUser = "me"

type gmailMailbox struct {
	opts   []option.ClientOption
	logger *logger.Logger
}

// NewGmailMailbox reads the inbox of the account that owns accessToken.
// Extra options (an endpoint override in tests) are appended.
func NewGmailMailbox(accessToken string, logger *logger.Logger, opts ...option.ClientOption) service.Mailbox {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return &gmailMailbox{
		opts:   append([]option.ClientOption{option.WithTokenSource(ts)}, opts...),
		logger: logger,
	}
}

func (m *gmailMailbox) Open(ctx context.Context) (service.MailboxSession, error) {
	svc, err := gmail.NewService(ctx, m.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &gmailSession{client: svc, logger: m.logger}, nil
}

type gmailSession struct {
	client *gmail.Service
	logger *logger.Logger
}

// ListUnread returns ids oldest first. Gmail lists newest first.
func (s *gmailSession) ListUnread(ctx context.Context, limit int) ([]string, error) {
	call := s.client.Users.Messages.List(gmailUser).Q("is:unread in:inbox").Context(ctx)
	if limit > 0 {
		call = call.MaxResults(int64(limit))
	}
	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	ids := make([]string, len(list.Messages))
	for i, msg := range list.Messages {
		ids[len(ids)-1-i] = msg.Id
	}
	return ids, nil
}

func (s *gmailSession) Fetch(ctx context.Context, id string) (*model.InboundMessage, error) {
	msg, err := s.client.Users.Messages.Get(gmailUser, id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	raw, err := base64.URLEncoding.DecodeString(msg.Raw)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(msg.Raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode message %s: %w", id, err)
		}
	}

	inbound := ParseMessage(id, raw)
	if inbound.Body == "" {
		inbound.Body = msg.Snippet
	}
	return inbound, nil
}

func (s *gmailSession) MarkRead(ctx context.Context, id string) error {
	_, err := s.client.Users.Messages.Modify(gmailUser, id, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message %s as read: %w", id, err)
	}
	return nil
}

func (s *gmailSession) Close() error {
	return nil
}
