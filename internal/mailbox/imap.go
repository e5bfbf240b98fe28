package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

type IMAPConfig struct {
	Host     string
	Port     string
	TLS      bool
	Username string
	Password string

	// TLSConfig overrides the system roots when set.
	TLSConfig *tls.Config
}

type imapMailbox struct {
	cfg    IMAPConfig
	logger *logger.Logger
}

func NewIMAPMailbox(cfg IMAPConfig, logger *logger.Logger) service.Mailbox {
	if cfg.Port == "" {
		cfg.Port = "993"
	}
	return &imapMailbox{cfg: cfg, logger: logger}
}

// Open dials, logs in and selects INBOX. The session owns the connection
// until Close.
func (m *imapMailbox) Open(ctx context.Context) (service.MailboxSession, error) {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	var (
		client *imapclient.Client
		err    error
	)
	options := &imapclient.Options{TLSConfig: m.cfg.TLSConfig}
	if m.cfg.TLS {
		client, err = imapclient.DialTLS(addr, options)
	} else {
		client, err = imapclient.DialStartTLS(addr, options)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(m.cfg.Username, m.cfg.Password).Wait(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("IMAP login failed for %s: %w", m.cfg.Username, err)
	}
	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	m.logger.Debugf("IMAP session opened on %s", addr)
	return &imapSession{client: client, logger: m.logger}, nil
}

type imapSession struct {
	client *imapclient.Client
	logger *logger.Logger
}

func (s *imapSession) ListUnread(ctx context.Context, limit int) ([]string, error) {
	criteria := &imap.SearchCriteria{NotFlag: []imap.Flag{imap.FlagSeen}}
	data, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching unread messages: %w", err)
	}

	uids := data.AllUIDs()
	// UIDs ascend with arrival, so the tail is the most recent
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}

func (s *imapSession) Fetch(ctx context.Context, id string) (*model.InboundMessage, error) {
	uid, err := parseUID(id)
	if err != nil {
		return nil, err
	}

	section := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := s.client.Fetch(imap.UIDSetNum(uid), &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message UID %d not found", uid)
	}
	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message data: %w", err)
	}

	inbound := ParseMessage(id, buf.FindBodySection(section))
	if env := buf.Envelope; env != nil {
		if inbound.SenderEmail == "" && len(env.From) > 0 {
			inbound.SenderEmail = env.From[0].Addr()
		}
		if inbound.Subject == "" {
			inbound.Subject = env.Subject
		}
		if inbound.ReceivedAt.IsZero() && !env.Date.IsZero() {
			inbound.ReceivedAt = env.Date.UTC()
		}
		if inbound.MessageID == "" {
			inbound.MessageID = env.MessageID
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetching message %d: %w", uid, err)
	}
	return inbound, nil
}

func (s *imapSession) MarkRead(ctx context.Context, id string) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}
	return s.client.Store(imap.UIDSetNum(uid), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil).Close()
}

func (s *imapSession) Close() error {
	if err := s.client.Logout().Wait(); err != nil {
		_ = s.client.Close()
		return fmt.Errorf("IMAP logout: %w", err)
	}
	return nil
}

func parseUID(id string) (imap.UID, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid IMAP UID %q", id)
	}
	return imap.UID(n), nil
}
