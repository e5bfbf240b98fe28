package mailbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapserver"
	"github.com/emersion/go-imap/v2/imapserver/imapmemserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
)

const (
	imapUser     = "support@example.com"
	imapPassword = "app-password"
)

func rawMessage(from, subject, messageID, body string) []byte {
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + imapUser,
		"Subject: " + subject,
		"Date: Mon, 03 Mar 2025 09:00:00 +0000",
		"Message-ID: <" + messageID + ">",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
		"",
	}, "\r\n"))
}

// startIMAPServer serves an in-memory INBOX holding one read message
// followed by three unread ones (UIDs 2 to 4).
func startIMAPServer(t *testing.T, implicitTLS bool) IMAPConfig {
	t.Helper()

	ts := httptest.NewTLSServer(nil)
	t.Cleanup(ts.Close)
	serverTLS := &tls.Config{Certificates: ts.TLS.Certificates}
	roots := x509.NewCertPool()
	roots.AddCert(ts.Certificate())

	user := imapmemserver.NewUser(imapUser, imapPassword)
	require.NoError(t, user.Create("INBOX", nil))
	seed := []struct {
		raw  []byte
		seen bool
	}{
		{raw: rawMessage("old@example.com", "Already handled", "old-1@example.com", "done"), seen: true},
		{raw: rawMessage("alice@example.com", "Billing question", "msg-2@example.com", "Why was I charged twice?")},
		{raw: rawMessage("bob@example.com", "Cannot log in", "msg-3@example.com", "Locked out since this morning.")},
		{raw: rawMessage("carol@example.com", "Urgent: site down", "msg-4@example.com", "Our dashboard is down.")},
	}
	for _, m := range seed {
		opts := &imap.AppendOptions{Time: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)}
		if m.seen {
			opts.Flags = []imap.Flag{imap.FlagSeen}
		}
		_, err := user.Append("INBOX", bytes.NewReader(m.raw), opts)
		require.NoError(t, err)
	}

	memServer := imapmemserver.New()
	memServer.AddUser(user)

	options := &imapserver.Options{
		NewSession: func(conn *imapserver.Conn) (imapserver.Session, *imapserver.GreetingData, error) {
			return memServer.NewSession(), nil, nil
		},
		Caps: imap.CapSet{
			imap.CapIMAP4rev1: {},
			imap.CapIMAP4rev2: {},
		},
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	if implicitTLS {
		ln = tls.NewListener(ln, serverTLS)
	} else {
		options.TLSConfig = serverTLS
	}

	server := imapserver.New(options)
	go server.Serve(ln)
	t.Cleanup(func() { server.Close() })

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return IMAPConfig{
		Host:      host,
		Port:      port,
		TLS:       implicitTLS,
		Username:  imapUser,
		Password:  imapPassword,
		TLSConfig: &tls.Config{RootCAs: roots},
	}
}

func TestIMAPSession(t *testing.T) {
	for _, tc := range []struct {
		name        string
		implicitTLS bool
	}{
		{name: "starttls", implicitTLS: false},
		{name: "implicit tls", implicitTLS: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := startIMAPServer(t, tc.implicitTLS)

			session, err := NewIMAPMailbox(cfg, logger.Nop()).Open(ctx)
			require.NoError(t, err)
			defer session.Close()

			all, err := session.ListUnread(ctx, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"2", "3", "4"}, all)

			recent, err := session.ListUnread(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"3", "4"}, recent)

			msg, err := session.Fetch(ctx, "4")
			require.NoError(t, err)
			assert.Equal(t, "4", msg.ID)
			assert.Equal(t, "carol@example.com", msg.SenderEmail)
			assert.Equal(t, "Urgent: site down", msg.Subject)
			assert.Equal(t, "msg-4@example.com", msg.MessageID)
			assert.Contains(t, msg.Body, "Our dashboard is down.")
			assert.True(t, msg.ReceivedAt.Equal(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)))

			// fetching peeks, the message stays unread until MarkRead
			unread, err := session.ListUnread(ctx, 10)
			require.NoError(t, err)
			assert.Contains(t, unread, "4")

			require.NoError(t, session.MarkRead(ctx, "4"))
			unread, err = session.ListUnread(ctx, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"2", "3"}, unread)

			_, err = session.Fetch(ctx, "99")
			assert.Error(t, err)
		})
	}
}

func TestIMAPMailboxRejectsBadLogin(t *testing.T) {
	cfg := startIMAPServer(t, true)
	cfg.Password = "wrong"

	_, err := NewIMAPMailbox(cfg, logger.Nop()).Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMAP login failed")
}
