package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
)

func TestDemoMailbox(t *testing.T) {
	session, err := NewDemoMailbox().Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	ids, err := session.ListUnread(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-1", "demo-2", "demo-3"}, ids)

	msg, err := session.Fetch(context.Background(), "demo-3")
	require.NoError(t, err)
	assert.Equal(t, "user@email.com", msg.SenderEmail)
	assert.Equal(t, "Billing Query - Duplicate Charge", msg.Subject)
	assert.False(t, msg.ReceivedAt.IsZero())

	require.NoError(t, session.MarkRead(context.Background(), "demo-3"))
	ids, err = session.ListUnread(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-2", "demo-3"}, ids)

	_, err = session.Fetch(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMockMailboxMarkRead(t *testing.T) {
	box := NewMockMailbox(
		&model.InboundMessage{ID: "a", SenderEmail: "a@example.com", Subject: "help"},
		&model.InboundMessage{ID: "b", SenderEmail: "b@example.com", Subject: "support"},
	)
	session, err := box.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.MarkRead(context.Background(), "a"))
	ids, err := session.ListUnread(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
	require.NoError(t, session.Close())
	assert.Equal(t, 1, box.Closed)
}

func TestParseUID(t *testing.T) {
	uid, err := parseUID("17")
	require.NoError(t, err)
	assert.EqualValues(t, 17, uid)

	_, err = parseUID("0")
	assert.Error(t, err)
	_, err = parseUID("abc")
	assert.Error(t, err)
}

func TestGmailSession(t *testing.T) {
	raw := base64.URLEncoding.EncodeToString(crlf(`From: customer@example.com
Subject: Support request
Content-Type: text/plain

Please help.
`))

	var mu sync.Mutex
	var modified []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/users/me/messages"):
			assert.Equal(t, "is:unread in:inbox", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"messages": []map[string]string{{"id": "newest"}, {"id": "oldest"}},
			})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/users/me/messages/oldest"):
			assert.Equal(t, "raw", r.URL.Query().Get("format"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "oldest", "raw": raw})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/modify"):
			var req map[string][]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			modified = append(modified, req["removeLabelIds"]...)
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "oldest"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	box := NewGmailMailbox("token", logger.Nop(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	session, err := box.Open(context.Background())
	require.NoError(t, err)

	ids, err := session.ListUnread(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"oldest", "newest"}, ids)

	msg, err := session.Fetch(context.Background(), "oldest")
	require.NoError(t, err)
	assert.Equal(t, "customer@example.com", msg.SenderEmail)
	assert.Equal(t, "Support request", msg.Subject)
	assert.Equal(t, "Please help.", msg.Body)

	require.NoError(t, session.MarkRead(context.Background(), "oldest"))
	mu.Lock()
	assert.Equal(t, []string{"UNREAD"}, modified)
	mu.Unlock()

	_, err = session.Fetch(context.Background(), "missing")
	assert.Error(t, err)
}
