package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestParseMessagePlainText(t *testing.T) {
	raw := crlf(`From: "Jane Doe" <jane@example.com>
To: support@example.com
Subject: Need help with login
Date: Mon, 15 Jan 2024 10:30:00 +0000
Message-Id: <abc123@example.com>
Content-Type: text/plain; charset=utf-8

I cannot log in since this morning.
`)

	msg := ParseMessage("42", raw)
	assert.Equal(t, "42", msg.ID)
	assert.Equal(t, "jane@example.com", msg.SenderEmail)
	assert.Equal(t, "Need help with login", msg.Subject)
	assert.Equal(t, "abc123@example.com", msg.MessageID)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), msg.ReceivedAt)
	assert.Equal(t, "I cannot log in since this morning.", msg.Body)
}

func TestParseMessagePrefersPlainPart(t *testing.T) {
	raw := crlf(`From: bob@example.com
Subject: Alternative
Content-Type: multipart/alternative; boundary="XYZ"

--XYZ
Content-Type: text/html; charset=utf-8

<p>html version</p>
--XYZ
Content-Type: text/plain; charset=utf-8

plain version
--XYZ--
`)

	msg := ParseMessage("1", raw)
	assert.Equal(t, "plain version", msg.Body)
}

func TestParseMessageConvertsHTML(t *testing.T) {
	raw := crlf(`From: bob@example.com
Subject: =?utf-8?q?Caf=C3=A9_request?=
Content-Type: text/html; charset=utf-8

<html><body><p>Please <strong>help</strong> me</p></body></html>
`)

	msg := ParseMessage("2", raw)
	assert.Equal(t, "Café request", msg.Subject)
	assert.Contains(t, msg.Body, "Please **help** me")
	assert.NotContains(t, msg.Body, "<p>")
}

func TestParseMessageUnparseable(t *testing.T) {
	msg := ParseMessage("3", []byte("just some words without headers"))
	require.NotNil(t, msg)
	assert.Equal(t, "just some words without headers", msg.Body)
	assert.Empty(t, msg.SenderEmail)
}
