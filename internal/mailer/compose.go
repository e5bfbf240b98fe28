package mailer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

// Compose renders msg as a single-part text/plain RFC 5322 message.
func Compose(from string, msg service.OutboundMessage, now time.Time) ([]byte, error) {
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	toAddr, err := mail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{fromAddr})
	h.SetAddressList("To", []*mail.Address{toAddr})
	h.SetSubject(msg.Subject)
	if msg.InReplyTo != "" {
		h.SetMsgIDList("In-Reply-To", []string{msg.InReplyTo})
		h.SetMsgIDList("References", []string{msg.InReplyTo})
	}
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("email build message: %w", err)
	}
	if _, err := w.Write([]byte(msg.Body)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("email write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("email close message: %w", err)
	}
	return buf.Bytes(), nil
}
