package mailbox

import (
	"bytes"
	"errors"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
)

// ParseMessage extracts sender, subject, date and a plain-text body from a raw
// RFC 5322 message. Text parts win over HTML; HTML is converted to markdown.
// Input that is not a parseable message becomes the body verbatim.
func ParseMessage(id string, raw []byte) *model.InboundMessage {
	msg := &model.InboundMessage{ID: id}

	r, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		msg.Body = strings.TrimSpace(string(raw))
		return msg
	}
	defer r.Close()

	if from, err := r.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.SenderEmail = from[0].Address
	}
	if subject, err := r.Header.Subject(); err == nil {
		msg.Subject = strings.TrimSpace(subject)
	}
	if date, err := r.Header.Date(); err == nil && !date.IsZero() {
		msg.ReceivedAt = date.UTC()
	}
	if mid, err := r.Header.MessageID(); err == nil {
		msg.MessageID = mid
	}

	var plain, html string
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// keep whatever parts decoded cleanly
			break
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, err := h.ContentType()
		if err != nil {
			mediaType = "text/plain"
		}
		content, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch mediaType {
		case "text/plain":
			if plain == "" {
				plain = string(content)
			}
		case "text/html":
			if html == "" {
				html = string(content)
			}
		}
	}

	switch {
	case strings.TrimSpace(plain) != "":
		msg.Body = strings.TrimSpace(plain)
	case html != "":
		msg.Body = htmlToText(html)
	}
	return msg
}

func htmlToText(html string) string {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(md)
}
