package source

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
)

var headerDecoder = new(mime.WordDecoder)

// recordFromMessage turns a parsed message into an (address, content) pair.
// envelopeFrom takes precedence over the From header when set.
func recordFromMessage(msg *mail.Message, envelopeFrom string) (address, content string, err error) {
	address = envelopeFrom
	if address == "" {
		address = extractEmailAddress(msg.Header.Get("From"))
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract text content: %w", err)
	}

	subject := decodeEncodedHeader(msg.Header.Get("Subject"))
	return address, strings.TrimSpace(subject + " " + body), nil
}

// decodeEncodedHeader decodes RFC 2047 words, returning the raw value on failure
func decodeEncodedHeader(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// extractEmailAddress extracts the email address from a header value
func extractEmailAddress(s string) string {
	if addr, err := mail.ParseAddress(s); err == nil {
		return addr.Address
	}

	// Simple extraction for addresses like "Name <email@example.com>"
	start := strings.LastIndex(s, "<")
	end := strings.LastIndex(s, ">")
	if start >= 0 && end > start {
		return s[start+1 : end]
	}
	return strings.TrimSpace(s)
}

// extractTextFromMessage extracts the text content from an email message.
// For multipart messages only text/plain parts are kept.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what we have so far
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", fmt.Errorf("failed to read multipart body: %w", err)
		}

		// Nested multiparts and attachments are skipped
		partType := strings.ToLower(part.Header.Get("Content-Type"))
		if partType != "" && !strings.Contains(partType, "text/plain") {
			continue
		}
		partBytes, err := io.ReadAll(part)
		if err != nil {
			continue
		}
		textContent.Write(partBytes)
		textContent.WriteString("\n")
	}

	return textContent.String(), nil
}
