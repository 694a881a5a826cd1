// Package message defines the opaque, already-parsed message handle that
// detection symbols inspect. Parsing of the wire protocol and full MIME
// decoding happen upstream; this package only carries the structured result
// across the scheduler boundary.
package message

import (
	"bufio"
	"bytes"
	"fmt"
	"net/textproto"
	"strings"
)

// Message is a parsed electronic mail message. It is immutable once
// constructed; symbols read it concurrently and must never mutate it.
type Message struct {
	// QueueID is the upstream identifier for this message, if any.
	QueueID string

	// headers holds canonicalized header names mapped to their values in
	// original order.
	headers textproto.MIMEHeader

	// body is the raw message body after the header block.
	body []byte
}

// New constructs a message from pre-parsed headers and a body.
func New(queueID string, headers map[string][]string, body []byte) *Message {
	h := make(textproto.MIMEHeader, len(headers))
	for name, values := range headers {
		canon := textproto.CanonicalMIMEHeaderKey(name)
		h[canon] = append(h[canon], values...)
	}
	return &Message{QueueID: queueID, headers: h, body: body}
}

// FromRaw splits a raw RFC 5322 message into a header block and body.
// It is a convenience for tests and the CLI; production ingestion hands
// the engine an already-parsed message.
func FromRaw(queueID string, raw []byte) (*Message, error) {
	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(raw)))
	headers, err := tp.ReadMIMEHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to parse message headers: %w", err)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(tp.R); err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}

	return &Message{QueueID: queueID, headers: headers, body: body.Bytes()}, nil
}

// Header returns the first value of the named header, or "" when absent.
func (m *Message) Header(name string) string {
	return m.headers.Get(name)
}

// HeaderValues returns all values of the named header.
func (m *Message) HeaderValues(name string) []string {
	return m.headers.Values(name)
}

// HasHeader reports whether the named header is present.
func (m *Message) HasHeader(name string) bool {
	_, ok := m.headers[textproto.CanonicalMIMEHeaderKey(name)]
	return ok
}

// Body returns the raw message body. Callers must not modify it.
func (m *Message) Body() []byte {
	return m.body
}

// Size returns the body size in bytes.
func (m *Message) Size() int {
	return len(m.body)
}

// Subject is shorthand for the Subject header with surrounding space trimmed.
func (m *Message) Subject() string {
	return strings.TrimSpace(m.headers.Get("Subject"))
}
