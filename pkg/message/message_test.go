package message

import (
	"bytes"
	"testing"
)

func TestFromRaw(t *testing.T) {
	raw := []byte("Subject: Hello World\r\n" +
		"Message-Id: <abc@example.com>\r\n" +
		"X-Custom: one\r\n" +
		"X-Custom: two\r\n" +
		"\r\n" +
		"body line one\r\nbody line two\r\n")

	msg, err := FromRaw("Q123", raw)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}

	if msg.QueueID != "Q123" {
		t.Errorf("Expected queue ID Q123, got %q", msg.QueueID)
	}
	if got := msg.Header("Subject"); got != "Hello World" {
		t.Errorf("Expected subject, got %q", got)
	}
	if !msg.HasHeader("message-id") {
		t.Error("Header lookup should be case-insensitive")
	}
	if vals := msg.HeaderValues("X-Custom"); len(vals) != 2 {
		t.Errorf("Expected 2 X-Custom values, got %v", vals)
	}
	if !bytes.Contains(msg.Body(), []byte("body line one")) {
		t.Errorf("Body not carried over: %q", msg.Body())
	}
	if msg.Size() != len(msg.Body()) {
		t.Error("Size disagrees with body length")
	}
}

func TestFromRaw_MalformedHeaders(t *testing.T) {
	if _, err := FromRaw("Q1", []byte("not a header block")); err == nil {
		t.Error("Expected error for malformed header block")
	}
}

func TestNew_CanonicalizesHeaders(t *testing.T) {
	msg := New("Q1", map[string][]string{
		"subject":          {"  padded subject  "},
		"list-unsubscribe": {"<mailto:leave@example.com>"},
	}, []byte("body"))

	if got := msg.Subject(); got != "padded subject" {
		t.Errorf("Expected trimmed subject, got %q", got)
	}
	if !msg.HasHeader("List-Unsubscribe") {
		t.Error("Expected canonicalized header lookup to succeed")
	}
	if msg.Header("Missing") != "" {
		t.Error("Absent header should return empty string")
	}
}
