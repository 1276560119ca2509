package entities

import (
	"testing"
	"time"
)

func TestMessageRoleValid(t *testing.T) {
	if !MessageRoleUser.Valid() {
		t.Error("user role should be valid")
	}
	if !MessageRoleAssistant.Valid() {
		t.Error("assistant role should be valid")
	}
	if MessageRole("system").Valid() {
		t.Error("unknown role should not be valid")
	}
}

func TestMessageValidate(t *testing.T) {
	msg := Message{SessionID: 1, Role: MessageRoleUser, Content: "hello"}
	if err := msg.Validate(); err != nil {
		t.Errorf("expected valid message, got %v", err)
	}

	msg = Message{SessionID: 0, Role: MessageRoleUser, Content: "hello"}
	if err := msg.Validate(); err == nil {
		t.Error("expected error for missing session_id")
	}

	msg = Message{SessionID: 1, Role: "robot", Content: "hello"}
	if err := msg.Validate(); err == nil {
		t.Error("expected error for invalid role")
	}

	msg = Message{SessionID: 1, Role: MessageRoleAssistant, Content: ""}
	if err := msg.Validate(); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestFormatTranscript(t *testing.T) {
	now := time.Now()
	messages := []Message{
		{SessionID: 1, Role: MessageRoleUser, Content: "Hi", CreatedAt: now},
		{SessionID: 1, Role: MessageRoleAssistant, Content: "Hello", CreatedAt: now.Add(time.Second)},
	}

	got := FormatTranscript(messages)
	want := "Student: Hi\nTutor: Hello\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatTranscriptEmpty(t *testing.T) {
	if got := FormatTranscript(nil); got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestNewSessionTitle(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 5, 0, 0, time.UTC)
	got := NewSessionTitle(ts)
	want := "Conversation 07/03/2025 14:05"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
