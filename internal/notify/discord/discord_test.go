package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type mockSession struct {
	channels []string
	contents []string
	sendErr  error
	closed   bool
}

func (m *mockSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.channels = append(m.channels, channelID)
	m.contents = append(m.contents, content)
	return &discordgo.Message{Content: content}, m.sendErr
}

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(AdapterOpts{ChannelID: "123"}); err == nil {
		t.Error("expected error without token or session")
	}
	if _, err := New(AdapterOpts{BotToken: "tok"}); err == nil {
		t.Error("expected error without channel")
	}
	if _, err := New(AdapterOpts{BotToken: "tok", ChannelID: "123"}); err != nil {
		t.Errorf("New: %v", err)
	}
}

func TestSend(t *testing.T) {
	mock := &mockSession{}
	a, err := New(AdapterOpts{Session: mock, ChannelID: "987"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.Send(context.Background(), "task created"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mock.channels) != 1 || mock.channels[0] != "987" {
		t.Errorf("sent to %v, want [987]", mock.channels)
	}
	if mock.contents[0] != "task created" {
		t.Errorf("content = %q, want %q", mock.contents[0], "task created")
	}
}

func TestSend_Error(t *testing.T) {
	mock := &mockSession{sendErr: errors.New("forbidden")}
	a, err := New(AdapterOpts{Session: mock, ChannelID: "987"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Send(context.Background(), "x"); err == nil {
		t.Error("expected send error to propagate")
	}
}

func TestClose(t *testing.T) {
	mock := &mockSession{}
	a, err := New(AdapterOpts{Session: mock, ChannelID: "987"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !mock.closed {
		t.Error("session not closed")
	}
}
