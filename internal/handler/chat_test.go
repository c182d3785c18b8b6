package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/leanfuel/internal/chat"
)

func TestChatIntro(t *testing.T) {
	h := NewChatHandler(chat.NewAssistant(0), setupHandlerTest(t).logger)

	rec := do(t, h.Intro, "GET", "/api/chat", "")
	wantStatus(t, rec, http.StatusOK)
	intro := decode[chatIntro](t, rec)
	if intro.Greeting.Content != chat.Greeting || intro.Greeting.Sender != chat.SenderAssistant {
		t.Errorf("greeting = %+v", intro.Greeting)
	}
	if len(intro.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestChatSend(t *testing.T) {
	h := NewChatHandler(chat.NewAssistant(0), setupHandlerTest(t).logger)

	tests := []struct {
		name   string
		body   string
		status int
		reply  string
	}{
		{"known topic", `{"message":"Protein"}`, http.StatusOK, chat.Lookup("protein")},
		{"unknown topic", `{"message":"tell me a joke"}`, http.StatusOK, chat.DefaultReply},
		{"empty", `{"message":"  "}`, http.StatusBadRequest, ""},
		{"too long", `{"message":"` + strings.Repeat("a", 1001) + `"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h.Send, "POST", "/api/chat", tt.body)
			wantStatus(t, rec, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			msg := decode[chat.Message](t, rec)
			if msg.Content != tt.reply {
				t.Errorf("reply = %q, want %q", msg.Content, tt.reply)
			}
		})
	}
}

func TestChatSendCancelled(t *testing.T) {
	h := NewChatHandler(chat.NewAssistant(time.Minute), setupHandlerTest(t).logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"protein"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	if rec.Body.Len() != 0 {
		t.Errorf("cancelled request wrote %q", rec.Body.String())
	}
}
