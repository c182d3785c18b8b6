package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/leanfuel/internal/chat"
)

type ChatHandler struct {
	assistant *chat.Assistant
	logger    *slog.Logger
}

func NewChatHandler(a *chat.Assistant, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{assistant: a, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatIntro struct {
	Greeting    chat.Message `json:"greeting"`
	Suggestions []string     `json:"suggestions"`
}

// Intro handles GET /api/chat
func (h *ChatHandler) Intro(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chatIntro{
		Greeting:    h.assistant.GreetingMessage(),
		Suggestions: chat.Suggestions(),
	})
}

// Send handles POST /api/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.assistant.Reply(r.Context(), req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyQuery), errors.Is(err, chat.ErrQueryTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Debug("chat request abandoned", "error", err)
		return
	case err != nil:
		h.logger.Error("chat reply", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reply")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
