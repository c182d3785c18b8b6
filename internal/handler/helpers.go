package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

const maxBodyBytes = 1 << 20

// Entitlements reports whether a premium feature is unlocked.
type Entitlements interface {
	IsEntitled(feature string) (bool, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writePremiumRequired(w http.ResponseWriter, feature string) {
	writeJSON(w, http.StatusPaymentRequired, map[string]string{
		"error":   "premium subscription required",
		"feature": feature,
	})
}

// decodeJSON reads a bounded JSON body into v. An empty body is an error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid JSON")
	}
	return nil
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// nopBroadcaster is used when no hub is wired.
type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(ws.Message) {}

func broadcasterOrNop(b ws.Broadcaster) ws.Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}
