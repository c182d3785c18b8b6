package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// EntitlementChecker reports whether a feature is unlocked.
type EntitlementChecker interface {
	IsEntitled(feature string) (bool, error)
}

// RequireEntitlement answers 402 Payment Required unless feature is unlocked.
func RequireEntitlement(checker EntitlementChecker, feature string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := checker.IsEntitled(feature)
			if err != nil {
				logger.Error("check entitlement", "feature", feature, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to check subscription")
				return
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusPaymentRequired)
				json.NewEncoder(w).Encode(map[string]string{
					"error":   "premium subscription required",
					"feature": feature,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
