package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
)

// AccountHeader carries the caller's account id on admin requests.
const AccountHeader = "X-Account-ID"

type contextKey string

const accountKey contextKey = "account"

// AccountResolver loads the account behind a caller id.
type AccountResolver interface {
	GetAccount(ctx context.Context, id string) (*model.Account, error)
}

// RequireAdmin lets the request through only when the AccountHeader names an
// existing admin account, and stores that account in the request context.
// A missing header, an unknown id and a non-admin role all get 403.
func RequireAdmin(accounts AccountResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(AccountHeader))
			if id == "" {
				forbid(w)
				return
			}

			account, err := accounts.GetAccount(r.Context(), id)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					forbid(w)
					return
				}
				logger.Error("admin guard: resolving account",
					slog.String("account_id", id),
					slog.String("error", err.Error()),
				)
				writeJSONError(w, http.StatusInternalServerError, apperror.CodeInternal, "An internal error occurred")
				return
			}
			if !account.IsAdmin() {
				logger.Warn("admin guard: non-admin caller", slog.String("account_id", id))
				forbid(w)
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the account RequireAdmin resolved, if any.
func AccountFromContext(ctx context.Context) (*model.Account, bool) {
	account, ok := ctx.Value(accountKey).(*model.Account)
	return account, ok && account != nil
}

func forbid(w http.ResponseWriter) {
	writeJSONError(w, http.StatusForbidden, apperror.CodeForbidden, "admin role required")
}

func writeJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
