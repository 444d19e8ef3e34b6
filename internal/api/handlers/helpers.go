package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"homeledger/internal/ledger"
	"homeledger/internal/repositories/docstore"
	"homeledger/internal/split"
	"homeledger/pkg/utils"
)

const RequestTimeout = 5 * time.Second

// RequestUserID pulls the authenticated user id out of the request
// context, answering 401 itself when it is missing.
func RequestUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(utils.UserIDKey).(string)
	if !ok || userID == "" {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func RequestEmail(r *http.Request) string {
	email, _ := r.Context().Value(utils.EmailKey).(string)
	return email
}

// DecodeJSONBody decodes a request body strictly, rejecting unknown
// fields, answering 400 itself on bad input.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// WriteDomainError maps core errors onto HTTP statuses.
func WriteDomainError(w http.ResponseWriter, err error) {
	var ledgerInvalid *ledger.ValidationError
	var splitInvalid *split.ValidationError

	switch {
	case errors.As(err, &ledgerInvalid):
		utils.WriteError(w, ledgerInvalid.Error(), http.StatusBadRequest)
	case errors.As(err, &splitInvalid):
		utils.WriteError(w, splitInvalid.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrForbidden):
		utils.WriteError(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, docstore.ErrNotFound):
		utils.WriteError(w, "not found", http.StatusNotFound)
	case errors.Is(err, docstore.ErrUnavailable):
		utils.WriteError(w, "service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		utils.Logger.WithError(err).Error("request failed")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// ParseDate accepts RFC 3339 timestamps or bare calendar dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
