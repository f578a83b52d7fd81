package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx backend response
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// Unauthorized reports whether the backend rejected the credentials or token
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// newError builds an Error from a response body. FastAPI reports either
// {"detail": "..."} or {"detail": [{"msg": "..."}]}.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return e
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		e.Detail = strings.TrimSpace(text)
		return e
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		e.Detail = strings.TrimSpace(items[0].Msg)
	}
	return e
}

// Detail extracts the backend's detail message from err, or "" if there is none
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// UserMessage renders err for a dialog, using fallback when the backend gave no detail
func UserMessage(prefix string, err error, fallback string) string {
	detail := Detail(err)
	if detail == "" {
		detail = fallback
	}
	return prefix + ": " + detail
}
