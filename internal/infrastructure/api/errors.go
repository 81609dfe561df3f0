package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// detailSeparator joins validation messages when detail is a list
const detailSeparator = " | "

// Error is a non-2xx answer from the inventory API, reduced to one user-visible message
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets callers match API errors against domain sentinels by status
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrItemNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrInvalidRequest:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case domain.ErrAPIFailure:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

type detailPayload struct {
	Detail json.RawMessage `json:"detail"`
}

type detailEntry struct {
	Msg string `json:"msg"`
}

// newError extracts the message from a {"detail": ...} payload. detail may be a
// string or a list of {msg} entries; anything else falls back to a generic message.
func newError(status int, body []byte) *Error {
	return &Error{Status: status, Message: extractDetail(status, body)}
}

func extractDetail(status int, body []byte) string {
	fallback := fmt.Sprintf("Request failed (HTTP %d)", status)

	var payload detailPayload
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		if text == "" {
			return fallback
		}
		return text
	}

	var entries []detailEntry
	if err := json.Unmarshal(payload.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, detailSeparator)
		}
	}

	return fallback
}
