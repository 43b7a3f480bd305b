package his

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the HIS. Message carries the
// server-provided text when the body had one, so handlers can surface it
// to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("his: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("his: status %d", e.Status)
}

// IsConflict reports whether err is the HIS rejecting a create/update
// because the slot is no longer available. The HIS signals this as a 409,
// but older deployments reply 400 with a recognizable message.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "slot") &&
		(strings.Contains(msg, "taken") || strings.Contains(msg, "booked") || strings.Contains(msg, "not available") || strings.Contains(msg, "no longer available"))
}

// extractMessage pulls the human-readable error text out of an HIS error
// body. The HIS is not consistent about the key.
func extractMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, candidate := range []string{envelope.Message, envelope.Error, envelope.Detail} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}
