package smartapi

import (
	"encoding/json"
	"strings"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
)

// Envelope is the normalized form of every SmartAPI response. Raw responses
// arrive as a JSON object, a JSON-encoded string, or bare error text; all
// three are folded into the two-variant ok/error shape here before any
// field access happens.
type Envelope struct {
	OK        bool
	Data      json.RawMessage
	Reason    string
	ErrorCode string
}

// rawResponse mirrors the documented success/failure object shape.
type rawResponse struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

// Normalize converts a raw response body into an Envelope. A body that is
// neither a JSON object nor a JSON string is not a structured response and
// yields a TransportError.
func Normalize(endpoint string, body []byte) (Envelope, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return Envelope{}, apperrors.NewTransportError(endpoint, "", nil)
	}

	switch trimmed[0] {
	case '{':
		var raw rawResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			return Envelope{}, apperrors.NewTransportError(endpoint, trimmed, err)
		}
		if !raw.Status {
			reason := raw.Message
			if reason == "" {
				reason = "request rejected"
			}
			return Envelope{OK: false, Reason: reason, ErrorCode: raw.ErrorCode}, nil
		}
		return Envelope{OK: true, Data: raw.Data}, nil

	case '"':
		// Some failure paths return a JSON-encoded message string.
		var msg string
		if err := json.Unmarshal(body, &msg); err != nil {
			return Envelope{}, apperrors.NewTransportError(endpoint, trimmed, err)
		}
		return Envelope{OK: false, Reason: msg}, nil

	default:
		// Bare text (HTML error pages, gateway messages). Not structured.
		return Envelope{}, apperrors.NewTransportError(endpoint, trimmed, nil)
	}
}
