package ai

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func defaultFloat(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}

// extractErrorMessage pulls a human-readable message out of an error body.
// Bodies may carry leading noise, so decoding starts at the first '{'.
// Recognized shapes: {"error":{"message":..}}, {"error":".."}, {"message":".."}.
func extractErrorMessage(body []byte) string {
	start := bytes.IndexByte(body, '{')
	if start < 0 {
		return ""
	}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(bytes.NewReader(body[start:])).Decode(&payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(payload.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	return strings.TrimSpace(payload.Message)
}

// statusText renders "Too Many Requests (429)".
func statusText(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if text == "" {
		text = strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	}
	return text + " (" + strconv.Itoa(resp.StatusCode) + ")"
}
