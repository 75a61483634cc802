package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
)

const anthropicVersion = "2023-06-01"

func anthropicStrategy() providerStrategy {
	return providerStrategy{
		id:            domain.ProviderAnthropic,
		endpoint:      "https://api.anthropic.com/v1/messages",
		defaultModel:  "claude-3-5-haiku-20241022",
		defaults:      generationDefaults{Temperature: 0.7, MaxTokens: 800},
		template:      conciseTemplate,
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
		clean:         cleanLabels,
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// FirstText returns the first content block's text.
func (a anthropicResponse) FirstText() string {
	if len(a.Content) == 0 {
		return ""
	}
	return strings.TrimSpace(a.Content[0].Text)
}

func buildAnthropicRequest(req requestParams) ([]byte, error) {
	return json.Marshal(anthropicRequest{
		Model:       req.Model.UpstreamID(),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.Prompt.System,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: []anthropicContent{{Type: "text", Text: req.Prompt.User}},
			},
		},
	})
}

func parseAnthropicResponse(body []byte) (string, error) {
	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}
	text := response.FirstText()
	if text == "" {
		return "", fmt.Errorf("%w: response has no content blocks", domain.ErrResponseFormat)
	}
	return text, nil
}

func setAnthropicHeaders(req *http.Request, apiKey string, _ domain.ProviderSettings) {
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}
