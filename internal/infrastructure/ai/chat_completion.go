package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the OpenAI-compatible body shared by OpenAI,
// Novita and OpenRouter.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      *bool         `json:"stream,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// FirstMessage returns the trimmed content of the first choice.
func (c chatCompletionResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

func buildChatCompletionRequest(req requestParams) ([]byte, error) {
	return json.Marshal(chatCompletionRequest{
		Model: req.Model.UpstreamID(),
		Messages: []chatMessage{
			{Role: "system", Content: req.Prompt.System},
			{Role: "user", Content: req.Prompt.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", domain.ErrResponseFormat)
	}
	content := response.FirstMessage()
	if content == "" {
		return "", fmt.Errorf("%w: first choice has no content", domain.ErrResponseFormat)
	}
	return content, nil
}

func setBearerHeaders(req *http.Request, apiKey string, _ domain.ProviderSettings) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}
