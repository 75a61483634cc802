package ai

import (
	"encoding/json"
	"fmt"

	"github.com/doeshing/prompty-go/internal/domain"
)

func novitaStrategy() providerStrategy {
	return providerStrategy{
		id:            domain.ProviderNovita,
		endpoint:      "https://api.novita.ai/v3/openai/chat/completions",
		defaultModel:  "meta-llama/llama-4-maverick-17b-128e-instruct-fp8",
		defaults:      generationDefaults{Temperature: 0.7, MaxTokens: 2048},
		template:      strictTemplate,
		buildRequest:  buildNovitaRequest,
		parseResponse: parseNovitaResponse,
		setHeaders:    setBearerHeaders,
		clean:         cleanLlamaOutput,
	}
}

func buildNovitaRequest(req requestParams) ([]byte, error) {
	stream := false
	return json.Marshal(chatCompletionRequest{
		Model: req.Model.UpstreamID(),
		Messages: []chatMessage{
			{Role: "system", Content: req.Prompt.System},
			{Role: "user", Content: req.Prompt.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      &stream,
	})
}

func parseNovitaResponse(body []byte) (string, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: invalid response format from Novita API", domain.ErrResponseFormat)
	}
	content := response.FirstMessage()
	if content == "" {
		return "", fmt.Errorf("%w: no prompt was generated from Novita API", domain.ErrResponseFormat)
	}
	return content, nil
}
