package ai

import "github.com/doeshing/prompty-go/internal/domain"

func openaiStrategy() providerStrategy {
	return providerStrategy{
		id:            domain.ProviderOpenAI,
		endpoint:      "https://api.openai.com/v1/chat/completions",
		defaultModel:  "gpt-3.5-turbo",
		defaults:      generationDefaults{Temperature: 0.8, MaxTokens: 800},
		template:      standardTemplate,
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setBearerHeaders,
		clean:         cleanLabels,
	}
}
