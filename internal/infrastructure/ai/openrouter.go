package ai

import (
	"net/http"

	"github.com/doeshing/prompty-go/internal/domain"
)

const (
	openRouterTitle          = "Flux Image Prompt Generator"
	openRouterDefaultReferer = "https://github.com/doeshing/prompty-go"
)

func openrouterStrategy() providerStrategy {
	return providerStrategy{
		id:            domain.ProviderOpenRouter,
		endpoint:      "https://openrouter.ai/api/v1/chat/completions",
		defaultModel:  "google/gemini-2.0-flash-001",
		defaults:      generationDefaults{Temperature: 0.8, MaxTokens: 800},
		template:      standardTemplate,
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setOpenRouterHeaders,
		clean:         cleanLabels,
	}
}

// OpenRouter attributes traffic through the referer and title headers.
func setOpenRouterHeaders(req *http.Request, apiKey string, settings domain.ProviderSettings) {
	setBearerHeaders(req, apiKey, settings)
	req.Header.Set("HTTP-Referer", defaultString(settings.Referer, openRouterDefaultReferer))
	req.Header.Set("X-Title", openRouterTitle)
}
