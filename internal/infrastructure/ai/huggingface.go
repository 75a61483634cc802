package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
)

func huggingfaceStrategy() providerStrategy {
	return providerStrategy{
		id:            domain.ProviderHuggingFace,
		endpoint:      "https://api-inference.huggingface.co/models",
		endpointFor:   modelPathEndpoint,
		defaultModel:  "mistralai/Mistral-7B-Instruct-v0.2",
		defaults:      generationDefaults{Temperature: 0.7, MaxTokens: 500},
		template:      conciseTemplate,
		buildRequest:  buildHuggingFaceRequest,
		parseResponse: parseHuggingFaceResponse,
		setHeaders:    setBearerHeaders,
		clean:         cleanEcho,
		echoInput:     func(p assembledPrompt) string { return p.Combined() },
	}
}

// The inference API addresses the model in the URL path.
func modelPathEndpoint(base string, model domain.ModelDefinition) string {
	return strings.TrimRight(base, "/") + "/" + model.UpstreamID()
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

type huggingFaceGeneration struct {
	GeneratedText *string `json:"generated_text"`
}

func buildHuggingFaceRequest(req requestParams) ([]byte, error) {
	return json.Marshal(huggingFaceRequest{
		Inputs: req.Prompt.Combined(),
		Parameters: huggingFaceParameters{
			MaxNewTokens: req.MaxTokens,
			Temperature:  req.Temperature,
			TopP:         0.9,
			DoSample:     true,
		},
	})
}

// The endpoint answers with either [{"generated_text": ...}] or a bare
// {"generated_text": ...} object.
func parseHuggingFaceResponse(body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "[") {
		var list []huggingFaceGeneration
		if err := json.Unmarshal([]byte(trimmed), &list); err == nil && len(list) > 0 && list[0].GeneratedText != nil {
			return *list[0].GeneratedText, nil
		}
	} else {
		var single huggingFaceGeneration
		if err := json.Unmarshal([]byte(trimmed), &single); err == nil && single.GeneratedText != nil {
			return *single.GeneratedText, nil
		}
	}
	return "", fmt.Errorf("%w: unexpected response format from Hugging Face", domain.ErrResponseFormat)
}
