package ai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/infrastructure/cache"
	"github.com/doeshing/prompty-go/internal/ports"
)

// providerStrategy supplies everything that differs between providers; the
// HTTP round trip, caching and error folding live in httpAdapter.
type providerStrategy struct {
	id           domain.ProviderID
	endpoint     string
	endpointFor  func(base string, model domain.ModelDefinition) string
	defaultModel string
	defaults     generationDefaults
	template     promptTemplate

	buildRequest  func(requestParams) ([]byte, error)
	parseResponse func([]byte) (string, error)
	setHeaders    func(*http.Request, string, domain.ProviderSettings)
	clean         cleanFunc
	echoInput     func(assembledPrompt) string
}

type generationDefaults struct {
	Temperature float64
	MaxTokens   int
}

// requestParams is the resolved input handed to a strategy's body builder.
type requestParams struct {
	Model       domain.ModelDefinition
	Prompt      assembledPrompt
	Temperature float64
	MaxTokens   int
}

type httpAdapter struct {
	strategy    providerStrategy
	settings    domain.ProviderSettings
	models      []domain.ModelDefinition
	httpClient  *http.Client
	credentials ports.CredentialStore
	cache       *cache.ResponseCache
	limiter     *rate.Limiter
	group       singleflight.Group
	logger      *slog.Logger
}

type adapterOptions struct {
	Settings    domain.ProviderSettings
	Models      []domain.ModelDefinition
	HTTPClient  *http.Client
	Credentials ports.CredentialStore
	Cache       *cache.ResponseCache
	Logger      *slog.Logger
}

func newHTTPAdapter(strategy providerStrategy, opts adapterOptions) *httpAdapter {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultHTTPClientTimeout}
	}
	responseCache := opts.Cache
	if responseCache == nil {
		responseCache = cache.New(domain.DefaultCacheTTL)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var limiter *rate.Limiter
	if rpm := opts.Settings.RequestsPerMinute; rpm > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}

	return &httpAdapter{
		strategy:    strategy,
		settings:    opts.Settings,
		models:      opts.Models,
		httpClient:  client,
		credentials: opts.Credentials,
		cache:       responseCache,
		limiter:     limiter,
		logger:      log.With("component", "adapter", "provider", string(strategy.id)),
	}
}

func (a *httpAdapter) Provider() domain.ProviderID {
	return a.strategy.id
}

func (a *httpAdapter) APIKey(ctx context.Context) string {
	if a.credentials == nil {
		return ""
	}
	key, err := a.credentials.Get(ctx, a.strategy.id)
	if err != nil {
		a.logger.Warn("failed to read api key", "error", err)
		return ""
	}
	return strings.TrimSpace(key)
}

func (a *httpAdapter) SaveAPIKey(ctx context.Context, key string) error {
	if a.credentials == nil {
		return fmt.Errorf("%w: no credential store configured", domain.ErrCredential)
	}
	return a.credentials.Set(ctx, a.strategy.id, strings.TrimSpace(key))
}

// CacheStats exposes the adapter's cache counters.
func (a *httpAdapter) CacheStats() cache.Stats {
	return a.cache.Stats()
}

func (a *httpAdapter) Generate(ctx context.Context, cfg domain.PromptConfig, catalog domain.Catalog) domain.GenerationResult {
	key := cache.Fingerprint(cfg)
	if entry, ok := a.cache.Get(key); ok {
		a.logger.Debug("using cached prompt", "age", time.Since(entry.CreatedAt).Round(time.Second))
		result := domain.NewResult(entry.Prompt)
		result.Cached = true
		return result
	}

	if catalog.IsEmpty() {
		return domain.NewErrorResult(fmt.Errorf("%w: missing prompt categories", domain.ErrConfiguration))
	}

	apiKey := a.APIKey(ctx)
	if apiKey == "" {
		name := a.strategy.id.DisplayName()
		return domain.NewErrorResult(fmt.Errorf("%w: no %s API key provided; add one with 'prompty keys set %s'", domain.ErrCredential, name, a.strategy.id))
	}

	value, err, _ := a.group.Do(key, func() (interface{}, error) {
		if entry, ok := a.cache.Get(key); ok {
			return entry.Prompt, nil
		}
		text, err := a.call(ctx, cfg, catalog, apiKey)
		if err != nil {
			return "", err
		}
		a.cache.Set(key, text)
		return text, nil
	})
	if err != nil {
		a.logger.Debug("generation failed", "error", err)
		return domain.NewErrorResult(err)
	}

	text, ok := value.(string)
	if !ok {
		return domain.NewErrorResult(fmt.Errorf("%w: unexpected result type %T", domain.ErrResponseFormat, value))
	}
	return domain.NewResult(text)
}

func (a *httpAdapter) call(ctx context.Context, cfg domain.PromptConfig, catalog domain.Catalog, apiKey string) (string, error) {
	model := a.resolveModel(cfg.Model)
	prompt := assemblePrompt(cfg, catalog, a.strategy.template)

	body, err := a.strategy.buildRequest(requestParams{
		Model:       model,
		Prompt:      prompt,
		Temperature: defaultFloat(a.settings.Temperature, a.strategy.defaults.Temperature),
		MaxTokens:   defaultInt(a.settings.MaxTokens, a.strategy.defaults.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrConfiguration, err)
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
	}

	endpoint := a.endpoint(model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	a.strategy.setHeaders(httpReq, apiKey, a.settings)

	started := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %s request failed: %v", domain.ErrTransport, a.strategy.id.DisplayName(), err)
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return "", fmt.Errorf("%w: read %s response: %v", domain.ErrTransport, a.strategy.id.DisplayName(), err)
	}
	a.logger.Debug("provider responded",
		"model", model.UpstreamID(),
		"status", resp.StatusCode,
		"duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractErrorMessage(responseBody.Bytes())
		if message == "" {
			message = statusText(resp)
		}
		return "", fmt.Errorf("%w: %s API error: %s", domain.ErrTransport, a.strategy.id.DisplayName(), message)
	}

	content, err := a.strategy.parseResponse(responseBody.Bytes())
	if err != nil {
		return "", err
	}

	input := ""
	if a.strategy.echoInput != nil {
		input = a.strategy.echoInput(prompt)
	}
	cleaned := a.strategy.clean(content, input)
	if strings.TrimSpace(cleaned) == "" {
		return "", fmt.Errorf("%w: %s returned an empty prompt", domain.ErrResponseFormat, a.strategy.id.DisplayName())
	}
	if cfg.HasPrefix() {
		cleaned = applyPrefix(cleaned, cfg.PrefixText)
	}
	return cleaned, nil
}

func (a *httpAdapter) resolveModel(id string) domain.ModelDefinition {
	if id == "" {
		id = a.strategy.defaultModel
	}
	for _, model := range a.models {
		if model.ID == id {
			return model
		}
	}
	return domain.ModelDefinition{ID: id, Name: id, Provider: a.strategy.id}
}

func (a *httpAdapter) endpoint(model domain.ModelDefinition) string {
	base := defaultString(a.settings.Endpoint, a.strategy.endpoint)
	if a.strategy.endpointFor != nil {
		return a.strategy.endpointFor(base, model)
	}
	return base
}

var _ ports.Adapter = (*httpAdapter)(nil)
