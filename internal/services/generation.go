package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/events"
	"github.com/doeshing/prompty-go/internal/ports"
)

// GenerateRequest is the input of one orchestrated generation call.
type GenerateRequest struct {
	Config  domain.PromptConfig
	Catalog domain.Catalog
	// Count is the number of variations; 0 means 1.
	Count int
}

// GenerationService validates a request, runs the batch sequentially against
// the selected provider adapter and records every success in history.
type GenerationService struct {
	ConfigProvider ports.ConfigProvider
	AdapterFactory ports.AdapterFactory
	History        ports.HistoryStore
	Events         events.Emitter
	Logger         *slog.Logger

	// Now stamps history entries; defaults to time.Now.
	Now func() time.Time
}

// Generate produces Count prompts for req.Config.
//
// Configuration problems return an empty report and an error wrapping
// domain.ErrConfiguration before any network call. A missing key returns
// a report holding one error result together with domain.ErrCredential.
// Per-item transport or format failures stay in the report and do not stop
// the batch.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (domain.BatchReport, error) {
	if s.ConfigProvider == nil || s.AdapterFactory == nil || s.History == nil {
		return domain.BatchReport{}, errors.New("services.GenerationService dependencies not satisfied")
	}
	log := s.logger()

	count := req.Count
	if count < 0 {
		return domain.BatchReport{}, fmt.Errorf("%w: count must not be negative, got %d", domain.ErrConfiguration, count)
	}
	if count == 0 {
		count = 1
	}

	if req.Config.Model == "" {
		return domain.BatchReport{}, fmt.Errorf("%w: no model selected", domain.ErrConfiguration)
	}
	if req.Catalog.IsEmpty() {
		return domain.BatchReport{}, fmt.Errorf("%w: missing prompt categories", domain.ErrConfiguration)
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("load config: %w", err)
	}
	model, ok := cfg.FindModelByID(req.Config.Model)
	if !ok {
		return domain.BatchReport{}, fmt.Errorf("%w: model %s is not available", domain.ErrConfiguration, req.Config.Model)
	}

	adapter, err := s.AdapterFactory.ForProvider(model.Provider)
	if err != nil {
		return domain.BatchReport{}, err
	}

	report := domain.BatchReport{Model: model}

	if adapter.APIKey(ctx) == "" {
		keyErr := fmt.Errorf("%w: no %s API key provided; add one with 'prompty keys set %s'",
			domain.ErrCredential, model.Provider.DisplayName(), model.Provider)
		report.Results = []domain.GenerationResult{domain.NewErrorResult(keyErr)}
		return report, keyErr
	}

	if count > 1 {
		report.BatchID = uuid.NewString()
	}
	log = log.With("model", model.ID, "count", count, "batch_id", report.BatchID)
	log.Debug("starting generation")

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			log.Debug("generation cancelled", "completed", i)
			return report, err
		}

		itemConfig := req.Config
		if i > 0 {
			itemConfig = req.Config.WithExtraDetails(appendHint(req.Config.ExtraDetails, variationHint(i, count)))
		}

		result := adapter.Generate(ctx, itemConfig, req.Catalog)
		report.Results = append(report.Results, result)

		if result.Failed() {
			log.Debug("generation item failed", "index", i, "error", result.Error)
			continue
		}

		entry := domain.HistoryEntry{
			ID:        result.ID,
			Prompt:    result.Prompt,
			Config:    req.Config.Clone(),
			Timestamp: s.now(),
			ModelUsed: model.Name,
			BatchID:   report.BatchID,
		}
		if err := s.History.Append(ctx, entry); err != nil {
			log.Warn("failed to record history", "error", err, "entry_id", entry.ID)
		}
	}

	if len(report.Results) == 0 {
		return report, domain.ErrNoResults
	}

	if report.AllSucceeded() {
		s.notifyCompleted(ctx, report)
	}
	return report, nil
}

func (s *GenerationService) notifyCompleted(ctx context.Context, report domain.BatchReport) {
	if s.Events == nil {
		return
	}
	prompts := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		prompts = append(prompts, r.Prompt)
	}
	event, err := events.New(domain.EventGenerationCompleted, events.GenerationCompleted{
		BatchID: report.BatchID,
		Model:   report.Model.ID,
		Results: prompts,
	})
	if err == nil {
		err = s.Events.Emit(ctx, event)
	}
	if err != nil {
		s.logger().Warn("generation.completed handler failed", "error", err)
	}
}

func (s *GenerationService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default().With("component", "generation")
	}
	return s.Logger
}

func (s *GenerationService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// variationHint nudges item index (0-based, index >= 1) of a batch of
// total away from the earlier items.
func variationHint(index, total int) string {
	if index == 1 {
		return fmt.Sprintf("[Batch variation %d/%d: Please provide a completely different variation with alternative elements and style.]", index+1, total)
	}
	return fmt.Sprintf("[Batch variation %d/%d: Please create a third distinct variation with unique elements and approach.]", index+1, total)
}

func appendHint(details, hint string) string {
	if strings.TrimSpace(details) == "" {
		return hint
	}
	return details + " " + hint
}
