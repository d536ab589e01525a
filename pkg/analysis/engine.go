package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"prismatic-hq/prism/pkg/providerfactory"
	"prismatic-hq/prism/pkg/providers"
	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/suggest"
)

const (
	// enrichmentTemperature keeps the review deterministic-ish.
	enrichmentTemperature = 0.3

	// freeModelMaxTokens is the token budget for free-tier models, which
	// tolerate longer completions at no cost.
	freeModelMaxTokens = 4000

	// paidModelMaxTokens is the token budget for metered models.
	paidModelMaxTokens = 1000

	// noKeyNote is returned when enrichment was requested but no key was
	// available for a provider that requires one.
	noKeyNote = "Detailed LLM analysis requires an API key. Using rule-based analysis only."
)

// Options configures an Engine.
type Options struct {
	// Keys maps provider type (openai, anthropic, openrouter) to a
	// configured API key. Request-supplied keys take precedence, then
	// these, then the provider's environment variable.
	Keys map[string]string

	// ProviderTimeout bounds each enrichment call. Zero means 60s.
	ProviderTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// lookupEnv is swapped in tests.
	lookupEnv func(string) string

	// newProvider is swapped in tests.
	newProvider func(providers.ProviderConfig) (providers.Provider, error)
}

// Engine runs the full analysis pipeline: heuristic scoring, suggestion
// generation, and optional LLM enrichment with graceful degradation.
// Enrichment failures never fail the analysis; the heuristic result is
// returned with the failure logged.
type Engine struct {
	scorer    *scoring.Scorer
	suggester *suggest.Suggester
	manager   *providerfactory.Manager

	keys        map[string]string
	timeout     time.Duration
	logger      *slog.Logger
	lookupEnv   func(string) string
	newProvider func(providers.ProviderConfig) (providers.Provider, error)
}

// NewEngine creates an analysis engine.
func NewEngine(scorer *scoring.Scorer, suggester *suggest.Suggester, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ProviderTimeout == 0 {
		opts.ProviderTimeout = 60 * time.Second
	}
	if opts.lookupEnv == nil {
		opts.lookupEnv = os.Getenv
	}
	if opts.newProvider == nil {
		opts.newProvider = providerfactory.NewProvider
	}

	keys := make(map[string]string, len(opts.Keys))
	maps.Copy(keys, opts.Keys)

	return &Engine{
		scorer:      scorer,
		suggester:   suggester,
		manager:     providerfactory.NewManager(),
		keys:        keys,
		timeout:     opts.ProviderTimeout,
		logger:      opts.Logger,
		lookupEnv:   opts.lookupEnv,
		newProvider: opts.newProvider,
	}
}

// Dimensions exposes the scorer's dimension metadata.
func (e *Engine) Dimensions() []scoring.Dimension {
	return e.scorer.Dimensions()
}

// ProviderHealth summarizes the health of the cached enrichment providers.
func (e *Engine) ProviderHealth() providerfactory.HealthSummary {
	return e.manager.GetHealthSummary()
}

// Close releases cached providers.
func (e *Engine) Close() error {
	return e.manager.Close()
}

// Analyze scores a prompt, generates suggestions, and, when requested,
// enriches the result with an LLM review.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.PromptText) == "" {
		return nil, fmt.Errorf("prompt text is empty")
	}

	report := e.scorer.Score(req.PromptText)
	suggestions := e.suggester.Suggest(req.PromptText, report, req.TargetModel)

	scores := make(map[string]float64, len(report.DimensionScores))
	maps.Copy(scores, report.DimensionScores)

	result := &Result{
		Scores: scores,
		// Overall is locked to the heuristic scores; enrichment scores
		// use a different scale and must not shift it.
		OverallScore:    report.Overall(),
		Suggestions:     suggestions,
		Strengths:       report.Strengths,
		Weaknesses:      report.Weaknesses,
		OptimizedPrompt: e.suggester.OptimizedPrompt(req.PromptText, suggestions),
	}

	if req.DetailedAnalysis {
		e.enrich(ctx, req, result)
	}

	return result, nil
}

// enrich runs the LLM review and merges it into the heuristic result.
func (e *Engine) enrich(ctx context.Context, req Request, result *Result) {
	providerType, model := providerfactory.ResolveModel(req.TargetModel)

	provider, ephemeral, err := e.providerFor(providerType, req.APIKey)
	if err != nil {
		e.logger.Warn("enrichment skipped",
			"provider_type", providerType,
			"model", model,
			"reason", err,
		)
		result.Note = noKeyNote
		result.Suggestions = append(result.Suggestions, apiKeySuggestion())
		return
	}
	if ephemeral {
		defer provider.Close()
	}

	maxTokens := paidModelMaxTokens
	if strings.Contains(model, "free") {
		maxTokens = freeModelMaxTokens
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := provider.SendCompletion(callCtx, &providers.CompletionRequest{
		Model: model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: systemPrompt},
			{Role: providers.RoleUser, Content: buildAnalysisPrompt(req.PromptText, req.TargetModel)},
		},
		Temperature: enrichmentTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		e.logger.Warn("enrichment request failed, returning heuristic result",
			"provider", provider.GetName(),
			"model", model,
			"error", err,
		)
		return
	}

	enriched, err := parseEnrichment(resp.Content)
	if err != nil {
		e.logger.Warn("enrichment response unparseable, returning heuristic result",
			"provider", provider.GetName(),
			"model", model,
			"error", err,
		)
		return
	}

	mergeEnrichment(result, enriched)

	e.logger.Info("enrichment merged",
		"provider", provider.GetName(),
		"model", model,
		"llm_scores", len(enriched.DimensionScores),
		"llm_suggestions", len(enriched.Suggestions),
		"tokens", resp.Usage.TotalTokens,
	)
}

// providerFor resolves the provider for an enrichment call.
//
// A request-supplied key always builds a throwaway provider so keys never
// leak between callers. Otherwise providers are cached per type, keyed with
// the configured key or the provider's environment variable. OpenRouter is
// usable keyless; other providers without a key return an error.
func (e *Engine) providerFor(providerType, requestKey string) (p providers.Provider, ephemeral bool, err error) {
	if requestKey != "" {
		p, err = e.newProvider(providers.ProviderConfig{
			Name:    providerType,
			Type:    providerType,
			APIKey:  requestKey,
			Timeout: e.timeout,
		})
		return p, true, err
	}

	if cached, err := e.manager.GetProvider(providerType); err == nil {
		return cached, false, nil
	}

	key := e.keys[providerType]
	if key == "" {
		key = e.lookupEnv(providerfactory.EnvKeyName(providerType))
	}
	if key == "" && providerType != providerfactory.TypeOpenRouter {
		return nil, false, fmt.Errorf("no API key available for provider %q", providerType)
	}

	if err := e.manager.AddProvider(providers.ProviderConfig{
		Name:    providerType,
		Type:    providerType,
		APIKey:  key,
		Timeout: e.timeout,
	}); err != nil {
		return nil, false, err
	}

	p, err = e.manager.GetProvider(providerType)
	return p, false, err
}

// mergeEnrichment overlays LLM findings onto the heuristic result.
// Heuristic values survive wherever the LLM omitted a field.
func mergeEnrichment(result *Result, enriched *enrichment) {
	maps.Copy(result.Scores, enriched.DimensionScores)
	result.Strengths = append(result.Strengths, enriched.Strengths...)
	result.Weaknesses = append(result.Weaknesses, enriched.Weaknesses...)
	result.Suggestions = append(result.Suggestions, enriched.Suggestions...)
	if enriched.ImprovedPrompt != "" {
		result.OptimizedPrompt = enriched.ImprovedPrompt
	}
}

// apiKeySuggestion is appended when enrichment was requested without a key.
func apiKeySuggestion() suggest.Suggestion {
	return suggest.Suggestion{
		Title:       "Add API key for enhanced analysis",
		Description: "For more detailed analysis, provide an API key in the form.",
		Example:     "Enter your API key in the field that appears when 'Detailed Analysis' is checked.",
		Rationale:   "LLM-based analysis provides more nuanced feedback on your prompts.",
	}
}
