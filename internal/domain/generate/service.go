// Package generate holds the feature orchestrators: idea generation, deep
// analysis, budget planning, bill of materials and launch timeline. Every
// operation runs the same pipeline: fingerprint the input, consult the
// response cache, on miss run the model fallback chain, extract structured
// output, persist the parsed payload, publish a usage event.
package generate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/startupcopilot/copilot/internal/infra/cache"
	"github.com/startupcopilot/copilot/internal/infra/eventbus"
	"github.com/startupcopilot/copilot/internal/infra/llm"
)

// Generation outcomes recorded on the usage trail.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Completer runs a completion request through the model fallback chain.
type Completer interface {
	CompleteWithFallback(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error)
}

// Publisher is the event bus surface the service needs.
type Publisher interface {
	Publish(topic string, payload any)
}

// Service orchestrates the five generation features.
type Service struct {
	completer Completer
	cache     cache.Store
	bus       Publisher
}

func NewService(completer Completer, store cache.Store, bus Publisher) *Service {
	return &Service{completer: completer, cache: store, bus: bus}
}

// GenerateIdeas produces three business ideas for the given founder profile.
// When every model fails or the output cannot be parsed, the static idea set
// is returned with Fallback set; the caller never sees an error for this
// feature.
func (s *Service) GenerateIdeas(ctx context.Context, ownerID string, in IdeasInput) (*IdeasResult, error) {
	start := time.Now()
	fp := cache.Fingerprint(FeatureIdeas, in)

	var cached []Idea
	if s.cacheGet(ctx, fp, &cached) && len(cached) > 0 {
		s.publish(ownerID, FeatureIdeas, fp, "", 0, true, OutcomeOK, start)
		return &IdeasResult{Ideas: cached, FromCache: true}, nil
	}

	res, err := s.completer.CompleteWithFallback(ctx, llm.CompletionRequest{
		SystemPrompt: "Generate business ideas as JSON",
		UserPrompt:   buildIdeasPrompt(in),
		Models:       ideaModels,
		Temperature:  0.7,
		MaxTokens:    1000,
	})
	if err != nil {
		if ctx.Err() != nil {
			s.publish(ownerID, FeatureIdeas, fp, "", attemptCount(res), false, OutcomeError, start)
			return nil, err
		}
		s.publish(ownerID, FeatureIdeas, fp, "", attemptCount(res), false, OutcomeFallback, start)
		return &IdeasResult{Ideas: fallbackIdeas(), Fallback: true}, nil
	}

	var ideas []Idea
	if err := llm.ExtractInto(res.RawText, &ideas); err != nil || len(ideas) == 0 {
		s.publish(ownerID, FeatureIdeas, fp, res.ModelUsed, res.AttemptCount, false, OutcomeFallback, start)
		return &IdeasResult{Ideas: fallbackIdeas(), Fallback: true, ModelUsed: res.ModelUsed, Attempts: res.AttemptCount}, nil
	}
	for i := range ideas {
		ideas[i].Title = strings.TrimSpace(ideas[i].Title)
		ideas[i].Description = strings.TrimSpace(ideas[i].Description)
	}

	s.cachePut(ctx, fp, ideas)
	s.publish(ownerID, FeatureIdeas, fp, res.ModelUsed, res.AttemptCount, false, OutcomeOK, start)
	return &IdeasResult{Ideas: ideas, ModelUsed: res.ModelUsed, Attempts: res.AttemptCount}, nil
}

// Analyze produces a deep analysis of one idea. Unlike the other features
// there is no mock substitution: a completion that cannot be parsed is
// returned as an error carrying the raw model output so the caller can show
// it and offer a retry.
func (s *Service) Analyze(ctx context.Context, ownerID string, in AnalysisInput) (*AnalysisResult, error) {
	start := time.Now()
	fp := cache.Fingerprint(FeatureAnalysis, in)

	var cached Analysis
	if s.cacheGet(ctx, fp, &cached) && cached.Opportunity != "" {
		s.publish(ownerID, FeatureAnalysis, fp, "", 0, true, OutcomeOK, start)
		return &AnalysisResult{Analysis: cached, Missing: missingSections(cached), FromCache: true}, nil
	}

	res, err := s.completer.CompleteWithFallback(ctx, llm.CompletionRequest{
		SystemPrompt: "You are a business analyst assistant.",
		UserPrompt:   buildAnalysisPrompt(in),
		Models:       analysisModels,
		Temperature:  0.7,
		MaxTokens:    5000,
	})
	if err != nil {
		s.publish(ownerID, FeatureAnalysis, fp, "", attemptCount(res), false, OutcomeError, start)
		return nil, err
	}

	analysis, err := decodeAnalysis(res.RawText)
	if err != nil {
		s.publish(ownerID, FeatureAnalysis, fp, res.ModelUsed, res.AttemptCount, false, OutcomeError, start)
		return nil, err
	}

	s.cachePut(ctx, fp, analysis)
	s.publish(ownerID, FeatureAnalysis, fp, res.ModelUsed, res.AttemptCount, false, OutcomeOK, start)
	return &AnalysisResult{
		Analysis:  *analysis,
		Missing:   missingSections(*analysis),
		ModelUsed: res.ModelUsed,
		Attempts:  res.AttemptCount,
	}, nil
}

// PlanBudget produces a budget breakdown with per-type totals.
func (s *Service) PlanBudget(ctx context.Context, ownerID string, in BudgetInput) (*BudgetResult, error) {
	start := time.Now()
	fp := cache.Fingerprint(FeatureBudget, in)

	var cached []BudgetItem
	if s.cacheGet(ctx, fp, &cached) && len(cached) > 0 {
		s.publish(ownerID, FeatureBudget, fp, "", 0, true, OutcomeOK, start)
		return budgetResult(cached, false, true, "", 0), nil
	}

	res, err := s.completer.CompleteWithFallback(ctx, llm.CompletionRequest{
		SystemPrompt: "You are a helpful startup budget planner.",
		UserPrompt:   buildBudgetPrompt(in),
		Models:       defaultModels,
		Temperature:  0.7,
		MaxTokens:    700,
	})
	if err != nil {
		if ctx.Err() != nil {
			s.publish(ownerID, FeatureBudget, fp, "", attemptCount(res), false, OutcomeError, start)
			return nil, err
		}
		s.publish(ownerID, FeatureBudget, fp, "", attemptCount(res), false, OutcomeFallback, start)
		return budgetResult(fallbackBudget(), true, false, "", 0), nil
	}

	var items []BudgetItem
	if err := llm.ExtractInto(res.RawText, &items); err != nil || len(items) == 0 {
		s.publish(ownerID, FeatureBudget, fp, res.ModelUsed, res.AttemptCount, false, OutcomeFallback, start)
		return budgetResult(fallbackBudget(), true, false, res.ModelUsed, res.AttemptCount), nil
	}

	s.cachePut(ctx, fp, items)
	s.publish(ownerID, FeatureBudget, fp, res.ModelUsed, res.AttemptCount, false, OutcomeOK, start)
	return budgetResult(items, false, false, res.ModelUsed, res.AttemptCount), nil
}

// GenerateBOM produces a bill of materials grouped by category.
func (s *Service) GenerateBOM(ctx context.Context, ownerID string, in BOMInput) (*BOMResult, error) {
	start := time.Now()
	fp := cache.Fingerprint(FeatureBOM, in)

	var cached []BOMCategory
	if s.cacheGet(ctx, fp, &cached) && len(cached) > 0 {
		s.publish(ownerID, FeatureBOM, fp, "", 0, true, OutcomeOK, start)
		return bomResult(cached, false, true, "", 0), nil
	}

	res, err := s.completer.CompleteWithFallback(ctx, llm.CompletionRequest{
		SystemPrompt: "You are a helpful startup bill of materials generator.",
		UserPrompt:   buildBOMPrompt(in),
		Models:       defaultModels,
		Temperature:  0.7,
		MaxTokens:    1000,
	})
	if err != nil {
		if ctx.Err() != nil {
			s.publish(ownerID, FeatureBOM, fp, "", attemptCount(res), false, OutcomeError, start)
			return nil, err
		}
		s.publish(ownerID, FeatureBOM, fp, "", attemptCount(res), false, OutcomeFallback, start)
		return bomResult(fallbackBOM(), true, false, "", 0), nil
	}

	var categories []BOMCategory
	if err := llm.ExtractInto(res.RawText, &categories); err != nil || len(categories) == 0 {
		s.publish(ownerID, FeatureBOM, fp, res.ModelUsed, res.AttemptCount, false, OutcomeFallback, start)
		return bomResult(fallbackBOM(), true, false, res.ModelUsed, res.AttemptCount), nil
	}

	s.cachePut(ctx, fp, categories)
	s.publish(ownerID, FeatureBOM, fp, res.ModelUsed, res.AttemptCount, false, OutcomeOK, start)
	return bomResult(categories, false, false, res.ModelUsed, res.AttemptCount), nil
}

// PlanTimeline produces 6-10 launch milestones. An empty parsed array also
// falls back to the stock milestone plan.
func (s *Service) PlanTimeline(ctx context.Context, ownerID string, in TimelineInput) (*TimelineResult, error) {
	start := time.Now()
	fp := cache.Fingerprint(FeatureTimeline, in)

	var cached []Milestone
	if s.cacheGet(ctx, fp, &cached) && len(cached) > 0 {
		s.publish(ownerID, FeatureTimeline, fp, "", 0, true, OutcomeOK, start)
		return &TimelineResult{Milestones: cached, FromCache: true}, nil
	}

	res, err := s.completer.CompleteWithFallback(ctx, llm.CompletionRequest{
		SystemPrompt: "You are a startup project timeline assistant.",
		UserPrompt:   buildTimelinePrompt(in),
		Models:       defaultModels,
		Temperature:  0.6,
		MaxTokens:    1000,
	})
	if err != nil {
		if ctx.Err() != nil {
			s.publish(ownerID, FeatureTimeline, fp, "", attemptCount(res), false, OutcomeError, start)
			return nil, err
		}
		s.publish(ownerID, FeatureTimeline, fp, "", attemptCount(res), false, OutcomeFallback, start)
		return &TimelineResult{Milestones: fallbackMilestones(), Fallback: true}, nil
	}

	var milestones []Milestone
	if err := llm.ExtractInto(res.RawText, &milestones); err != nil || len(milestones) == 0 {
		s.publish(ownerID, FeatureTimeline, fp, res.ModelUsed, res.AttemptCount, false, OutcomeFallback, start)
		return &TimelineResult{Milestones: fallbackMilestones(), Fallback: true, ModelUsed: res.ModelUsed, Attempts: res.AttemptCount}, nil
	}

	s.cachePut(ctx, fp, milestones)
	s.publish(ownerID, FeatureTimeline, fp, res.ModelUsed, res.AttemptCount, false, OutcomeOK, start)
	return &TimelineResult{Milestones: milestones, ModelUsed: res.ModelUsed, Attempts: res.AttemptCount}, nil
}

// --- internal ---

// cacheGet loads and decodes a cached payload. A corrupt entry behaves as
// a miss.
func (s *Service) cacheGet(ctx context.Context, fingerprint string, out any) bool {
	payload, ok := s.cache.Get(ctx, fingerprint)
	if !ok {
		return false
	}
	return json.Unmarshal(payload, out) == nil
}

func (s *Service) cachePut(ctx context.Context, fingerprint string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Put(ctx, fingerprint, payload)
}

func (s *Service) publish(ownerID, feature, fingerprint, model string, attempts int, cacheHit bool, outcome string, start time.Time) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.TopicGeneration, eventbus.GenerationEvent{
		OwnerID:     ownerID,
		Feature:     feature,
		Fingerprint: fingerprint,
		ModelUsed:   model,
		Attempts:    attempts,
		CacheHit:    cacheHit,
		Outcome:     outcome,
		Duration:    time.Since(start),
		OccurredAt:  time.Now().UTC(),
	})
}

func attemptCount(res *llm.CompletionResult) int {
	if res == nil {
		return 0
	}
	return res.AttemptCount
}

// decodeAnalysis extracts the analysis object, mapping the alternate field
// names older model outputs use (billOfMaterials, legalCompliance,
// strategicRecommendations) onto the canonical keys before decoding.
func decodeAnalysis(raw string) (*Analysis, error) {
	value, err := llm.ExtractStructured(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &llm.MalformedOutputError{RawText: raw}
	}

	aliases := map[string]string{
		"billOfMaterials":          "bom",
		"legalCompliance":          "legal",
		"strategicRecommendations": "recommendations",
	}
	for from, to := range aliases {
		if v, found := obj[from]; found {
			if _, taken := obj[to]; !taken {
				obj[to] = v
			}
		}
	}

	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, &llm.MalformedOutputError{RawText: raw}
	}
	var analysis Analysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return nil, &llm.MalformedOutputError{RawText: raw}
	}
	return &analysis, nil
}

// missingSections names the required report sections the model left empty.
func missingSections(a Analysis) []string {
	var missing []string
	add := func(name string, empty bool) {
		if empty {
			missing = append(missing, name)
		}
	}
	add("opportunity", strings.TrimSpace(a.Opportunity) == "")
	add("pros", len(a.Pros) == 0)
	add("cons", len(a.Cons) == 0)
	add("budget", len(a.Budget.Breakdown) == 0)
	add("bom", len(a.BOM) == 0)
	add("timeline", len(a.Timeline) == 0)
	add("market", a.Market.Audience == "" && len(a.Market.Competitors) == 0)
	add("forecast", len(a.Forecast.Projection) == 0)
	add("marketing", len(a.Marketing.FreeChannels) == 0 && len(a.Marketing.PaidChannels) == 0)
	add("legal", a.Legal == AnalysisLegal{})
	add("recommendations", len(a.Recommendations) == 0)
	return missing
}

func budgetResult(items []BudgetItem, fallback, fromCache bool, model string, attempts int) *BudgetResult {
	r := &BudgetResult{
		Items:     items,
		Fallback:  fallback,
		FromCache: fromCache,
		ModelUsed: model,
		Attempts:  attempts,
	}
	for _, item := range items {
		amount := amountValue(item.Amount)
		switch item.Type {
		case "startup":
			r.StartupCosts += amount
		case "monthly":
			r.MonthlyCosts += amount
		case "yearly":
			r.YearlyCosts += amount
		}
	}
	return r
}

func bomResult(categories []BOMCategory, fallback, fromCache bool, model string, attempts int) *BOMResult {
	r := &BOMResult{
		Categories: categories,
		Fallback:   fallback,
		FromCache:  fromCache,
		ModelUsed:  model,
		Attempts:   attempts,
	}
	for _, category := range categories {
		for _, item := range category.Items {
			r.TotalCost += amountValue(item.Cost)
		}
	}
	return r
}
