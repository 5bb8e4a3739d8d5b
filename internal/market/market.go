// Package market researches the job market for a role: a SEEK scrape first,
// an LLM estimate when scraping fails, and a zero-value profile marked
// unavailable when both fail. Results are cached per query.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/cache"
	"github.com/jonathan/talentpage/internal/fetch"
	"github.com/jonathan/talentpage/internal/llm"
	"github.com/jonathan/talentpage/internal/record"
)

// Data sources recorded on a profile, in fallback order.
const (
	SourceSeek        = "seek.com.au"
	SourceAIEstimate  = "ai_estimation"
	SourceUnavailable = "unavailable"
)

// Profile is the result of one market research query.
type Profile struct {
	SimilarRolesCount    int                      `json:"similar_roles_count"`
	SalaryRangeMarket    record.SalaryRangeMarket `json:"salary_range_market"`
	CommonBenefits       []string                 `json:"common_benefits"`
	CommonRequirements   []string                 `json:"common_requirements"`
	CompetitorHighlights []string                 `json:"competitor_highlights"`
	SearchQueryUsed      string                   `json:"search_query_used"`
	DataSource           string                   `json:"data_source"`
	ResearchedAt         time.Time                `json:"researched_at"`
}

// Researcher runs market research queries against a result cache.
type Researcher struct {
	cache  cache.Store
	llm    llm.Client
	opts   *fetch.Options
	logger *zap.Logger
}

// NewResearcher creates a Researcher. The LLM client may be nil; the AI
// estimation fallback is then skipped straight to unavailable.
func NewResearcher(store cache.Store, client llm.Client, logger *zap.Logger) *Researcher {
	return &Researcher{
		cache:  store,
		llm:    client,
		opts:   fetch.DefaultOptions(),
		logger: logger,
	}
}

// Research returns market data for a role. It always returns a usable
// profile: DataSource records how far down the fallback chain it got.
func (r *Researcher) Research(ctx context.Context, roleTitle, location, industry string) *Profile {
	cacheKey := strings.ToLower(fmt.Sprintf("%s|%s|%s", roleTitle, location, industry))

	if cached, ok := r.cacheGet(ctx, cacheKey); ok {
		r.logger.Debug("market cache hit", zap.String("key", cacheKey))
		return cached
	}

	r.logger.Info("researching market",
		zap.String("role", roleTitle),
		zap.String("location", location),
		zap.String("industry", industry))

	profile, err := r.scrapeSeek(ctx, roleTitle, location)
	if err != nil {
		r.logger.Warn("job board scrape failed, estimating", zap.Error(err))
		profile = r.aiEstimate(ctx, roleTitle, location, industry)
	}

	r.cacheSet(ctx, cacheKey, profile)
	return profile
}

func (r *Researcher) cacheGet(ctx context.Context, key string) (*Profile, bool) {
	data, ok := r.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

func (r *Researcher) cacheSet(ctx context.Context, key string, profile *Profile) {
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, data)
}
