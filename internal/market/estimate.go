package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/llm"
)

const estimatePromptTemplate = `You are a recruitment market expert specializing in the Australian job market. Provide realistic, current market estimates. Return ONLY valid JSON with no explanation or markdown.

Estimate the current Australian job market for: "%s" in "%s" in the "%s" industry.

Return this exact JSON structure:
{
  "similar_roles_count": <estimated number of similar active listings>,
  "salary_range_market": {
    "low": "<e.g. $80k>",
    "median": "<e.g. $100k>",
    "high": "<e.g. $130k>"
  },
  "common_benefits": ["<benefit 1>", "<benefit 2>", "<benefit 3>", "<benefit 4>", "<benefit 5>"],
  "common_requirements": ["<requirement 1>", "<requirement 2>", "<requirement 3>", "<requirement 4>"],
  "competitor_highlights": ["<insight about competition for this role>", "<market trend>"]
}`

// estimateSchema checks the estimate's shape before it is trusted.
const estimateSchema = `{
  "type": "object",
  "required": ["similar_roles_count", "salary_range_market"],
  "properties": {
    "similar_roles_count": {"type": "integer", "minimum": 0},
    "salary_range_market": {
      "type": "object",
      "properties": {
        "low": {"type": "string"},
        "median": {"type": "string"},
        "high": {"type": "string"}
      }
    },
    "common_benefits": {"type": "array", "items": {"type": "string"}},
    "common_requirements": {"type": "array", "items": {"type": "string"}},
    "competitor_highlights": {"type": "array", "items": {"type": "string"}}
  }
}`

// aiEstimate asks the LLM for market figures when scraping failed. A failed
// or malformed estimate degrades to a zero-value profile marked unavailable;
// this function never errors.
func (r *Researcher) aiEstimate(ctx context.Context, roleTitle, location, industry string) *Profile {
	loc := location
	if loc == "" {
		loc = "Australia"
	}
	ind := industry
	if ind == "" {
		ind = "general"
	}

	estimate, err := r.generateEstimate(ctx, roleTitle, loc, ind)
	if err != nil {
		r.logger.Warn("market estimation failed", zap.Error(err))
		return &Profile{
			SearchQueryUsed: fmt.Sprintf("Failed: %s in %s", roleTitle, location),
			DataSource:      SourceUnavailable,
			ResearchedAt:    time.Now().UTC(),
		}
	}

	estimate.SearchQueryUsed = fmt.Sprintf("AI estimate: %s in %s", roleTitle, location)
	estimate.DataSource = SourceAIEstimate
	estimate.ResearchedAt = time.Now().UTC()
	return estimate
}

func (r *Researcher) generateEstimate(ctx context.Context, roleTitle, location, industry string) (*Profile, error) {
	if r.llm == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}

	prompt := fmt.Sprintf(estimatePromptTemplate, roleTitle, location, industry)
	response, err := r.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate estimate: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(estimateSchema),
		gojsonschema.NewStringLoader(response))
	if err != nil {
		return nil, fmt.Errorf("estimate validation error: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("estimate does not match expected shape: %v", result.Errors())
	}

	var profile Profile
	if err := json.Unmarshal([]byte(response), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse estimate: %w", err)
	}
	return &profile, nil
}
