package brand

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/llm"
	"github.com/jonathan/talentpage/internal/scraper"
)

// minVoiceTextLength is the smallest amount of site copy worth classifying.
const minVoiceTextLength = 20

const voicePromptTemplate = `You analyze company website text and identify brand voice characteristics. Return ONLY a JSON object with this exact structure (no explanation, no markdown):
{
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "tone_category": "one of: innovative_bold, professional_trusted, friendly_community, mission_driven",
  "writing_style": "A 1-2 sentence instruction for how to write copy matching this brand",
  "sample_hook": "A sample opening hook line for a job ad matching this brand",
  "avoid": "What to avoid in copy for this brand"
}

Analyze this company's website text and return a structured brand voice profile.

Text:
%s`

// Voice is the structured brand voice profile classified from site copy.
type Voice struct {
	Keywords     []string `json:"keywords"`
	ToneCategory string   `json:"tone_category"`
	WritingStyle string   `json:"writing_style"`
	SampleHook   string   `json:"sample_hook"`
	Avoid        string   `json:"avoid"`
}

// classifyVoice asks the LLM to profile the brand voice from meta description
// plus homepage copy. Every failure path is soft: too little text, a dead
// client, or malformed JSON all return a zero Voice.
func classifyVoice(ctx context.Context, client llm.Client, logger *zap.Logger, meta scraper.Meta, brandText []string) Voice {
	parts := make([]string, 0, len(brandText)+2)
	if meta.Description != "" {
		parts = append(parts, meta.Description)
	}
	if meta.OGDescription != "" {
		parts = append(parts, meta.OGDescription)
	}
	for _, t := range brandText {
		if t != "" {
			parts = append(parts, t)
		}
	}

	allText := strings.Join(parts, "\n")
	if len(allText) < minVoiceTextLength || client == nil {
		return Voice{}
	}
	if len(allText) > 2000 {
		allText = allText[:2000]
	}

	response, err := client.GenerateJSON(ctx, fmt.Sprintf(voicePromptTemplate, allText), llm.TierLite)
	if err != nil {
		logger.Warn("brand voice analysis failed", zap.Error(err))
		return Voice{}
	}

	var voice Voice
	if err := json.Unmarshal([]byte(response), &voice); err != nil {
		logger.Warn("brand voice response not parseable", zap.Error(err))
		return Voice{}
	}
	return voice
}
