// Package llm provides the LLM client abstraction used for brand voice
// classification and market-data estimation. The interface hides the provider
// so callers pick a capability tier, not a model name.
package llm

// ModelTier represents the capability level requested for a generation call.
type ModelTier string

const (
	// TierLite is for cheap classification: voice tone, short labels.
	TierLite ModelTier = "lite"
	// TierStandard is for structured JSON output: market estimation.
	TierStandard ModelTier = "standard"
)

// Provider identifies the backing LLM provider.
type Provider string

const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config maps capability tiers to concrete model names.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard then
// lite when the tier has no explicit entry.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
