package brand

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/llm"
	"github.com/jonathan/talentpage/internal/scraper"
)

// stubClient returns canned responses for voice classification tests.
type stubClient struct {
	response string
	err      error
	lastTier llm.ModelTier
}

func (s *stubClient) GenerateContent(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	s.lastTier = tier
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	s.lastTier = tier
	return s.response, s.err
}

func (s *stubClient) Close() error { return nil }

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short hex", "#abc", "#aabbcc"},
		{"full hex", "#AABBCC", "#aabbcc"},
		{"hex with alpha", "#aabbccdd", "#aabbcc"},
		{"rgb", "rgb(255, 102, 0)", "#ff6600"},
		{"rgba", "rgba(255, 102, 0, 0.5)", "#ff6600"},
		{"rgb out of range", "rgb(300, 0, 0)", ""},
		{"hsl greyscale", "hsl(0, 0%, 50%)", "#808080"},
		{"hsl red", "hsl(0, 100%, 50%)", "#ff0000"},
		{"whitespace", "  #abc  ", "#aabbcc"},
		{"empty", "", ""},
		{"garbage", "bananas", ""},
		{"bad hex length", "#abcd", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHex(tt.input))
		})
	}
}

func TestIsNeutral(t *testing.T) {
	tests := []struct {
		hex  string
		want bool
	}{
		{"#ffffff", true},  // white
		{"#f5f5f5", true},  // near-white
		{"#000000", true},  // black
		{"#111111", true},  // near-black
		{"#808080", true},  // mid grey
		{"#ff6600", false}, // saturated orange
		{"#667eea", false}, // saturated blue
		{"#20c040", false}, // saturated green
		{"not-hex", false},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNeutral(tt.hex))
		})
	}
}

func TestSelectColors(t *testing.T) {
	t.Run("custom property wins primary", func(t *testing.T) {
		raw := []scraper.ColorSignal{
			{Value: "#ff6600", Source: "style-tag", Priority: 5},
			{Value: "#ff6600", Source: "style-tag", Priority: 5},
			{Value: "#123456", Source: "style-tag-var", Priority: 9},
			{Value: "#cc0088", Source: "theme-color", Priority: 10},
		}
		palette := selectColors(raw)
		assert.Equal(t, "#123456", palette.Primary)
	})

	t.Run("theme color beats clusters", func(t *testing.T) {
		raw := []scraper.ColorSignal{
			{Value: "#ff6600", Source: "style-tag", Priority: 5},
			{Value: "#cc0088", Source: "theme-color", Priority: 10},
		}
		palette := selectColors(raw)
		assert.Equal(t, "#cc0088", palette.Primary)
	})

	t.Run("cluster winner without explicit indicators", func(t *testing.T) {
		raw := []scraper.ColorSignal{
			{Value: "#ff6600", Source: "style-tag", Priority: 5},
			{Value: "#ff6602", Source: "style-tag", Priority: 5}, // same cluster
			{Value: "#0000cc", Source: "style-tag", Priority: 5},
		}
		palette := selectColors(raw)
		assert.Equal(t, "#ff6600", palette.Primary)
		assert.Equal(t, "#0000cc", palette.Secondary)
	})

	t.Run("neutrals filtered out", func(t *testing.T) {
		raw := []scraper.ColorSignal{
			{Value: "#ffffff", Source: "style-tag", Priority: 5},
			{Value: "#000000", Source: "style-tag", Priority: 5},
			{Value: "#ff6600", Source: "style-tag", Priority: 5},
		}
		palette := selectColors(raw)
		assert.Equal(t, "#ff6600", palette.Primary)
		assert.Empty(t, palette.Secondary)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, selectColors(nil).Primary)
	})
}

func TestSelectFonts(t *testing.T) {
	t.Run("most frequent non-system font wins", func(t *testing.T) {
		raw := []scraper.FontSignal{
			{Value: "https://fonts.googleapis.com/css?family=Inter", Source: "google-fonts-link", Kind: "url"},
			{Value: "Inter", Source: "google-fonts-link", Kind: "name"},
			{Value: "Inter, sans-serif", Source: "css-declaration", Kind: "declaration"},
			{Value: "Merriweather, serif", Source: "css-declaration", Kind: "declaration"},
			{Value: "Arial, sans-serif", Source: "css-declaration", Kind: "declaration"},
		}
		fonts := selectFonts(raw)
		assert.Equal(t, "Inter", fonts.Heading)
		assert.Equal(t, "Merriweather", fonts.Body)
		assert.Equal(t, "https://fonts.googleapis.com/css?family=Inter", fonts.GoogleFontsURL)
	})

	t.Run("single font used for both", func(t *testing.T) {
		raw := []scraper.FontSignal{
			{Value: "Poppins", Source: "google-fonts-link", Kind: "name"},
		}
		fonts := selectFonts(raw)
		assert.Equal(t, "Poppins", fonts.Heading)
		assert.Equal(t, "Poppins", fonts.Body)
	})

	t.Run("only system fonts yields empty", func(t *testing.T) {
		raw := []scraper.FontSignal{
			{Value: "Arial, sans-serif", Source: "css-declaration", Kind: "declaration"},
			{Value: "system-ui", Source: "css-declaration", Kind: "declaration"},
		}
		fonts := selectFonts(raw)
		assert.Empty(t, fonts.Heading)
		assert.Empty(t, fonts.Body)
	})
}

func TestClassifyVoice(t *testing.T) {
	meta := scraper.Meta{Description: "We build bold products for ambitious teams."}

	t.Run("parses structured response", func(t *testing.T) {
		client := &stubClient{response: `{"keywords":["bold","ambitious"],"tone_category":"innovative_bold","writing_style":"Short and punchy.","sample_hook":"Ready to build?","avoid":"Corporate jargon"}`}
		voice := classifyVoice(context.Background(), client, zap.NewNop(), meta, nil)
		assert.Equal(t, "innovative_bold", voice.ToneCategory)
		assert.Equal(t, []string{"bold", "ambitious"}, voice.Keywords)
		assert.Equal(t, llm.TierLite, client.lastTier)
	})

	t.Run("nil client skips", func(t *testing.T) {
		voice := classifyVoice(context.Background(), nil, zap.NewNop(), meta, nil)
		assert.Empty(t, voice.ToneCategory)
	})

	t.Run("too little text skips", func(t *testing.T) {
		client := &stubClient{response: "{}"}
		voice := classifyVoice(context.Background(), client, zap.NewNop(), scraper.Meta{Description: "short"}, nil)
		assert.Empty(t, voice.ToneCategory)
		assert.Empty(t, client.lastTier)
	})

	t.Run("generation error is soft", func(t *testing.T) {
		client := &stubClient{err: errors.New("quota exceeded")}
		voice := classifyVoice(context.Background(), client, zap.NewNop(), meta, nil)
		assert.Empty(t, voice.ToneCategory)
	})

	t.Run("malformed json is soft", func(t *testing.T) {
		client := &stubClient{response: "not json at all"}
		voice := classifyVoice(context.Background(), client, zap.NewNop(), meta, nil)
		assert.Empty(t, voice.ToneCategory)
	})
}

func TestBuild(t *testing.T) {
	builder := NewBuilder(nil, zap.NewNop())

	t.Run("error passthrough", func(t *testing.T) {
		profile := builder.Build(context.Background(), &scraper.Raw{Err: "blocked_by_robots"})
		require.True(t, profile.Failed())
		assert.Equal(t, "blocked_by_robots", profile.Err)
	})

	t.Run("full profile", func(t *testing.T) {
		raw := &scraper.Raw{
			Domain: "https://acme.com",
			Colors: []scraper.ColorSignal{{Value: "#ff6600", Source: "theme-color", Priority: 10}},
			Fonts:  []scraper.FontSignal{{Value: "Inter", Source: "google-fonts-link", Kind: "name"}},
			Logos:  []scraper.LogoCandidate{{URL: "https://acme.com/logo.png", Source: "header-img", Priority: 10}},
			Meta:   scraper.Meta{OGDescription: "Widget experts"},
			HeroImages: []scraper.ImageCandidate{
				{URL: "https://acme.com/decor.jpg", Relevance: 0},
				{URL: "https://acme.com/team.jpg", Alt: "team", Relevance: 7},
			},
			CareerPageContent: "Benefits galore",
			AboutPageContent:  "Our story",
		}

		profile := builder.Build(context.Background(), raw)
		require.False(t, profile.Failed())
		assert.Equal(t, "#ff6600", profile.Colors.Primary)
		assert.Equal(t, "Inter", profile.Fonts.Heading)
		assert.Equal(t, "https://acme.com/logo.png", profile.LogoURL)
		assert.Equal(t, "https://acme.com/team.jpg", profile.HeroImageURL)
		assert.Equal(t, "Widget experts", profile.RawMetaDescription)
		assert.Equal(t, "Benefits galore", profile.CareerPageContent)
		require.Len(t, profile.ScrapedImages, 2)
	})
}

func TestSelectBestHeroImage(t *testing.T) {
	assert.Empty(t, selectBestHeroImage(nil))
	assert.Equal(t, "a", selectBestHeroImage([]scraper.ImageCandidate{{URL: "a", Relevance: 0}}))
	assert.Equal(t, "b", selectBestHeroImage([]scraper.ImageCandidate{
		{URL: "a", Relevance: 0},
		{URL: "b", Relevance: 3},
	}))
}
