// Package brand turns raw scraped signals into a normalized brand profile:
// a clustered color palette, heading/body fonts, the best logo and hero
// image, and an LLM-classified brand voice.
package brand

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/llm"
	"github.com/jonathan/talentpage/internal/record"
	"github.com/jonathan/talentpage/internal/scraper"
)

// Profile is the normalized brand profile. A failed scrape produces a
// Profile carrying only Err.
type Profile struct {
	Colors             record.BrandColors
	Fonts              record.BrandFonts
	LogoURL            string
	HeroImageURL       string
	Voice              Voice
	RawMetaDescription string
	CareerPageContent  string
	AboutPageContent   string
	ScrapedImages      []record.ScrapedImage
	Err                string
}

// Failed reports whether this profile carries an error marker.
func (p *Profile) Failed() bool {
	return p.Err != ""
}

// Builder builds brand profiles from raw scrape results.
type Builder struct {
	llm    llm.Client
	logger *zap.Logger
}

// NewBuilder creates a Builder. The LLM client may be nil; voice
// classification is then skipped.
func NewBuilder(client llm.Client, logger *zap.Logger) *Builder {
	return &Builder{llm: client, logger: logger}
}

// Build normalizes a raw scrape result into a brand profile. A raw result
// carrying an error passes it through untouched.
func (b *Builder) Build(ctx context.Context, raw *scraper.Raw) *Profile {
	if raw.Failed() {
		return &Profile{Err: raw.Err}
	}

	profile := &Profile{
		Colors:            selectColors(raw.Colors),
		Fonts:             selectFonts(raw.Fonts),
		LogoURL:           selectBestLogo(raw.Logos),
		HeroImageURL:      selectBestHeroImage(raw.HeroImages),
		Voice:             classifyVoice(ctx, b.llm, b.logger, raw.Meta, raw.BrandText),
		CareerPageContent: raw.CareerPageContent,
		AboutPageContent:  raw.AboutPageContent,
	}

	profile.RawMetaDescription = raw.Meta.Description
	if profile.RawMetaDescription == "" {
		profile.RawMetaDescription = raw.Meta.OGDescription
	}

	for _, img := range raw.HeroImages {
		profile.ScrapedImages = append(profile.ScrapedImages, record.ScrapedImage{
			URL:    img.URL,
			Alt:    img.Alt,
			Source: img.Source,
		})
	}

	return profile
}

// selectBestLogo returns the highest-priority logo candidate. Candidates
// arrive already sorted by the scraper.
func selectBestLogo(logos []scraper.LogoCandidate) string {
	if len(logos) == 0 {
		return ""
	}
	return logos[0].URL
}

// selectBestHeroImage returns the first image with positive relevance, or
// the first candidate when nothing scored.
func selectBestHeroImage(images []scraper.ImageCandidate) string {
	for _, img := range images {
		if img.Relevance > 0 {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}
