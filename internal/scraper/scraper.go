// Package scraper fetches a company website and extracts raw brand signals:
// colors, fonts, logo candidates, hero images, meta data, and free text from
// careers/about sub-pages. Output is raw; normalization into a brand profile
// happens in the brand package.
package scraper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/cache"
	"github.com/jonathan/talentpage/internal/fetch"
)

// ErrBlockedByRobots marks a scrape refused by the site's robots.txt. It is a
// structured result value, handled the same way as a network failure.
const ErrBlockedByRobots = "blocked_by_robots"

// Path candidates tried, in order, for the two sub-page categories.
var (
	careerPaths = []string{"/careers", "/careers/", "/career", "/join-us", "/join-our-team", "/work-with-us", "/jobs", "/opportunities"}
	aboutPaths  = []string{"/about", "/about-us", "/our-story", "/who-we-are", "/about/", "/about-us/"}
)

// ColorSignal is one raw color observation with its source and priority.
type ColorSignal struct {
	Value    string `json:"value"`
	Source   string `json:"source"`
	Priority int    `json:"priority"`
}

// FontSignal is one raw font observation. Kind is "url" for stylesheet links,
// "name" for families parsed out of a Google Fonts URL, and "declaration" for
// font-family CSS declarations.
type FontSignal struct {
	Value  string `json:"value"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
}

// LogoCandidate is one potential logo URL, scored by source priority.
type LogoCandidate struct {
	URL      string  `json:"url"`
	Source   string  `json:"source"`
	Priority float64 `json:"priority"`
}

// ImageCandidate is one potential hero image, scored by contextual relevance.
type ImageCandidate struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Source    string `json:"source"`
	Relevance int    `json:"relevance"`
}

// Meta holds page-level metadata from the homepage head.
type Meta struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	OGDescription string `json:"og_description"`
	OGTitle       string `json:"og_title"`
	Keywords      string `json:"keywords"`
}

// Raw is the scraper's output. A failed scrape sets Err and Domain and leaves
// the signal fields empty; callers must treat that as a first-class result,
// not an exception.
type Raw struct {
	Domain            string           `json:"domain"`
	Colors            []ColorSignal    `json:"colors"`
	Fonts             []FontSignal     `json:"fonts"`
	Logos             []LogoCandidate  `json:"logos"`
	Meta              Meta             `json:"meta"`
	BrandText         []string         `json:"brand_text"`
	HeroImages        []ImageCandidate `json:"hero_images"`
	CareerPageContent string           `json:"career_page_content"`
	AboutPageContent  string           `json:"about_page_content"`
	ScrapedAt         time.Time        `json:"scraped_at"`
	Err               string           `json:"error,omitempty"`
}

// Failed reports whether this result carries an error marker.
func (r *Raw) Failed() bool {
	return r.Err != ""
}

// Scraper fetches company sites and extracts raw brand signals. Results are
// cached per origin so repeated enrichment of the same company short-circuits
// all network activity.
type Scraper struct {
	cache      cache.Store
	opts       *fetch.Options
	useBrowser bool
	logger     *zap.Logger
}

// New creates a Scraper backed by the given result cache.
func New(store cache.Store, logger *zap.Logger) *Scraper {
	return &Scraper{
		cache:  store,
		opts:   fetch.DefaultOptions(),
		logger: logger,
	}
}

// EnableBrowserFallback turns on headless-browser rendering for homepages
// that come back as near-empty client-rendered shells.
func (s *Scraper) EnableBrowserFallback() {
	s.useBrowser = true
}

// Scrape fetches a company site and extracts raw brand signals. It never
// returns an error: network failures, bad URLs, and robots.txt refusals all
// produce a Raw with Err set.
func (s *Scraper) Scrape(ctx context.Context, siteURL string) *Raw {
	full, origin, err := fetch.NormalizeSiteURL(siteURL)
	if err != nil {
		return &Raw{Err: err.Error(), Domain: siteURL}
	}

	if cached, ok := s.cacheGet(ctx, origin); ok {
		s.logger.Debug("scrape cache hit", zap.String("domain", origin))
		return cached
	}

	s.logger.Info("scraping site", zap.String("url", full))

	if !fetch.Allowed(ctx, origin) {
		s.logger.Info("blocked by robots.txt", zap.String("domain", origin))
		return &Raw{Err: ErrBlockedByRobots, Domain: origin}
	}

	result, err := fetch.URL(ctx, full, s.opts)
	if err != nil {
		s.logger.Warn("homepage fetch failed", zap.String("url", full), zap.Error(err))
		return &Raw{Err: err.Error(), Domain: origin}
	}

	html := result.HTML
	if s.useBrowser && fetch.ShouldUseBrowser(html) {
		if rendered, berr := fetch.WithBrowser(ctx, full, 30*time.Second); berr == nil {
			html = rendered
		}
	}

	doc, err := fetch.Document(html)
	if err != nil {
		return &Raw{Err: err.Error(), Domain: origin}
	}

	raw := &Raw{
		Domain:    origin,
		Colors:    extractColors(doc),
		Fonts:     extractFonts(doc),
		Logos:     extractLogos(doc, origin),
		Meta:      extractMeta(doc),
		BrandText: extractBrandText(doc),
		ScrapedAt: time.Now().UTC(),
	}

	raw.HeroImages = extractHeroImages(doc, origin, "homepage")

	// External stylesheets carry most of the palette on sites that keep
	// little CSS inline.
	cssColors, cssFonts := s.fetchExternalCSS(ctx, doc, origin)
	raw.Colors = append(raw.Colors, cssColors...)
	raw.Fonts = append(raw.Fonts, cssFonts...)

	if page := s.findSubPage(ctx, origin, careerPaths); page != nil {
		raw.CareerPageContent = extractCareerContent(page.doc)
		raw.HeroImages = append(raw.HeroImages, extractHeroImages(page.doc, origin, "careers")...)
		s.logger.Debug("career page found", zap.String("url", page.url))
	}
	if page := s.findSubPage(ctx, origin, aboutPaths); page != nil {
		raw.AboutPageContent = extractAboutContent(page.doc)
		raw.HeroImages = append(raw.HeroImages, extractHeroImages(page.doc, origin, "about")...)
		s.logger.Debug("about page found", zap.String("url", page.url))
	}

	raw.HeroImages = dedupeAndRankImages(raw.HeroImages)

	s.cacheSet(ctx, origin, raw)

	s.logger.Info("scrape complete",
		zap.String("domain", origin),
		zap.Int("colors", len(raw.Colors)),
		zap.Int("fonts", len(raw.Fonts)),
		zap.Int("logos", len(raw.Logos)),
		zap.Int("hero_images", len(raw.HeroImages)))

	return raw
}

type subPage struct {
	doc *goquery.Document
	url string
}

// findSubPage tries each path candidate in order; the first 200 response wins.
// 404s and timeouts are expected here and silently skipped.
func (s *Scraper) findSubPage(ctx context.Context, origin string, paths []string) *subPage {
	opts := &fetch.Options{Timeout: fetch.SubPageTimeout, UserAgent: s.opts.UserAgent}
	for _, path := range paths {
		result, err := fetch.URL(ctx, origin+path, opts)
		if err != nil {
			continue
		}
		doc, err := fetch.Document(result.HTML)
		if err != nil {
			continue
		}
		return &subPage{doc: doc, url: result.URL}
	}
	return nil
}

func (s *Scraper) cacheGet(ctx context.Context, origin string) (*Raw, bool) {
	data, ok := s.cache.Get(ctx, origin)
	if !ok {
		return nil, false
	}
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	return &raw, true
}

func (s *Scraper) cacheSet(ctx context.Context, origin string, raw *Raw) {
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	s.cache.Set(ctx, origin, data)
}
