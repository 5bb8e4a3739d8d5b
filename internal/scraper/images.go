package scraper

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/talentpage/internal/fetch"
)

// maxHeroImages caps the candidate list carried on a record.
const maxHeroImages = 10

var (
	highRelevanceKeywords = []string{
		"team", "people", "culture", "workplace", "office", "career",
		"staff", "employee", "work", "life", "join", "together", "group", "colleague",
	}
	mediumRelevanceKeywords = []string{
		"hero", "banner", "header", "about", "company", "community",
		"diversity", "meeting", "collaboration",
	}
	backgroundImagePattern = regexp.MustCompile(`background-image:\s*url\(['"]?([^'")\s]+)['"]?\)`)
)

// extractHeroImages scores <img> elements and hero-section background images
// by how likely they are to show the company's people or workplace. Logos,
// icons, and tiny images are skipped.
func extractHeroImages(doc *goquery.Document, origin, source string) []ImageCandidate {
	var images []ImageCandidate

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := attrOr(sel, "src")
		if src == "" {
			src = attrOr(sel, "data-src")
		}
		if src == "" {
			src = attrOr(sel, "data-lazy-src")
		}
		if src == "" {
			return
		}

		resolved := fetch.ResolveURL(src, origin)
		if resolved == "" {
			return
		}

		alt := strings.ToLower(attrOr(sel, "alt"))
		cls := strings.ToLower(attrOr(sel, "class"))
		parentCls := strings.ToLower(attrOr(sel.Parent(), "class"))
		grandparentCls := strings.ToLower(attrOr(sel.Parent().Parent(), "class"))

		ext := urlExtension(resolved)
		if ext == "svg" || ext == "ico" || ext == "gif" {
			return
		}
		lowerSrc := strings.ToLower(src)
		if strings.Contains(alt, "logo") || strings.Contains(cls, "logo") || strings.Contains(lowerSrc, "logo") {
			return
		}
		if strings.Contains(alt, "icon") || strings.Contains(cls, "icon") || strings.Contains(lowerSrc, "icon") {
			return
		}

		width, _ := strconv.Atoi(attrOr(sel, "width"))
		height, _ := strconv.Atoi(attrOr(sel, "height"))
		if (width > 0 && width < 200) || (height > 0 && height < 200) {
			return
		}

		relevance := 0
		context := alt + " " + cls + " " + parentCls + " " + grandparentCls
		for _, kw := range highRelevanceKeywords {
			if strings.Contains(context, kw) {
				relevance += 3
			}
		}
		for _, kw := range mediumRelevanceKeywords {
			if strings.Contains(context, kw) {
				relevance += 2
			}
		}

		if strings.Contains(parentCls, "hero") || strings.Contains(parentCls, "banner") ||
			strings.Contains(grandparentCls, "hero") || strings.Contains(grandparentCls, "banner") {
			relevance += 4
		}

		if width > 600 || height > 400 {
			relevance += 2
		}
		if width > 1000 || height > 600 {
			relevance += 2
		}
		if ext == "jpg" || ext == "jpeg" || ext == "png" || ext == "webp" {
			relevance++
		}

		// Careers/about page imagery is inherently more on-topic.
		switch source {
		case "careers":
			relevance += 2
		case "about":
			relevance++
		}

		if relevance > 0 || source != "homepage" {
			images = append(images, ImageCandidate{
				URL:       resolved,
				Alt:       attrOr(sel, "alt"),
				Source:    source,
				Relevance: relevance,
			})
		}
	})

	doc.Find(`[class*="hero"], [class*="banner"], [class*="header-image"], [class*="cover"]`).Each(func(_ int, sel *goquery.Selection) {
		style := attrOr(sel, "style")
		m := backgroundImagePattern.FindStringSubmatch(style)
		if m == nil {
			return
		}
		if resolved := fetch.ResolveURL(m[1], origin); resolved != "" {
			images = append(images, ImageCandidate{
				URL:       resolved,
				Alt:       "Background image",
				Source:    source,
				Relevance: 5,
			})
		}
	})

	return images
}

// dedupeAndRankImages sorts by relevance, drops duplicate URLs, and keeps the
// top candidates.
func dedupeAndRankImages(images []ImageCandidate) []ImageCandidate {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Relevance > images[j].Relevance
	})

	seen := make(map[string]bool, len(images))
	unique := make([]ImageCandidate, 0, len(images))
	for _, img := range images {
		if seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		unique = append(unique, img)
		if len(unique) == maxHeroImages {
			break
		}
	}
	return unique
}

func urlExtension(u string) string {
	u = strings.SplitN(u, "?", 2)[0]
	idx := strings.LastIndex(u, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(u[idx+1:])
}
