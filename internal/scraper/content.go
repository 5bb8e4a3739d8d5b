package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var careerSelectors = []string{
	".benefits", ".perks", ".culture", ".values", ".why-join", ".why-work",
	"#benefits", "#perks", "#culture", "#values", "#why-join", "#why-work",
	`[class*="benefit"]`, `[class*="perk"]`, `[class*="culture"]`, `[class*="value"]`,
	`[class*="why-join"]`, `[class*="why-work"]`, `[class*="career"]`,
}

var careerKeywords = []string{
	"benefit", "perk", "culture", "why join", "why work", "what we offer",
	"our values", "life at", "work with us", "grow", "career", "team", "diversity", "inclusion",
}

var aboutSelectors = []string{
	".about", ".mission", ".values", ".story", ".history",
	"#about", "#mission", "#values", "#story", "#history",
	`[class*="about"]`, `[class*="mission"]`, `[class*="story"]`,
}

var aboutKeywords = []string{
	"mission", "vision", "values", "story", "history", "about",
	"founded", "purpose", "who we are", "what we do", "our team", "leadership",
}

// textCollector accumulates unique snippets in insertion order.
type textCollector struct {
	seen  map[string]bool
	texts []string
}

func newTextCollector() *textCollector {
	return &textCollector{seen: make(map[string]bool)}
}

func (c *textCollector) add(text string, minLen, maxLen int) {
	text = strings.TrimSpace(text)
	if len(text) <= minLen || len(text) >= maxLen || c.seen[text] {
		return
	}
	c.seen[text] = true
	c.texts = append(c.texts, text)
}

func (c *textCollector) join(limit int) string {
	texts := c.texts
	if len(texts) > limit {
		texts = texts[:limit]
	}
	return strings.Join(texts, "\n\n")
}

// extractCareerContent pulls benefits/culture/why-join text from a careers
// page: structured sections first, then keyword-matched headings with their
// sibling content, then a general paragraph sweep if the page yielded little.
func extractCareerContent(doc *goquery.Document) string {
	c := newTextCollector()

	for _, selector := range careerSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			sel.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
				c.add(h.Text(), 0, 200)
			})
			sel.Find("p").Each(func(_ int, p *goquery.Selection) {
				c.add(p.Text(), 20, 500)
			})
			sel.Find("li").Each(func(_ int, li *goquery.Selection) {
				c.add(li.Text(), 5, 200)
			})
		})
	}

	doc.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		heading := strings.ToLower(strings.TrimSpace(h.Text()))
		if !containsAny(heading, careerKeywords) {
			return
		}
		c.add(h.Text(), 0, 200)
		parent := h.Parent()
		parent.Find("p").Each(func(_ int, p *goquery.Selection) {
			c.add(p.Text(), 20, 500)
		})
		parent.Find("li").Each(func(_ int, li *goquery.Selection) {
			c.add(li.Text(), 5, 200)
		})
	})

	if len(c.texts) < 5 {
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			c.add(p.Text(), 30, 500)
		})
	}

	return c.join(20)
}

// extractAboutContent pulls mission/values/history text from an about page.
func extractAboutContent(doc *goquery.Document) string {
	c := newTextCollector()

	doc.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		heading := strings.ToLower(strings.TrimSpace(h.Text()))
		if !containsAny(heading, aboutKeywords) {
			return
		}
		h.Parent().Find("p").Each(func(_ int, p *goquery.Selection) {
			c.add(p.Text(), 20, 600)
		})
	})

	for _, selector := range aboutSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			sel.Find("p").Each(func(_ int, p *goquery.Selection) {
				c.add(p.Text(), 20, 600)
			})
		})
	}

	if len(c.texts) < 3 {
		doc.Find("main p, article p, .content p, section p").Each(func(_ int, p *goquery.Selection) {
			c.add(p.Text(), 30, 600)
		})
	}
	if len(c.texts) < 3 {
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			c.add(p.Text(), 30, 600)
		})
	}

	return c.join(15)
}

// extractMeta reads page-level metadata from the homepage head.
func extractMeta(doc *goquery.Document) Meta {
	attr := func(selector, name string) string {
		v, _ := doc.Find(selector).Attr(name)
		return v
	}
	return Meta{
		Title:         strings.TrimSpace(doc.Find("title").Text()),
		Description:   attr(`meta[name="description"]`, "content"),
		OGDescription: attr(`meta[property="og:description"]`, "content"),
		OGTitle:       attr(`meta[property="og:title"]`, "content"),
		Keywords:      attr(`meta[name="keywords"]`, "content"),
	}
}

// extractBrandText collects the homepage copy most indicative of brand voice:
// leading headings plus the first paragraph of about/mission sections.
func extractBrandText(doc *goquery.Document) []string {
	var texts []string

	doc.Find("h1").EachWithBreak(func(i int, h *goquery.Selection) bool {
		if t := strings.TrimSpace(h.Text()); t != "" {
			texts = append(texts, t)
		}
		return i < 2
	})
	doc.Find("h2").EachWithBreak(func(i int, h *goquery.Selection) bool {
		if t := strings.TrimSpace(h.Text()); t != "" {
			texts = append(texts, t)
		}
		return i < 4
	})

	doc.Find("section, div").Each(func(_ int, sel *goquery.Selection) {
		id := strings.ToLower(attrOr(sel, "id"))
		cls := strings.ToLower(attrOr(sel, "class"))
		if strings.Contains(id, "about") || strings.Contains(cls, "about") ||
			strings.Contains(id, "mission") || strings.Contains(cls, "mission") {
			content := strings.TrimSpace(sel.Find("p").First().Text())
			if content != "" && len(content) < 500 {
				texts = append(texts, content)
			}
		}
	})

	if len(texts) > 10 {
		texts = texts[:10]
	}
	return texts
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
