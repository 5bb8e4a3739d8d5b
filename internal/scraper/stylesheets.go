package scraper

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentpage/internal/fetch"
)

const maxStylesheets = 3

// fetchExternalCSS downloads up to maxStylesheets linked stylesheets and
// extracts color and font signals from them. Google Fonts links are skipped
// here; extractFonts already parses family names out of their URLs. Each
// sheet fails independently: a dead stylesheet costs its signals, nothing
// else.
func (s *Scraper) fetchExternalCSS(ctx context.Context, doc *goquery.Document, origin string) ([]ColorSignal, []FontSignal) {
	var hrefs []string
	doc.Find(`link[rel="stylesheet"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || href == "" || strings.Contains(href, "fonts.googleapis.com") {
			return true
		}
		hrefs = append(hrefs, fetch.ResolveURL(href, origin))
		return len(hrefs) < maxStylesheets
	})
	if len(hrefs) == 0 {
		return nil, nil
	}

	var (
		mu     sync.Mutex
		colors []ColorSignal
		fonts  []FontSignal
	)
	g, gctx := errgroup.WithContext(ctx)
	opts := &fetch.Options{Timeout: fetch.StylesheetTimeout, UserAgent: s.opts.UserAgent}
	for _, href := range hrefs {
		g.Go(func() error {
			result, err := fetch.URL(gctx, href, opts)
			if err != nil {
				s.logger.Debug("stylesheet fetch failed", zap.String("url", href), zap.Error(err))
				return nil
			}
			c := colorsFromCSS(result.HTML, "external-css")
			f := fontsFromCSS(result.HTML, "external-css")
			mu.Lock()
			colors = append(colors, c...)
			fonts = append(fonts, f...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return colors, fonts
}
