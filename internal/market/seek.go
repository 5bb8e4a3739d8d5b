package market

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/fetch"
)

const maxListings = 20

var (
	roleSlugStrip     = regexp.MustCompile(`[^a-z0-9-]`)
	locationSlugStrip = regexp.MustCompile(`[^a-z0-9-]`)
	resultCountRe     = regexp.MustCompile(`(?i)([\d,]+)\s*jobs?`)
)

// listing is one job card scraped from a search results page.
type listing struct {
	Title    string
	Company  string
	Salary   string
	Location string
	Tags     []string
}

// scrapeSeek searches seek.com.au for the role and aggregates the results
// page into a market profile.
func (r *Researcher) scrapeSeek(ctx context.Context, roleTitle, location string) (*Profile, error) {
	formattedRole := strings.ToLower(roleTitle)
	formattedRole = strings.Join(strings.Fields(formattedRole), "-")
	formattedRole = roleSlugStrip.ReplaceAllString(formattedRole, "")

	searchURL := fmt.Sprintf("https://www.seek.com.au/%s-jobs/in-%s", formattedRole, formatSeekLocation(location))
	r.logger.Debug("job board search", zap.String("url", searchURL))

	result, err := fetch.URL(ctx, searchURL, r.opts)
	if err != nil {
		return nil, err
	}
	doc, err := fetch.Document(result.HTML)
	if err != nil {
		return nil, err
	}

	listings := extractListings(doc)
	tags := commonTags(listings)

	var highlights []string
	for i, l := range listings {
		if i >= 5 {
			break
		}
		h := fmt.Sprintf("%s: %s", l.Company, l.Title)
		if l.Salary != "" {
			h += " (" + l.Salary + ")"
		}
		highlights = append(highlights, h)
	}

	return &Profile{
		SimilarRolesCount:    extractResultCount(doc),
		SalaryRangeMarket:    aggregateSalaries(listings),
		CommonBenefits:       tags,
		CommonRequirements:   tags,
		CompetitorHighlights: highlights,
		SearchQueryUsed:      searchURL,
		DataSource:           SourceSeek,
		ResearchedAt:         time.Now().UTC(),
	}, nil
}

var seekLocationMap = []struct{ city, slug string }{
	{"sydney", "All-Sydney-NSW"},
	{"melbourne", "All-Melbourne-VIC"},
	{"brisbane", "All-Brisbane-QLD"},
	{"perth", "All-Perth-WA"},
	{"adelaide", "All-Adelaide-SA"},
	{"canberra", "All-Canberra-ACT"},
	{"hobart", "All-Hobart-TAS"},
	{"darwin", "All-Darwin-NT"},
	{"gold coast", "All-Gold-Coast-QLD"},
	{"newcastle", "All-Newcastle-Maitland-Hunter-NSW"},
	{"remote", "All-Australia"},
	{"australia", "All-Australia"},
}

// formatSeekLocation maps a free-text location to SEEK's URL segment. Cities
// are checked first, then states, then a slugified fallback.
func formatSeekLocation(location string) string {
	if location == "" {
		return "All-Australia"
	}
	loc := strings.ToLower(strings.TrimSpace(location))

	for _, entry := range seekLocationMap {
		if strings.Contains(loc, entry.city) {
			return entry.slug
		}
	}

	switch {
	case strings.Contains(loc, "nsw") || strings.Contains(loc, "new south wales"):
		return "New-South-Wales"
	case strings.Contains(loc, "vic") || strings.Contains(loc, "victoria"):
		return "Victoria"
	case strings.Contains(loc, "qld") || strings.Contains(loc, "queensland"):
		return "Queensland"
	case strings.Contains(loc, "western australia") || strings.Contains(loc, "wa"):
		return "Western-Australia"
	case strings.Contains(loc, "south australia") || strings.Contains(loc, "sa"):
		return "South-Australia"
	}

	slug := regexp.MustCompile(`[,\s]+`).ReplaceAllString(loc, "-")
	slug = locationSlugStrip.ReplaceAllString(slug, "")
	if slug == "" {
		return "All-Australia"
	}
	return slug
}

// extractResultCount pulls the "N jobs" total from the results page, falling
// back to counting visible cards.
func extractResultCount(doc *goquery.Document) int {
	countText := doc.Find(`[data-automation="totalJobsCount"]`).Text()
	if countText == "" {
		countText = doc.Find("h1").Text()
	}
	if countText == "" {
		countText = doc.Find(`[class*="jobCount"], [class*="job-count"], [class*="totalJobs"]`).Text()
	}

	if m := resultCountRe.FindStringSubmatch(countText); m != nil {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err == nil {
			return n
		}
	}

	return doc.Find(`[data-automation="normalJob"], [data-card-type="JobCard"], article[data-testid]`).Length()
}

// Card selectors tried in order; the markup changes often, so several
// generations of it are covered.
var cardSelectors = []string{
	`[data-automation="normalJob"]`,
	`[data-card-type="JobCard"]`,
	`article[data-testid]`,
	`[class*="JobCard"]`,
	`[role="article"]`,
}

func extractListings(doc *goquery.Document) []listing {
	var cards *goquery.Selection
	for _, selector := range cardSelectors {
		cards = doc.Find(selector)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil {
		return nil
	}

	var listings []listing
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxListings {
			return false
		}

		first := func(selector string) string {
			return strings.TrimSpace(card.Find(selector).First().Text())
		}

		l := listing{
			Title:    first(`[data-automation="jobTitle"], a[class*="jobTitle"], h3 a, [class*="title"] a`),
			Company:  first(`[data-automation="jobCompany"], [class*="company"], [class*="advertiser"]`),
			Salary:   first(`[data-automation="jobSalary"], [class*="salary"]`),
			Location: first(`[data-automation="jobLocation"], [class*="location"]`),
		}
		card.Find(`[class*="tag"], [class*="badge"], [class*="benefit"]`).Each(func(_ int, tag *goquery.Selection) {
			text := strings.TrimSpace(tag.Text())
			if text != "" && len(text) < 50 {
				l.Tags = append(l.Tags, text)
			}
		})

		if l.Title != "" || l.Company != "" {
			listings = append(listings, l)
		}
		return true
	})
	return listings
}
