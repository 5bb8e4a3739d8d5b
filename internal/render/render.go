// Package render generates landing page HTML from a job posting record.
// Rendering is pure over record state plus the brand merge: the same record
// always produces the same page.
package render

import (
	_ "embed"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jonathan/talentpage/internal/record"
)

//go:embed template.html
var baseTemplate string

// conditionalFields are the record fields that drive mustache-style
// conditional blocks in the template.
var conditionalFields = []string{
	"company_logo_url", "salary_range", "location", "work_type", "start_date",
	"company_description", "job_description", "benefits", "company_website_url",
	"hero_image_url", "highlight_1", "highlight_2", "highlight_3",
}

var deployBannerRe = regexp.MustCompile(`(?is)<div class="deploy-banner">.*?</div>\s*`)

// Generate renders the landing page for a record. Brand data is merged into
// the styling fields first (default-aware, never clobbering user-set values),
// so the record passed in may be mutated.
func Generate(rec *record.JobPosting) string {
	ApplyBrandData(rec)

	heroImageURL := rec.BrandData.HeroImageURL

	roleTitle := rec.RoleTitle
	if roleTitle == "" {
		roleTitle = "Position Opening"
	}
	websiteURL := rec.CompanyWebsiteURL
	if websiteURL == "" {
		websiteURL = "#"
	}

	fontImport := ""
	if u := rec.BrandData.Fonts.GoogleFontsURL; u != "" {
		fontImport = fmt.Sprintf(`<link href="%s" rel="stylesheet">`, escapeHTML(u))
	}

	// A single-pass Replacer keeps substituted field values from being
	// re-expanded when they contain template syntax themselves.
	replacer := strings.NewReplacer(
		"{{role_title}}", escapeHTML(roleTitle),
		"{{company_name}}", escapeHTML(rec.CompanyName),
		"{{salary_range}}", escapeHTML(rec.SalaryRange),
		"{{location}}", escapeHTML(rec.Location),
		"{{work_type}}", escapeHTML(formatWorkType(rec.WorkType)),
		"{{start_date}}", escapeHTML(rec.StartDate),
		"{{company_description}}", escapeHTML(rec.CompanyDescription),
		"{{job_description}}", escapeHTML(rec.JobDescription),
		"{{company_logo_url}}", escapeHTML(proxyImageURL(rec.CompanyLogoURL)),
		"{{company_website_url}}", escapeHTML(websiteURL),
		"{{hero_image_url}}", escapeHTML(proxyImageURL(heroImageURL)),
		"{{highlight_1}}", escapeHTML(rec.Highlight1),
		"{{highlight_2}}", escapeHTML(rec.Highlight2),
		"{{highlight_3}}", escapeHTML(rec.Highlight3),
		"{{responsibilities}}", generateList(rec.Responsibilities),
		"{{requirements}}", generateList(rec.Requirements),
		"{{benefits}}", generateList(rec.Benefits),
		"{{brand_font_import}}", fontImport,
	)
	html := replacer.Replace(baseTemplate)

	html = processConditionals(html, rec, heroImageURL)
	html = injectStyles(html, rec)

	return html
}

// GenerateStandalone renders the exportable page: no deploy banner, with
// social sharing meta tags.
func GenerateStandalone(rec *record.JobPosting) string {
	html := Generate(rec)
	html = deployBannerRe.ReplaceAllString(html, "")
	return strings.Replace(html, "</head>", buildMetaTags(rec)+"\n</head>", 1)
}

// ApplyBrandData merges a completed brand profile into the record's styling
// fields. Scraped values only fill slots the user has not customized; this is
// the single place that decision is made.
func ApplyBrandData(rec *record.JobPosting) {
	if rec.BrandData.ScrapeStatus != record.StatusCompleted {
		return
	}
	bd := &rec.BrandData

	if bd.Colors.Primary != "" && rec.IsDefaultPrimary() {
		rec.PrimaryColor = bd.Colors.Primary
	}
	if bd.Colors.Secondary != "" && rec.IsDefaultSecondary() {
		rec.SecondaryColor = bd.Colors.Secondary
	}
	if bd.Fonts.Heading != "" && rec.IsDefaultFont() {
		if bd.Fonts.Body != "" {
			rec.FontFamily = fmt.Sprintf("'%s', '%s', sans-serif", bd.Fonts.Heading, bd.Fonts.Body)
		} else {
			rec.FontFamily = fmt.Sprintf("'%s', sans-serif", bd.Fonts.Heading)
		}
	}
	if bd.LogoURL != "" && rec.CompanyLogoURL == "" {
		rec.CompanyLogoURL = bd.LogoURL
	}
}

func buildMetaTags(rec *record.JobPosting) string {
	roleTitle := rec.RoleTitle
	if roleTitle == "" {
		roleTitle = "Job Opening"
	}
	companyName := rec.CompanyName
	if companyName == "" {
		companyName = "Our Company"
	}
	title := fmt.Sprintf("%s at %s", roleTitle, companyName)

	description := rec.JobDescription
	if description == "" {
		description = fmt.Sprintf("Apply for %s at %s", roleTitle, companyName)
	}
	if runes := []rune(description); len(runes) > 160 {
		description = string(runes[:160])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  <meta property=\"og:title\" content=%q>", escapeHTML(title))
	fmt.Fprintf(&b, "\n  <meta property=\"og:description\" content=%q>", escapeHTML(description))
	b.WriteString("\n  <meta property=\"og:type\" content=\"website\">")
	if rec.CompanyLogoURL != "" {
		fmt.Fprintf(&b, "\n  <meta property=\"og:image\" content=%q>", escapeHTML(rec.CompanyLogoURL))
	}
	b.WriteString("\n  <meta name=\"twitter:card\" content=\"summary\">")
	fmt.Fprintf(&b, "\n  <meta name=\"twitter:title\" content=%q>", escapeHTML(title))
	fmt.Fprintf(&b, "\n  <meta name=\"twitter:description\" content=%q>", escapeHTML(description))
	return b.String()
}

func formatWorkType(workType record.WorkType) string {
	switch workType {
	case record.WorkTypeRemote:
		return "Remote"
	case record.WorkTypeHybrid:
		return "Hybrid"
	case record.WorkTypeOnsite:
		return "On-site"
	}
	return ""
}

func generateList(items []string) string {
	if len(items) == 0 {
		return "<li>To be determined</li>"
	}
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = "<li>" + escapeHTML(item) + "</li>"
	}
	return strings.Join(escaped, "\n")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlEscaper.Replace(text)
}

// proxyImageURL routes absolute image URLs through the image proxy so
// hotlink-blocking sites still render. Relative paths and data URIs pass
// through unchanged.
func proxyImageURL(imageURL string) string {
	if imageURL == "" {
		return ""
	}
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return "/api/image-proxy?url=" + url.QueryEscape(imageURL)
	}
	return imageURL
}

// processConditionals resolves mustache-style blocks per field. Inverted
// blocks use {{/^field}} as their closing tag so they can be resolved before
// positive blocks without the patterns colliding.
func processConditionals(html string, rec *record.JobPosting, heroImageURL string) string {
	values := map[string]bool{
		"company_logo_url":    rec.CompanyLogoURL != "",
		"salary_range":        rec.SalaryRange != "",
		"location":            rec.Location != "",
		"work_type":           rec.WorkType != "",
		"start_date":          rec.StartDate != "",
		"company_description": rec.CompanyDescription != "",
		"job_description":     rec.JobDescription != "",
		"benefits":            len(rec.Benefits) > 0,
		"company_website_url": rec.CompanyWebsiteURL != "",
		"hero_image_url":      heroImageURL != "",
		"highlight_1":         rec.Highlight1 != "",
		"highlight_2":         rec.Highlight2 != "",
		"highlight_3":         rec.Highlight3 != "",
	}

	for _, field := range conditionalFields {
		hasValue := values[field]

		invertedRe := regexp.MustCompile(`(?s){{\^` + field + `}}(.*?){{/\^` + field + `}}`)
		if hasValue {
			html = invertedRe.ReplaceAllString(html, "")
		} else {
			html = invertedRe.ReplaceAllString(html, "$1")
		}

		positiveRe := regexp.MustCompile(`(?s){{#` + field + `}}.*?{{/` + field + `}}`)
		if hasValue {
			html = strings.ReplaceAll(html, "{{#"+field+"}}", "")
			html = strings.ReplaceAll(html, "{{/"+field+"}}", "")
		} else {
			html = positiveRe.ReplaceAllString(html, "")
		}
	}
	return html
}

const themeStyleMarker = `<style data-theme="talentpage">`

// injectStyles appends a style block that sets the page's CSS custom
// properties. The marker keeps a second pass over already-rendered HTML from
// stacking duplicate blocks.
func injectStyles(html string, rec *record.JobPosting) string {
	if strings.Contains(html, themeStyleMarker) {
		return html
	}

	primary := rec.PrimaryColor
	if primary == "" {
		primary = record.DefaultPrimaryColor
	}
	secondary := rec.SecondaryColor
	if secondary == "" {
		secondary = record.DefaultSecondaryColor
	}
	fontFamily := rec.FontFamily
	if fontFamily == "" {
		fontFamily = record.DefaultFontFamily
	}

	customCSS := fmt.Sprintf(`
  %s
    :root {
      --primary-color: %s;
      --secondary-color: %s;
      --font-family: %s;
    }

    body {
      font-family: var(--font-family);
    }

    .hero-content {
      background: linear-gradient(135deg, var(--primary-color) 0%%, var(--secondary-color) 100%%);
    }

    .btn-primary {
      background: var(--primary-color);
    }

    .accent {
      color: var(--primary-color);
    }

    h2 {
      color: var(--primary-color);
      border-bottom-color: var(--primary-color);
    }

    li:before {
      color: var(--primary-color);
    }

    .btn-apply {
      background: linear-gradient(135deg, var(--primary-color) 0%%, var(--secondary-color) 100%%);
    }

    .btn-apply:hover {
      box-shadow: 0 10px 20px %s4D;
    }
  </style>
`, themeStyleMarker, primary, secondary, fontFamily, primary)

	return strings.Replace(html, "</head>", customCSS+"</head>", 1)
}
