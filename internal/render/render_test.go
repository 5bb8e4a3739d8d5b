package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentpage/internal/record"
)

func sampleRecord() *record.JobPosting {
	rec := record.New()
	rec.RoleTitle = "Senior Engineer"
	rec.CompanyName = "Acme & Co"
	rec.SalaryRange = "$120k - $140k"
	rec.Location = "Sydney"
	rec.WorkType = record.WorkTypeHybrid
	rec.JobDescription = "Build the widget platform."
	rec.Responsibilities = []string{"Ship features", "Review code"}
	rec.Requirements = []string{"5+ years Go"}
	rec.Benefits = []string{"Equity"}
	return rec
}

func TestGenerate(t *testing.T) {
	html := Generate(sampleRecord())

	assert.Contains(t, html, "Senior Engineer")
	assert.Contains(t, html, "Acme &amp; Co")
	assert.Contains(t, html, "$120k - $140k")
	assert.Contains(t, html, "Hybrid")
	assert.Contains(t, html, "<li>Ship features</li>")
	assert.Contains(t, html, "<li>5+ years Go</li>")
	assert.Contains(t, html, "<li>Equity</li>")
	assert.Contains(t, html, themeStyleMarker)
	assert.Contains(t, html, "--primary-color: "+record.DefaultPrimaryColor)

	// All template markers must be resolved.
	assert.NotContains(t, html, "{{")
	assert.NotContains(t, html, "}}")
}

func TestGenerateEmptyRecord(t *testing.T) {
	html := Generate(record.New())

	assert.Contains(t, html, "Position Opening")
	assert.Contains(t, html, "<li>To be determined</li>")
	assert.NotContains(t, html, "{{")
}

func TestGenerateEscapesUserContent(t *testing.T) {
	rec := record.New()
	rec.RoleTitle = `<script>alert("x")</script>`
	html := Generate(rec)

	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestGenerateDeterministic(t *testing.T) {
	rec := sampleRecord()
	rec.JobDescription = "Use the {{role_title}} placeholder literally."

	first := Generate(rec)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Generate(rec))
	}

	// Template syntax inside field values must come through verbatim,
	// never expanded into the field it names.
	assert.Contains(t, first, "Use the {{role_title}} placeholder literally.")
	assert.NotContains(t, first, "Use the Senior Engineer placeholder literally.")
}

func TestGenerateProxiesImages(t *testing.T) {
	rec := sampleRecord()
	rec.CompanyLogoURL = "https://acme.com/logo.png"
	html := Generate(rec)

	assert.Contains(t, html, "/api/image-proxy?url=https%3A%2F%2Facme.com%2Flogo.png")
	assert.NotContains(t, html, `src="https://acme.com/logo.png"`)
}

func TestGenerateConditionals(t *testing.T) {
	t.Run("hero image present", func(t *testing.T) {
		rec := sampleRecord()
		rec.BrandData.ScrapeStatus = record.StatusCompleted
		rec.BrandData.HeroImageURL = "https://acme.com/team.jpg"
		html := Generate(rec)
		assert.Contains(t, html, `<div class="hero-image">`)
		assert.NotContains(t, html, "hero-content hero-full-width")
	})

	t.Run("hero image absent uses full-width layout", func(t *testing.T) {
		html := Generate(sampleRecord())
		assert.Contains(t, html, "hero-content hero-full-width")
		assert.NotContains(t, html, `<div class="hero-image">`)
	})

	t.Run("empty optional sections removed", func(t *testing.T) {
		rec := record.New()
		rec.RoleTitle = "Engineer"
		html := Generate(rec)
		assert.NotContains(t, html, `<div class="meta-badge">`)
		assert.NotContains(t, html, `<div class="top-bar">`)
	})
}

func TestGenerateFontImport(t *testing.T) {
	rec := sampleRecord()
	rec.BrandData.ScrapeStatus = record.StatusCompleted
	rec.BrandData.Fonts.GoogleFontsURL = "https://fonts.googleapis.com/css?family=Inter"
	html := Generate(rec)

	assert.Contains(t, html, `href="https://fonts.googleapis.com/css?family=Inter" rel="stylesheet"`)
}

func TestInjectStylesIdempotent(t *testing.T) {
	rec := sampleRecord()
	html := Generate(rec)
	require.Equal(t, 1, strings.Count(html, themeStyleMarker))

	again := injectStyles(html, rec)
	assert.Equal(t, 1, strings.Count(again, themeStyleMarker))
}

func TestApplyBrandData(t *testing.T) {
	t.Run("fills defaults from completed scrape", func(t *testing.T) {
		rec := record.New()
		rec.BrandData.ScrapeStatus = record.StatusCompleted
		rec.BrandData.Colors = record.BrandColors{Primary: "#ff6600", Secondary: "#0044cc"}
		rec.BrandData.Fonts = record.BrandFonts{Heading: "Inter", Body: "Merriweather"}
		rec.BrandData.LogoURL = "https://acme.com/logo.png"

		ApplyBrandData(rec)
		assert.Equal(t, "#ff6600", rec.PrimaryColor)
		assert.Equal(t, "#0044cc", rec.SecondaryColor)
		assert.Equal(t, "'Inter', 'Merriweather', sans-serif", rec.FontFamily)
		assert.Equal(t, "https://acme.com/logo.png", rec.CompanyLogoURL)
	})

	t.Run("never clobbers customized values", func(t *testing.T) {
		rec := record.New()
		rec.PrimaryColor = "#111111"
		rec.Customized.PrimaryColor = true
		rec.CompanyLogoURL = "/api/uploads/custom.png"
		rec.BrandData.ScrapeStatus = record.StatusCompleted
		rec.BrandData.Colors.Primary = "#ff6600"
		rec.BrandData.LogoURL = "https://acme.com/logo.png"

		ApplyBrandData(rec)
		assert.Equal(t, "#111111", rec.PrimaryColor)
		assert.Equal(t, "/api/uploads/custom.png", rec.CompanyLogoURL)
	})

	t.Run("incomplete scrape is ignored", func(t *testing.T) {
		rec := record.New()
		rec.BrandData.ScrapeStatus = record.StatusInProgress
		rec.BrandData.Colors.Primary = "#ff6600"

		ApplyBrandData(rec)
		assert.Equal(t, record.DefaultPrimaryColor, rec.PrimaryColor)
	})

	t.Run("heading only font", func(t *testing.T) {
		rec := record.New()
		rec.BrandData.ScrapeStatus = record.StatusCompleted
		rec.BrandData.Fonts.Heading = "Poppins"

		ApplyBrandData(rec)
		assert.Equal(t, "'Poppins', sans-serif", rec.FontFamily)
	})
}

func TestGenerateStandalone(t *testing.T) {
	rec := sampleRecord()
	rec.CompanyLogoURL = "https://acme.com/logo.png"
	html := GenerateStandalone(rec)

	assert.NotContains(t, html, `<div class="deploy-banner">`)
	assert.Contains(t, html, `og:title" content="Senior Engineer at Acme &amp; Co"`)
	assert.Contains(t, html, `og:description`)
	assert.Contains(t, html, `og:image`)
	assert.Contains(t, html, `twitter:card`)

	// The hosted rendering keeps the banner.
	hosted := Generate(sampleRecord())
	assert.Contains(t, hosted, `<div class="deploy-banner">`)
}

func TestBuildMetaTagsTruncatesDescription(t *testing.T) {
	rec := record.New()
	rec.JobDescription = strings.Repeat("a", 400)
	tags := buildMetaTags(rec)

	assert.Contains(t, tags, strings.Repeat("a", 160))
	assert.NotContains(t, tags, strings.Repeat("a", 161))

	// Truncation must not split a multibyte character.
	rec.JobDescription = strings.Repeat("ü", 400)
	tags = buildMetaTags(rec)
	assert.True(t, utf8.ValidString(tags))
	assert.Contains(t, tags, strings.Repeat("ü", 160))
	assert.NotContains(t, tags, strings.Repeat("ü", 161))
}

func TestFormatWorkType(t *testing.T) {
	assert.Equal(t, "Remote", formatWorkType(record.WorkTypeRemote))
	assert.Equal(t, "Hybrid", formatWorkType(record.WorkTypeHybrid))
	assert.Equal(t, "On-site", formatWorkType(record.WorkTypeOnsite))
	assert.Equal(t, "", formatWorkType(""))
}

func TestProxyImageURL(t *testing.T) {
	assert.Equal(t, "", proxyImageURL(""))
	assert.Equal(t, "/api/uploads/x.png", proxyImageURL("/api/uploads/x.png"))
	assert.Equal(t,
		"/api/image-proxy?url=https%3A%2F%2Facme.com%2Fa.png",
		proxyImageURL("https://acme.com/a.png"))
}

func TestProcessConditionals(t *testing.T) {
	html := `{{#salary_range}}S{{/salary_range}}{{^salary_range}}NoS{{/^salary_range}}` +
		`{{#location}}L{{/location}}{{^location}}NoL{{/^location}}`

	rec := record.New()
	rec.SalaryRange = "$100k"

	out := processConditionals(html, rec, "")
	assert.Equal(t, "SNoL", out)
}

func TestInjectStylesCustomPalette(t *testing.T) {
	rec := record.New()
	rec.PrimaryColor = "#123456"
	rec.SecondaryColor = "#654321"
	rec.FontFamily = "'Inter', sans-serif"

	html := injectStyles("<html><head></head><body></body></html>", rec)
	assert.Contains(t, html, "--primary-color: #123456")
	assert.Contains(t, html, "--secondary-color: #654321")
	assert.Contains(t, html, "--font-family: 'Inter', sans-serif")
	assert.Contains(t, html, "#1234564D")
	require.Contains(t, html, themeStyleMarker)
}
