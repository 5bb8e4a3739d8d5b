// Package record defines the job posting aggregate shared by the scraper,
// market research, rendering, and HTTP layers.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Factory defaults for styling fields. A record whose styling still matches
// these values is treated as uncustomized unless the corresponding
// CustomizedFields flag says otherwise.
const (
	DefaultPrimaryColor   = "#667eea"
	DefaultSecondaryColor = "#764ba2"
	DefaultFontFamily     = "Arial, sans-serif"
	DefaultTemplateStyle  = "default"
)

// EnrichmentStatus tracks the lifecycle of one background enrichment attempt.
type EnrichmentStatus string

const (
	StatusPending    EnrichmentStatus = "pending"
	StatusInProgress EnrichmentStatus = "in_progress"
	StatusCompleted  EnrichmentStatus = "completed"
	StatusFailed     EnrichmentStatus = "failed"
)

// WorkType is the work arrangement for a role. Empty means unset.
type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeHybrid WorkType = "hybrid"
	WorkTypeOnsite WorkType = "onsite"
)

// DeploymentStatus is the publish state of a page.
type DeploymentStatus string

const (
	DeploymentDraft     DeploymentStatus = "draft"
	DeploymentPublished DeploymentStatus = "published"
)

// ConversationPhase tracks where a record is in the chat-driven workflow.
type ConversationPhase string

const (
	PhaseIntake          ConversationPhase = "intake"
	PhaseResearching     ConversationPhase = "researching"
	PhaseContentCreation ConversationPhase = "content_creation"
	PhaseReview          ConversationPhase = "review"
	PhaseDeployment      ConversationPhase = "deployment"
	PhaseComplete        ConversationPhase = "complete"
)

// BrandColors is the canonical palette extracted from a company site.
type BrandColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// BrandFonts holds the detected heading/body fonts and any Google Fonts
// stylesheet URL found on the site.
type BrandFonts struct {
	Heading        string `json:"heading"`
	Body           string `json:"body"`
	GoogleFontsURL string `json:"google_fonts_url"`
}

// ScrapedImage is one hero-image candidate collected during scraping.
type ScrapedImage struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Source string `json:"source"`
}

// BrandData is the brand profile embedded in a record. Its lifecycle is
// independent of the record's job facts: ScrapeStatus moves
// pending -> in_progress -> completed|failed per enrichment attempt.
type BrandData struct {
	ScrapeStatus       EnrichmentStatus `json:"scrape_status"`
	ScrapedAt          *time.Time       `json:"scraped_at,omitempty"`
	Colors             BrandColors      `json:"colors"`
	Fonts              BrandFonts       `json:"fonts"`
	LogoURL            string           `json:"logo_url"`
	HeroImageURL       string           `json:"hero_image_url"`
	VoiceKeywords      []string         `json:"brand_voice_keywords"`
	ToneCategory       string           `json:"tone_category"`
	WritingStyle       string           `json:"writing_style"`
	BrandAvoid         string           `json:"brand_avoid"`
	RawMetaDescription string           `json:"raw_meta_description"`
	CareerPageContent  string           `json:"career_page_content"`
	AboutPageContent   string           `json:"about_page_content"`
	ScrapedImages      []ScrapedImage   `json:"scraped_images"`
}

// SalaryRangeMarket holds formatted market salary figures, e.g. "$90k".
type SalaryRangeMarket struct {
	Low    string `json:"low"`
	Median string `json:"median"`
	High   string `json:"high"`
}

// MarketData is the market research profile embedded in a record.
type MarketData struct {
	ResearchStatus       EnrichmentStatus  `json:"research_status"`
	ResearchedAt         *time.Time        `json:"researched_at,omitempty"`
	SimilarRolesCount    int               `json:"similar_roles_count"`
	SalaryRangeMarket    SalaryRangeMarket `json:"salary_range_market"`
	CommonBenefits       []string          `json:"common_benefits"`
	CommonRequirements   []string          `json:"common_requirements"`
	CompetitorHighlights []string          `json:"competitor_highlights"`
	SearchQueryUsed      string            `json:"search_query_used"`
	DataSource           string            `json:"data_source"`
}

// Message is one entry in a record's conversation history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomizedFields records which styling fields the user has explicitly set.
// Comparing against default constants alone cannot tell an intentional reset
// to the default value apart from "never touched"; these flags can.
type CustomizedFields struct {
	PrimaryColor   bool `json:"primary_color"`
	SecondaryColor bool `json:"secondary_color"`
	FontFamily     bool `json:"font_family"`
}

// JobPosting is the central aggregate: user-provided job facts, scraped and
// derived enrichment data, styling, and the rendered output.
type JobPosting struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Job facts
	RoleTitle          string   `json:"role_title"`
	SalaryRange        string   `json:"salary_range"`
	StartDate          string   `json:"start_date"`
	Location           string   `json:"location"`
	WorkType           WorkType `json:"work_type"`
	Industry           string   `json:"industry"`
	JobDescription     string   `json:"job_description"`
	Responsibilities   []string `json:"responsibilities"`
	Requirements       []string `json:"requirements"`
	Benefits           []string `json:"benefits"`
	Highlight1         string   `json:"highlight_1"`
	Highlight2         string   `json:"highlight_2"`
	Highlight3         string   `json:"highlight_3"`

	// Company info
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	CompanyLogoURL     string `json:"company_logo_url"`
	CompanyWebsiteURL  string `json:"company_website_url"`

	// Styling
	PrimaryColor   string           `json:"primary_color"`
	SecondaryColor string           `json:"secondary_color"`
	FontFamily     string           `json:"font_family"`
	TemplateStyle  string           `json:"template_style"`
	Customized     CustomizedFields `json:"customized_fields"`

	// Enrichment profiles
	BrandData  BrandData  `json:"brand_data"`
	MarketData MarketData `json:"market_data"`

	// Output
	GeneratedHTML    string           `json:"generated_html"`
	DeploymentStatus DeploymentStatus `json:"deployment_status"`
	DeployedURL      string           `json:"deployed_url"`
	DeployedAt       *time.Time       `json:"deployed_at,omitempty"`
	ViewCount        int              `json:"view_count"`
	ApplicationCount int              `json:"application_count"`

	ConversationPhase   ConversationPhase `json:"conversation_phase"`
	ConversationHistory []Message         `json:"conversation_history"`
}

// New returns an empty record with defaults applied and a fresh id.
func New() *JobPosting {
	now := time.Now().UTC()
	return &JobPosting{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,

		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		FontFamily:     DefaultFontFamily,
		TemplateStyle:  DefaultTemplateStyle,

		BrandData:  BrandData{ScrapeStatus: StatusPending},
		MarketData: MarketData{ResearchStatus: StatusPending},

		DeploymentStatus:  DeploymentDraft,
		ConversationPhase: PhaseIntake,
	}
}

// IsDefaultPrimary reports whether the primary color may be overwritten by
// scraped brand data. An explicit user customization always wins; for records
// without flags, equality with the factory default is the fallback signal.
func (p *JobPosting) IsDefaultPrimary() bool {
	if p.Customized.PrimaryColor {
		return false
	}
	return p.PrimaryColor == "" || p.PrimaryColor == DefaultPrimaryColor
}

// IsDefaultSecondary reports whether the secondary color is still factory default.
func (p *JobPosting) IsDefaultSecondary() bool {
	if p.Customized.SecondaryColor {
		return false
	}
	return p.SecondaryColor == "" || p.SecondaryColor == DefaultSecondaryColor
}

// IsDefaultFont reports whether the font family is still factory default.
func (p *JobPosting) IsDefaultFont() bool {
	if p.Customized.FontFamily {
		return false
	}
	return p.FontFamily == "" || p.FontFamily == DefaultFontFamily
}

// AppendMessage adds a conversation entry with the current timestamp.
func (p *JobPosting) AppendMessage(role, content string) {
	p.ConversationHistory = append(p.ConversationHistory, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// UpdatePhase recomputes the conversation phase from record state.
func (p *JobPosting) UpdatePhase() {
	hasBasics := p.RoleTitle != "" && p.CompanyName != ""
	hasContent := p.JobDescription != "" || len(p.Responsibilities) > 0
	hasFullContent := hasContent && len(p.Requirements) > 0
	isEnriching := p.BrandData.ScrapeStatus == StatusInProgress ||
		p.MarketData.ResearchStatus == StatusInProgress

	switch {
	case !hasBasics:
		p.ConversationPhase = PhaseIntake
	case isEnriching:
		p.ConversationPhase = PhaseResearching
	case !hasFullContent:
		p.ConversationPhase = PhaseContentCreation
	case p.DeploymentStatus == DeploymentPublished:
		p.ConversationPhase = PhaseDeployment
	default:
		p.ConversationPhase = PhaseReview
	}
}

// Terminal reports whether a status is completed or failed.
func Terminal(s EnrichmentStatus) bool {
	return s == StatusCompleted || s == StatusFailed
}
