// Package enrich orchestrates the background enrichment pipelines: brand
// scraping and market research. Status transitions are persisted around the
// network work so a crash or panic can never leave a record silently stuck.
package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/brand"
	"github.com/jonathan/talentpage/internal/market"
	"github.com/jonathan/talentpage/internal/record"
	"github.com/jonathan/talentpage/internal/render"
	"github.com/jonathan/talentpage/internal/scraper"
	"github.com/jonathan/talentpage/internal/store"
)

// taskTimeout bounds one background enrichment attempt end to end.
const taskTimeout = 2 * time.Minute

// Manager triggers and tracks background enrichment tasks.
type Manager struct {
	store    store.Store
	scraper  *scraper.Scraper
	brand    *brand.Builder
	market   *market.Researcher
	logger   *zap.Logger
	wg       sync.WaitGroup
	deadline time.Duration
}

// NewManager creates a Manager over the given pipeline components.
func NewManager(st store.Store, sc *scraper.Scraper, bb *brand.Builder, mr *market.Researcher, logger *zap.Logger) *Manager {
	return &Manager{
		store:    st,
		scraper:  sc,
		brand:    bb,
		market:   mr,
		logger:   logger,
		deadline: taskTimeout,
	}
}

// TriggerBrandScrape starts a background brand scrape for the record. It
// returns false without starting anything when a scrape is already running
// or has already completed. The in_progress status is persisted before this
// returns, so callers observe it immediately.
func (m *Manager) TriggerBrandScrape(ctx context.Context, id uuid.UUID, websiteURL string) (bool, error) {
	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	status := rec.BrandData.ScrapeStatus
	if status == record.StatusInProgress || status == record.StatusCompleted {
		m.logger.Debug("brand scrape refused",
			zap.String("id", id.String()),
			zap.String("status", string(status)))
		return false, nil
	}

	rec.CompanyWebsiteURL = websiteURL
	rec.BrandData.ScrapeStatus = record.StatusInProgress
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatePhase()
	if err := m.store.Update(ctx, rec); err != nil {
		return false, err
	}

	m.run(id, "brand scrape", func(taskCtx context.Context) {
		m.runBrandScrape(taskCtx, id, websiteURL)
	})
	return true, nil
}

// TriggerMarketResearch starts background market research for the record,
// with the same status guard as TriggerBrandScrape.
func (m *Manager) TriggerMarketResearch(ctx context.Context, id uuid.UUID) (bool, error) {
	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	status := rec.MarketData.ResearchStatus
	if status == record.StatusInProgress || status == record.StatusCompleted {
		m.logger.Debug("market research refused",
			zap.String("id", id.String()),
			zap.String("status", string(status)))
		return false, nil
	}

	query := researchQuery{
		role:     rec.RoleTitle,
		location: rec.Location,
		industry: rec.Industry,
	}

	rec.MarketData.ResearchStatus = record.StatusInProgress
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatePhase()
	if err := m.store.Update(ctx, rec); err != nil {
		return false, err
	}

	m.run(id, "market research", func(taskCtx context.Context) {
		m.runMarketResearch(taskCtx, id, query)
	})
	return true, nil
}

// Wait blocks until every started task has finished. For shutdown and tests.
func (m *Manager) Wait() {
	m.wg.Wait()
}

type researchQuery struct {
	role     string
	location string
	industry string
}

// run executes a task in a goroutine detached from the request context, with
// panic recovery that resolves the record to failed.
func (m *Manager) run(id uuid.UUID, name string, task func(ctx context.Context)) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.deadline)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("enrichment task panicked",
					zap.String("task", name),
					zap.String("id", id.String()),
					zap.Any("panic", r))
				m.resolveFailed(ctx, id, name)
			}
		}()

		task(ctx)
	}()
}

func (m *Manager) runBrandScrape(ctx context.Context, id uuid.UUID, websiteURL string) {
	raw := m.scraper.Scrape(ctx, websiteURL)
	profile := m.brand.Build(ctx, raw)

	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		m.logger.Error("record vanished during brand scrape", zap.String("id", id.String()), zap.Error(err))
		return
	}

	now := time.Now().UTC()
	bd := &rec.BrandData
	if profile.Failed() {
		bd.ScrapeStatus = record.StatusFailed
		m.logger.Warn("brand scrape failed",
			zap.String("id", id.String()),
			zap.String("reason", profile.Err))
	} else {
		bd.ScrapeStatus = record.StatusCompleted
		bd.Colors = profile.Colors
		bd.Fonts = profile.Fonts
		bd.LogoURL = profile.LogoURL
		bd.HeroImageURL = profile.HeroImageURL
		bd.VoiceKeywords = profile.Voice.Keywords
		bd.ToneCategory = profile.Voice.ToneCategory
		bd.WritingStyle = profile.Voice.WritingStyle
		bd.BrandAvoid = profile.Voice.Avoid
		bd.RawMetaDescription = profile.RawMetaDescription
		bd.CareerPageContent = profile.CareerPageContent
		bd.AboutPageContent = profile.AboutPageContent
		bd.ScrapedImages = profile.ScrapedImages
	}
	bd.ScrapedAt = &now

	m.finish(ctx, rec, "brand scrape")
}

func (m *Manager) runMarketResearch(ctx context.Context, id uuid.UUID, query researchQuery) {
	profile := m.market.Research(ctx, query.role, query.location, query.industry)

	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		m.logger.Error("record vanished during market research", zap.String("id", id.String()), zap.Error(err))
		return
	}

	md := &rec.MarketData
	if profile.DataSource == market.SourceUnavailable {
		md.ResearchStatus = record.StatusFailed
	} else {
		md.ResearchStatus = record.StatusCompleted
	}
	md.SimilarRolesCount = profile.SimilarRolesCount
	md.SalaryRangeMarket = profile.SalaryRangeMarket
	md.CommonBenefits = profile.CommonBenefits
	md.CommonRequirements = profile.CommonRequirements
	md.CompetitorHighlights = profile.CompetitorHighlights
	md.SearchQueryUsed = profile.SearchQueryUsed
	md.DataSource = profile.DataSource
	md.ResearchedAt = &profile.ResearchedAt

	m.finish(ctx, rec, "market research")
}

// finish persists the terminal status first, then regenerates the page. A
// failure in rendering or the second write leaves the status correct.
func (m *Manager) finish(ctx context.Context, rec *record.JobPosting, name string) {
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatePhase()
	if err := m.store.Update(ctx, rec); err != nil {
		m.logger.Error("failed to persist enrichment result",
			zap.String("task", name),
			zap.String("id", rec.ID.String()),
			zap.Error(err))
		return
	}

	rec.GeneratedHTML = render.Generate(rec)
	rec.UpdatedAt = time.Now().UTC()
	if err := m.store.Update(ctx, rec); err != nil {
		m.logger.Error("failed to persist regenerated page",
			zap.String("task", name),
			zap.String("id", rec.ID.String()),
			zap.Error(err))
	}
}

// resolveFailed marks whichever enrichment is still in_progress as failed.
func (m *Manager) resolveFailed(ctx context.Context, id uuid.UUID, name string) {
	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		return
	}
	changed := false
	if rec.BrandData.ScrapeStatus == record.StatusInProgress {
		rec.BrandData.ScrapeStatus = record.StatusFailed
		changed = true
	}
	if rec.MarketData.ResearchStatus == record.StatusInProgress {
		rec.MarketData.ResearchStatus = record.StatusFailed
		changed = true
	}
	if !changed {
		return
	}
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatePhase()
	if err := m.store.Update(ctx, rec); err != nil {
		m.logger.Error("failed to mark enrichment failed",
			zap.String("task", name),
			zap.String("id", id.String()),
			zap.Error(err))
	}
}
