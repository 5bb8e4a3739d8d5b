package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/record"
	"github.com/jonathan/talentpage/internal/render"
)

// UpdateRequest is the partial-update body for PUT /api/tlp/{id}. Pointer
// fields distinguish "not sent" from an explicit empty value.
type UpdateRequest struct {
	RoleTitle          *string   `json:"role_title"`
	SalaryRange        *string   `json:"salary_range"`
	StartDate          *string   `json:"start_date"`
	Location           *string   `json:"location"`
	WorkType           *string   `json:"work_type" validate:"omitempty,oneof=remote hybrid onsite"`
	Industry           *string   `json:"industry"`
	JobDescription     *string   `json:"job_description"`
	Responsibilities   *[]string `json:"responsibilities"`
	Requirements       *[]string `json:"requirements"`
	Benefits           *[]string `json:"benefits"`
	Highlight1         *string   `json:"highlight_1"`
	Highlight2         *string   `json:"highlight_2"`
	Highlight3         *string   `json:"highlight_3"`
	CompanyName        *string   `json:"company_name"`
	CompanyDescription *string   `json:"company_description"`
	CompanyLogoURL     *string   `json:"company_logo_url"`
	CompanyWebsiteURL  *string   `json:"company_website_url"`
	PrimaryColor       *string   `json:"primary_color"`
	SecondaryColor     *string   `json:"secondary_color"`
	FontFamily         *string   `json:"font_family"`
	TemplateStyle      *string   `json:"template_style" validate:"omitempty,oneof=default modern minimal"`
}

// ScrapeBrandRequest is the body for POST /api/tlp/{id}/scrape-brand.
type ScrapeBrandRequest struct {
	WebsiteURL string `json:"website_url" validate:"required,min=4"`
}

// MarketResearchRequest is the body for POST /api/tlp/{id}/market-research.
// Non-empty fields override the record's values before research starts.
type MarketResearchRequest struct {
	RoleTitle string `json:"role_title"`
	Location  string `json:"location"`
	Industry  string `json:"industry"`
}

// TriggerResponse reports whether a background enrichment was started.
type TriggerResponse struct {
	Started bool   `json:"started"`
	Status  string `json:"status"`
}

// ScrapingStatusResponse is the polling payload for enrichment progress.
// Profile data is attached only once its pipeline has completed.
type ScrapingStatusResponse struct {
	ScrapeStatus   record.EnrichmentStatus `json:"scrape_status"`
	ResearchStatus record.EnrichmentStatus `json:"research_status"`
	BrandData      *record.BrandData       `json:"brand_data,omitempty"`
	MarketData     *record.MarketData      `json:"market_data,omitempty"`
}

func (s *Server) recordID(r *http.Request) (uuid.UUID, error) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, &ErrInvalidID{Value: idStr}
	}
	return id, nil
}

// handleCreate creates an empty record with defaults.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec := record.New()
	if err := s.store.Create(r.Context(), rec); err != nil {
		s.logger.Error("failed to create record", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to create record")
		return
	}
	s.jsonResponse(w, http.StatusCreated, rec)
}

// handleGetData returns the full record JSON.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleUpdate applies a partial update and regenerates the page. Styling
// fields set the corresponding customized flags so later brand merges leave
// them alone.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	applyUpdate(rec, &req)
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatePhase()
	rec.GeneratedHTML = render.Generate(rec)

	if err := s.store.Update(r.Context(), rec); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func applyUpdate(rec *record.JobPosting, req *UpdateRequest) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setList := func(dst *[]string, src *[]string) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&rec.RoleTitle, req.RoleTitle)
	setStr(&rec.SalaryRange, req.SalaryRange)
	setStr(&rec.StartDate, req.StartDate)
	setStr(&rec.Location, req.Location)
	if req.WorkType != nil {
		rec.WorkType = record.WorkType(*req.WorkType)
	}
	setStr(&rec.Industry, req.Industry)
	setStr(&rec.JobDescription, req.JobDescription)
	setList(&rec.Responsibilities, req.Responsibilities)
	setList(&rec.Requirements, req.Requirements)
	setList(&rec.Benefits, req.Benefits)
	setStr(&rec.Highlight1, req.Highlight1)
	setStr(&rec.Highlight2, req.Highlight2)
	setStr(&rec.Highlight3, req.Highlight3)
	setStr(&rec.CompanyName, req.CompanyName)
	setStr(&rec.CompanyDescription, req.CompanyDescription)
	setStr(&rec.CompanyLogoURL, req.CompanyLogoURL)
	setStr(&rec.CompanyWebsiteURL, req.CompanyWebsiteURL)
	setStr(&rec.TemplateStyle, req.TemplateStyle)

	if req.PrimaryColor != nil {
		rec.PrimaryColor = *req.PrimaryColor
		rec.Customized.PrimaryColor = true
	}
	if req.SecondaryColor != nil {
		rec.SecondaryColor = *req.SecondaryColor
		rec.Customized.SecondaryColor = true
	}
	if req.FontFamily != nil {
		rec.FontFamily = *req.FontFamily
		rec.Customized.FontFamily = true
	}
}

// handleScrapeBrand triggers the background brand scrape.
func (s *Server) handleScrapeBrand(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req ScrapeBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "website_url is required")
		return
	}

	started, err := s.enrich.TriggerBrandScrape(r.Context(), id, req.WebsiteURL)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !started {
		s.jsonResponse(w, http.StatusOK, TriggerResponse{Started: false, Status: "already_processed"})
		return
	}
	s.jsonResponse(w, http.StatusAccepted, TriggerResponse{Started: true, Status: "started"})
}

// handleMarketResearch triggers background market research.
func (s *Server) handleMarketResearch(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req MarketResearchRequest
	if r.Body != nil {
		// Body is optional; an empty body researches the record as-is.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	changed := false
	if req.RoleTitle != "" && req.RoleTitle != rec.RoleTitle {
		rec.RoleTitle = req.RoleTitle
		changed = true
	}
	if req.Location != "" && req.Location != rec.Location {
		rec.Location = req.Location
		changed = true
	}
	if req.Industry != "" && req.Industry != rec.Industry {
		rec.Industry = req.Industry
		changed = true
	}
	if rec.RoleTitle == "" {
		s.errorResponse(w, http.StatusBadRequest, "role_title is required before market research")
		return
	}
	if changed {
		rec.UpdatedAt = time.Now().UTC()
		if err := s.store.Update(r.Context(), rec); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	started, err := s.enrich.TriggerMarketResearch(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !started {
		s.jsonResponse(w, http.StatusOK, TriggerResponse{Started: false, Status: "already_processed"})
		return
	}
	s.jsonResponse(w, http.StatusAccepted, TriggerResponse{Started: true, Status: "started"})
}

// handleScrapingStatus reports both enrichment statuses, attaching profile
// data once an attempt has completed.
func (s *Server) handleScrapingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := ScrapingStatusResponse{
		ScrapeStatus:   rec.BrandData.ScrapeStatus,
		ResearchStatus: rec.MarketData.ResearchStatus,
	}
	if rec.BrandData.ScrapeStatus == record.StatusCompleted {
		resp.BrandData = &rec.BrandData
	}
	if rec.MarketData.ResearchStatus == record.StatusCompleted {
		resp.MarketData = &rec.MarketData
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleMarketData returns the market research profile.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, rec.MarketData)
}

// handlePublish marks the record published and records the public URL.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	now := time.Now().UTC()
	rec.DeploymentStatus = record.DeploymentPublished
	rec.DeployedURL = fmt.Sprintf("%s/tlp/%s", strings.TrimRight(s.baseURL, "/"), rec.ID)
	rec.DeployedAt = &now
	rec.UpdatedAt = now
	rec.UpdatePhase()
	rec.GeneratedHTML = render.Generate(rec)

	if err := s.store.Update(r.Context(), rec); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"deployed_url": rec.DeployedURL,
		"status":       string(rec.DeploymentStatus),
	})
}

var filenameSanitizer = regexp.MustCompile(`[^a-z0-9-]+`)

// handleExport returns the standalone page as an HTML download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := s.recordID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	html := render.GenerateStandalone(rec)

	name := strings.ToLower(strings.TrimSpace(rec.RoleTitle + " " + rec.CompanyName))
	name = filenameSanitizer.ReplaceAllString(strings.ReplaceAll(name, " ", "-"), "")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "talent-page"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.html"`, name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Error("failed to write export", zap.Error(err))
	}
}

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Page Not Found</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 80px 20px;">
  <h1>Page Not Found</h1>
  <p>This landing page does not exist or is no longer available.</p>
</body>
</html>`

// handlePublicPage serves the generated landing page and counts the view.
func (s *Server) handlePublicPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	id, err := s.recordID(r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, notFoundPage)
		return
	}

	rec, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, notFoundPage)
		return
	}

	html := rec.GeneratedHTML
	if html == "" {
		html = render.Generate(rec)
		rec.GeneratedHTML = html
	}

	// View counting is best effort; a write race never blocks serving.
	rec.ViewCount++
	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(r.Context(), rec); err != nil {
		s.logger.Warn("failed to record page view", zap.String("id", rec.ID.String()), zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, html)
}
