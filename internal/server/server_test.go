package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/brand"
	"github.com/jonathan/talentpage/internal/cache"
	"github.com/jonathan/talentpage/internal/enrich"
	"github.com/jonathan/talentpage/internal/market"
	"github.com/jonathan/talentpage/internal/record"
	"github.com/jonathan/talentpage/internal/scraper"
	"github.com/jonathan/talentpage/internal/store"
)

type testServer struct {
	srv         *Server
	handler     http.Handler
	store       *store.Memory
	manager     *enrich.Manager
	scrapeCache *cache.Memory
	marketCache *cache.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	scrapeCache := cache.NewMemory(time.Minute)
	t.Cleanup(scrapeCache.Close)
	marketCache := cache.NewMemory(time.Minute)
	t.Cleanup(marketCache.Close)

	st := store.NewMemory()
	sc := scraper.New(scrapeCache, logger)
	bb := brand.NewBuilder(nil, logger)
	mr := market.NewResearcher(marketCache, nil, logger)
	mgr := enrich.NewManager(st, sc, bb, mr, logger)

	srv := New(Config{
		Port:      0,
		BaseURL:   "http://localhost:3000",
		UploadDir: t.TempDir(),
	}, st, mgr, logger)

	return &testServer{
		srv:         srv,
		handler:     srv.Handler(),
		store:       st,
		manager:     mgr,
		scrapeCache: scrapeCache,
		marketCache: marketCache,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createRecord(t *testing.T) *record.JobPosting {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/tlp", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var rec record.JobPosting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	return &rec
}

func TestHandleCreate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.createRecord(t)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, record.DefaultPrimaryColor, rec.PrimaryColor)
	assert.Equal(t, record.StatusPending, rec.BrandData.ScrapeStatus)
	assert.Equal(t, record.PhaseIntake, rec.ConversationPhase)
}

func TestHandleGetData(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodGet, "/api/tlp/"+rec.ID.String()+"/data", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var loaded record.JobPosting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, rec.ID, loaded.ID)
}

func TestHandleGetDataErrors(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/tlp/not-a-uuid/data", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/tlp/"+uuid.NewString()+"/data", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdate(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodPut, "/api/tlp/"+rec.ID.String(), map[string]any{
		"role_title":    "Senior Engineer",
		"company_name":  "Acme",
		"work_type":     "hybrid",
		"requirements":  []string{"Go"},
		"primary_color": "#112233",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated record.JobPosting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Senior Engineer", updated.RoleTitle)
	assert.Equal(t, record.WorkTypeHybrid, updated.WorkType)
	assert.Equal(t, "#112233", updated.PrimaryColor)
	assert.True(t, updated.Customized.PrimaryColor)
	assert.False(t, updated.Customized.SecondaryColor)
	assert.NotEmpty(t, updated.GeneratedHTML)
	assert.Contains(t, updated.GeneratedHTML, "Senior Engineer")
}

func TestHandleUpdateValidation(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodPut, "/api/tlp/"+rec.ID.String(), map[string]any{
		"work_type": "teleport",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/api/tlp/"+rec.ID.String(), map[string]any{
		"template_style": "brutalist",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleScrapeBrand(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	raw := &scraper.Raw{
		Domain: "https://acme.com",
		Colors: []scraper.ColorSignal{{Value: "#ff6600", Source: "theme-color", Priority: 10}},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	ts.scrapeCache.Set(context.Background(), "https://acme.com", data)

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/scrape-brand", map[string]string{
		"website_url": "https://acme.com",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp TriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Started)
	assert.Equal(t, "started", resp.Status)

	ts.manager.Wait()

	// A second trigger after completion is refused.
	w = ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/scrape-brand", map[string]string{
		"website_url": "https://acme.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Started)
	assert.Equal(t, "already_processed", resp.Status)
}

func TestHandleScrapeBrandValidation(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/scrape-brand", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "website_url is required")
}

func TestHandleMarketResearch(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	profile := &market.Profile{
		SimilarRolesCount: 42,
		DataSource:        market.SourceSeek,
		ResearchedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	ts.marketCache.Set(context.Background(), "engineer|sydney|", data)

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/market-research", map[string]string{
		"role_title": "Engineer",
		"location":   "Sydney",
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	ts.manager.Wait()

	w = ts.do(t, http.MethodGet, "/api/tlp/"+rec.ID.String()+"/market-data", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var md record.MarketData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &md))
	assert.Equal(t, record.StatusCompleted, md.ResearchStatus)
	assert.Equal(t, 42, md.SimilarRolesCount)
}

func TestHandleMarketResearchRequiresRole(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/market-research", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "role_title is required")
}

func TestHandleScrapingStatus(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodGet, "/api/tlp/"+rec.ID.String()+"/scraping-status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScrapingStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, record.StatusPending, resp.ScrapeStatus)
	assert.Equal(t, record.StatusPending, resp.ResearchStatus)
	assert.Nil(t, resp.BrandData)
	assert.Nil(t, resp.MarketData)
}

func TestHandlePublish(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "http://localhost:3000/tlp/"+rec.ID.String(), resp["deployed_url"])
	assert.Equal(t, "published", resp["status"])

	loaded, err := ts.store.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, record.DeploymentPublished, loaded.DeploymentStatus)
	require.NotNil(t, loaded.DeployedAt)
	assert.NotEmpty(t, loaded.GeneratedHTML)
}

func TestHandleExport(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	ts.do(t, http.MethodPut, "/api/tlp/"+rec.ID.String(), map[string]any{
		"role_title":   "Senior Engineer",
		"company_name": "Acme",
	})

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="senior-engineer-acme.html"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.NotContains(t, w.Body.String(), `<div class="deploy-banner">`)
	assert.Contains(t, w.Body.String(), "og:title")
}

func TestHandleExportFallbackFilename(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodPost, "/api/tlp/"+rec.ID.String()+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="talent-page.html"`, w.Header().Get("Content-Disposition"))
}

func TestHandlePublicPage(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.createRecord(t)

	w := ts.do(t, http.MethodGet, "/tlp/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Position Opening")

	// Each view increments the counter.
	ts.do(t, http.MethodGet, "/tlp/"+rec.ID.String(), nil)
	loaded, err := ts.store.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.ViewCount)
}

func TestHandlePublicPageNotFound(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/tlp/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")

	w = ts.do(t, http.MethodGet, "/tlp/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleImageProxyValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/image-proxy", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/image-proxy?url=ftp%3A%2F%2Fexample.com%2Fa.png", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tlp", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUploadLogo(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["url"], "/api/uploads/"))
	assert.True(t, strings.HasSuffix(resp["filename"], ".png"))

	// The stored file is served back with the right content type.
	get := ts.do(t, http.MethodGet, resp["url"], nil)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "image/png", get.Header().Get("Content-Type"))
	assert.Equal(t, "fake png bytes", get.Body.String())
}

func TestUploadLogoRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("logo", "payload.exe")
	require.NoError(t, err)
	_, err = fw.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeUploadRejectsTraversal(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/uploads/notauuid.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/uploads/secrets.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
