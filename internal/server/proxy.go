package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/fetch"
)

// proxyMaxBytes caps how much of an upstream image is streamed through.
const proxyMaxBytes = 10 << 20

var proxyClient = &http.Client{Timeout: 20 * time.Second}

// handleImageProxy streams an upstream image so hotlink-blocking sites still
// render inside generated pages. Only absolute http(s) URLs are accepted.
func (s *Server) handleImageProxy(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url parameter is required")
		return
	}
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		s.errorResponse(w, http.StatusBadRequest, "only http(s) URLs can be proxied")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid url")
		return
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)

	resp, err := proxyClient.Do(req)
	if err != nil {
		s.logger.Warn("image proxy fetch failed", zap.String("url", imageURL), zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "failed to fetch image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.errorResponse(w, http.StatusBadGateway, "upstream returned "+resp.Status)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, io.LimitReader(resp.Body, proxyMaxBytes)); err != nil {
		s.logger.Debug("image proxy stream interrupted", zap.Error(err))
	}
}
