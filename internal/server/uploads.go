package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// uploadMaxBytes caps logo upload size.
const uploadMaxBytes = 5 << 20

var allowedLogoExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// handleUploadLogo stores an uploaded logo under a fresh name and returns a
// stable URL for it.
func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uploadMaxBytes)
	if err := r.ParseMultipartForm(uploadMaxBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedLogoExtensions[ext]; !ok {
		s.errorResponse(w, http.StatusBadRequest, "unsupported file type: "+ext)
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.logger.Error("failed to create upload dir", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to store logo")
		return
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		s.logger.Error("failed to create upload file", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to store logo")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		s.logger.Error("failed to write upload", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to store logo")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"url":      "/api/uploads/" + filename,
		"filename": filename,
	})
}

// handleServeUpload serves a stored logo. The filename is restricted to the
// uuid-plus-extension shape produced by the upload handler, so path
// traversal is structurally impossible.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedLogoExtensions[ext]
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}
	if _, err := uuid.Parse(strings.TrimSuffix(filename, ext)); err != nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}

	path := filepath.Join(s.uploadDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write upload response", zap.Error(err))
	}
}
