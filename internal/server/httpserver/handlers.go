package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/pages"
	"git.home.luguber.info/inful/docsite/internal/sitemap"
	"git.home.luguber.info/inful/docsite/internal/version"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeJSON = "application/json"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime_seconds"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, pages.Root)
}

// handleDoc serves canonical document routes only. A trailing slash redirects
// to the route without it.
func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	slugPath := r.PathValue("slug")
	if trimmed := strings.TrimRight(slugPath, "/"); trimmed != slugPath && trimmed != "" {
		http.Redirect(w, r, pages.DocPath(trimmed), http.StatusMovedPermanently)
		return
	}
	s.servePage(w, r, pages.DocPath(slugPath))
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, route string) {
	page, err := s.site.Render(r.Context(), route)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	if s.cfg.CacheMaxAge > 0 {
		h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.cfg.CacheMaxAge.Seconds())))
	}
	if page.Fingerprint != "" {
		etag := `"` + page.Fingerprint + `"`
		h.Set("ETag", etag)
		if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	h.Set("Content-Type", contentTypeHTML)
	_, _ = w.Write(page.HTML)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	out, err := s.site.Sitemap(s.site.Routes(r.Context()), s.site.Now())
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeXML)
	w.Header().Set("Cache-Control", sitemap.CacheControl)
	_, _ = w.Write(out)
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", contentTypeText)
	_, _ = w.Write(s.site.Robots())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(s.started).Seconds(),
	})
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, derrors.InternalError("failed to write health response", err))
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	_, _ = w.Write(b)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeNotFound(w, r)
}

// writeError renders the 404 page for not_found and invalid_slug errors and a
// JSON error payload for everything else.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if s.errorAdapter.StatusCodeFor(err) == http.StatusNotFound {
		s.writeNotFound(w, r)
		return
	}
	s.errorAdapter.WriteErrorResponse(w, r, err)
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(s.site.NotFound(r.URL.Path))
}
