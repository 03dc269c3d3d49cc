package controllers

import (
	"net/http"
	"path"

	"github.com/benbjohnson/hashfs"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/pkg/application"
)

const (
	cacheImmutable   = "public, max-age=31536000, immutable"
	cacheProduction  = "public, max-age=3600"
	cacheDevelopment = "no-cache, no-store, must-revalidate"
)

type StaticFilesController struct {
	files      *hashfs.FS
	production bool
}

func NewStaticFilesController(files *hashfs.FS, production bool) application.Controller {
	return &StaticFilesController{files: files, production: production}
}

func (s *StaticFilesController) Key() string {
	return "/static"
}

func (s *StaticFilesController) Register(r *mux.Router) {
	fsHandler := http.StripPrefix("/static/", http.FileServer(http.FS(s.files)))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// hashed names change with their content
		if _, hash := hashfs.ParseName(path.Base(r.URL.Path)); hash != "" {
			w.Header().Set("Cache-Control", cacheImmutable)
		} else if s.production {
			w.Header().Set("Cache-Control", cacheProduction)
		} else {
			w.Header().Set("Cache-Control", cacheDevelopment)
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		fsHandler.ServeHTTP(w, r)
	})
	r.PathPrefix("/static/").Handler(handler).Methods(http.MethodGet, http.MethodHead)
}
