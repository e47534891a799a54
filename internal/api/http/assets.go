package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lexprep/lexprep/internal/rbac"
	"github.com/lexprep/lexprep/internal/storage"
)

// MountAssets wires exam media under the given router: audio clips,
// photographs and passage images referenced by question records.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// POST /assets/{examID}/* uploads one media file (admin only).
	r.With(rbac.Require("exam:import")).Post("/{examID}/*", func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		rel := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if rel == "" {
			http.Error(w, "media path required", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key, err := bs.Put(path.Join("exams", examID, rel), f)
		if err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	})

	// GET /assets/* serves the blob at the remaining path.
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
