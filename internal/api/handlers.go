package api

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/ssiserve/internal/render"
	"github.com/dgallion1/ssiserve/internal/ssi"
)

// reloadScript reconnects through the /events stream and reloads the page
// when any document it depends on changes.
const reloadScript = `<script>new EventSource("/events").onmessage=()=>location.reload();</script>`

// handleDocument serves a file under the document root with its includes
// expanded. The top-level document is always expanded; whether included
// files are recursively expanded is decided by the configured file types.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	doc := ssi.Normalize(filepath.Join(s.cfg.DocRoot, rel))

	src, err := s.files.ReadText(r.Context(), doc)
	if err != nil {
		// Only the top-level document surfaces as a whole-document
		// failure, rendered the same way as a directive diagnostic.
		s.log.Warn("document not readable", "path", doc, "error", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, ssi.NotFoundComment(doc))
		return
	}

	res := ssi.Expand(r.Context(), s.files, doc, src, ssi.Context{
		Root:     s.cfg.DocRoot,
		MaxDepth: s.cfg.MaxIncludeDepth,
		Types:    s.types,
	})
	s.index.Record(doc, res.Deps)

	body := []byte(res.Text)
	ext := strings.ToLower(filepath.Ext(doc))

	if s.cfg.RenderMarkdown && (ext == ".md" || ext == ".markdown") {
		html, err := render.Markdown(body)
		if err != nil {
			s.log.Error("render markdown", "path", doc, "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		body = html
		ext = ".html"
	}

	if s.cfg.LiveReload && s.watcher != nil && isHTML(ext) {
		body = render.InjectReload(body, reloadScript)
	}

	w.Header().Set("Content-Type", contentType(ext))
	w.Write(body)
}

// handleEvents streams reload notifications as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.watcher == nil {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.watcher.Subscribe()
	defer s.watcher.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case docs := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", strings.Join(docs, " "))
			flusher.Flush()
		}
	}
}

func isHTML(ext string) bool {
	switch ext {
	case ".html", ".htm", ".shtml":
		return true
	}
	return false
}

func contentType(ext string) string {
	if ext == ".shtml" {
		return "text/html; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "text/plain; charset=utf-8"
}
