package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/ssiserve/internal/config"
	"github.com/dgallion1/ssiserve/internal/content"
	"github.com/dgallion1/ssiserve/internal/deps"
	"github.com/dgallion1/ssiserve/internal/filetype"
	"github.com/dgallion1/ssiserve/internal/ssi"
)

type fixture struct {
	srv   *Server
	index *deps.Index
	root  string
}

func newFixture(t *testing.T, cfg config.Config, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}

	cfg.DocRoot = root
	if cfg.MaxIncludeDepth == 0 {
		cfg.MaxIncludeDepth = 10
	}

	index := deps.NewIndex()
	types := filetype.NewSet(cfg.IncludeFileTypes, nil)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(content.NewDir(root), index, nil, types, log, cfg)

	return &fixture{srv: srv, index: index, root: root}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, string(body)
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	res, body := f.get(t, "/health")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if !strings.Contains(body, `"ok"`) {
		t.Errorf("unexpected health body: %q", body)
	}
}

func TestServer_ExpandsDocument(t *testing.T) {
	f := newFixture(t, config.Config{}, map[string]string{
		"index.html": `<body><!--#include virtual="/h.html" --></body>`,
		"h.html":     "<header>Nav</header>",
	})

	res, body := f.get(t, "/index.html")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if body != "<body><header>Nav</header></body>" {
		t.Errorf("unexpected body: %q", body)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("unexpected content type: %q", ct)
	}
}

func TestServer_RecordsDependencies(t *testing.T) {
	f := newFixture(t, config.Config{}, map[string]string{
		"index.html": `<!--#include virtual="/h.html" -->`,
		"h.html":     "H",
	})

	f.get(t, "/index.html")

	doc := ssi.Normalize(filepath.Join(f.root, "index.html"))
	header := ssi.Normalize(filepath.Join(f.root, "h.html"))
	if got := f.index.Lookup(header); !reflect.DeepEqual(got, []string{doc}) {
		t.Errorf("expected %v, got %v", []string{doc}, got)
	}
}

func TestServer_NestedIncludesWithEnabledTypes(t *testing.T) {
	f := newFixture(t, config.Config{IncludeFileTypes: []string{"markup"}}, map[string]string{
		"index.html":    `<main><!--#include virtual="/inc/nav.html" --></main>`,
		"inc/nav.html":  `<nav><!--#include virtual="/inc/link.html" --></nav>`,
		"inc/link.html": `<a href="/">home</a>`,
	})

	_, body := f.get(t, "/index.html")
	if body != `<main><nav><a href="/">home</a></nav></main>` {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestServer_MissingDocument(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)

	res, body := f.get(t, "/gone.html")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	want := ssi.NotFoundComment(ssi.Normalize(filepath.Join(f.root, "gone.html")))
	if body != want {
		t.Errorf("expected %q, got %q", want, body)
	}
}

func TestServer_MissingIncludeStaysInline(t *testing.T) {
	f := newFixture(t, config.Config{}, map[string]string{
		"index.html": `<p>a</p><!--#include virtual="/gone.html" --><p>b</p>`,
	})

	res, body := f.get(t, "/index.html")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("bad include must not fail the document, got %d", res.StatusCode)
	}
	missing := ssi.Normalize(filepath.Join(f.root, "gone.html"))
	want := "<p>a</p>" + ssi.NotFoundComment(missing) + "<p>b</p>"
	if body != want {
		t.Errorf("expected %q, got %q", want, body)
	}
}

func TestServer_RendersMarkdown(t *testing.T) {
	f := newFixture(t, config.Config{RenderMarkdown: true}, map[string]string{
		"notes.md": "# Notes\n\n<!--#include virtual=\"/frag.md\" -->\n",
		"frag.md":  "included *fragment*",
	})

	res, body := f.get(t, "/notes.md")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if !strings.Contains(body, "<h1") || !strings.Contains(body, "<em>fragment</em>") {
		t.Errorf("expected rendered markdown with include, got %q", body)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("unexpected content type: %q", ct)
	}
}

func TestServer_IndexFallback(t *testing.T) {
	f := newFixture(t, config.Config{}, map[string]string{
		"index.html": "<body>root</body>",
	})
	_, body := f.get(t, "/")
	if body != "<body>root</body>" {
		t.Errorf("expected index.html for /, got %q", body)
	}
}

func TestServer_EventsWithoutWatcher(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	res, _ := f.get(t, "/events")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 without a watcher, got %d", res.StatusCode)
	}
}
