package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Document root served and expanded.
	DocRoot string

	// Include expansion
	MaxIncludeDepth  int
	IncludeFileTypes []string // type names whose files are recursively expanded
	FileTypeMapPath  string   // optional YAML file of type-name -> extensions overrides

	// Preview behavior
	RenderMarkdown bool
	LiveReload     bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8085"),

		DocRoot: envOr("DOC_ROOT", "."),

		MaxIncludeDepth:  envInt("MAX_INCLUDE_DEPTH", 10),
		IncludeFileTypes: envList("INCLUDE_FILE_TYPES"),
		FileTypeMapPath:  os.Getenv("FILE_TYPE_MAP"),

		RenderMarkdown: envBool("RENDER_MARKDOWN", true),
		LiveReload:     envBool("LIVE_RELOAD", true),
	}

	if cfg.MaxIncludeDepth <= 0 {
		cfg.MaxIncludeDepth = 10
	}

	if abs, err := filepath.Abs(cfg.DocRoot); err == nil {
		cfg.DocRoot = abs
	}

	return cfg
}

func (c Config) Validate() error {
	info, err := os.Stat(c.DocRoot)
	if err != nil {
		return fmt.Errorf("DOC_ROOT %s: %w", c.DocRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("DOC_ROOT %s is not a directory", c.DocRoot)
	}
	return nil
}

// LoadTypeMap reads a YAML mapping of type-name to extension lists, e.g.
//
//	markup: [".html", ".htm", ".shtml"]
//	templates: [".tmpl"]
//
// used to override or extend the built-in file-type table.
func LoadTypeMap(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read type map: %w", err)
	}
	var m map[string][]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse type map %s: %w", path, err)
	}
	return m, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
