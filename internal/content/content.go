package content

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider gives the expansion engine access to file content. Implementations
// live outside the engine so it can be tested without touching disk.
type Provider interface {
	// Stat reports whether the file at the given absolute path is readable.
	Stat(ctx context.Context, path string) error
	// ReadText returns the file's content as text.
	ReadText(ctx context.Context, path string) (string, error)
}

// Dir is an OS-backed provider confined to a root directory. Paths outside
// the root are reported as missing rather than read.
type Dir struct {
	Root string
}

func NewDir(root string) *Dir {
	return &Dir{Root: strings.TrimSuffix(root, "/")}
}

func (d *Dir) contains(path string) bool {
	return path == d.Root || strings.HasPrefix(path, d.Root+"/")
}

func (d *Dir) Stat(ctx context.Context, path string) error {
	if !d.contains(path) {
		return fmt.Errorf("stat %s: %w", path, os.ErrNotExist)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("stat %s: is a directory", path)
	}
	return nil
}

func (d *Dir) ReadText(ctx context.Context, path string) (string, error) {
	if !d.contains(path) {
		return "", fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Mem is a map-backed provider keyed by normalized path, used in tests.
type Mem map[string]string

func (m Mem) Stat(ctx context.Context, path string) error {
	if _, ok := m[path]; !ok {
		return fmt.Errorf("stat %s: %w", path, os.ErrNotExist)
	}
	return nil
}

func (m Mem) ReadText(ctx context.Context, path string) (string, error) {
	text, ok := m[path]
	if !ok {
		return "", fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return text, nil
}
