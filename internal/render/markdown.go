package render

import (
	"bytes"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// Markdown converts markdown source to HTML for preview responses.
func Markdown(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
