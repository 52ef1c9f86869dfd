// Package render prepares expanded documents for the preview server:
// markdown conversion and live-reload script injection.
package render

import (
	"bytes"

	"golang.org/x/net/html"
)

// InjectReload inserts snippet immediately before the document's closing
// </body> tag. Documents without one (fragments, headless pages) get the
// snippet appended instead. The rest of the document passes through
// byte-for-byte.
func InjectReload(doc []byte, snippet string) []byte {
	z := html.NewTokenizer(bytes.NewReader(doc))
	var out bytes.Buffer
	injected := false
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.EndTagToken && !injected {
			name, _ := z.TagName()
			if string(name) == "body" {
				out.WriteString(snippet)
				injected = true
			}
		}
		out.Write(z.Raw())
	}
	if !injected {
		out.WriteString(snippet)
	}
	return out.Bytes()
}
