package ssi

import "regexp"

// directivePattern matches the one supported directive form:
//
//	<!--#include virtual="path" -->
//
// The token is case-sensitive, whitespace is required after "#include" and
// allowed around "=" and before "-->", and the value has no quote escaping.
// Any other comment-like text is inert.
var directivePattern = regexp.MustCompile(`<!--#include\s+virtual\s*=\s*"([^"]*)"\s*-->`)

// Directive is a single include occurrence found in a buffer.
type Directive struct {
	RawTarget string // quoted value, as written
	Start     int    // byte offset of "<!--" in the scanned buffer
	End       int    // byte offset just past "-->"
}

// Scan finds every include directive in buf in one pass, preserving the
// original byte offsets. The grammar has no nesting marker, so matches never
// overlap or contain one another.
func Scan(buf string) []Directive {
	matches := directivePattern.FindAllStringSubmatchIndex(buf, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Directive, 0, len(matches))
	for _, m := range matches {
		out = append(out, Directive{
			RawTarget: buf[m[2]:m[3]],
			Start:     m[0],
			End:       m[1],
		})
	}
	return out
}
