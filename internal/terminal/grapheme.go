package terminal

import "github.com/rivo/uniseg"

// Graphemes splits s into grapheme clusters: each element is one
// user-perceived character, base code point plus any combining marks.
func Graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
