// Package strings holds small string helpers shared by transports, repos and the feed
package strings

import (
	std "strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// IfEmpty returns def if in is empty, otherwise in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes a mount path like /activity: one leading slash, no trailing one.
// It panics on an empty or root path.
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// SQLNull returns nil for blank strings so they are stored as NULL
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Clip returns the NFC form of s cut to at most max bytes on a character boundary;
// combining marks are never separated from their base
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	s = norm.NFC.String(s)
	if len(s) <= max {
		return s
	}
	var it norm.Iter
	it.InitString(norm.NFC, s)
	end := 0
	for !it.Done() {
		next := it.Pos()
		it.Next()
		if it.Pos() > max {
			end = next
			break
		}
		end = it.Pos()
	}
	return s[:end]
}

// Excerpt collapses whitespace in s and cuts it to about n runes at a word boundary,
// appending an ellipsis when anything was dropped
func Excerpt(s string, n int) string {
	s = std.Join(std.Fields(norm.NFC.String(s)), " ")
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	// cut by bytes so a trailing base character keeps its combining marks or goes entirely
	cut := Clip(s, len(string(runes[:n])))
	if i := std.LastIndexFunc(cut, unicode.IsSpace); i > len(cut)/2 {
		cut = cut[:i]
	}
	return std.TrimRightFunc(cut, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsPunct(r) }) + "…"
}
