package validation

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sanitize trims s and strips any HTML markup from it.
func Sanitize(s string) string {
	return strings.TrimSpace(StripMarkup(s))
}

// SanitizePtr is Sanitize for optional fields. Nil stays nil.
func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Sanitize(*s)
	return &clean
}

// angleEscaper re-escapes the brackets that entity decoding may have produced.
var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// StripMarkup returns the text content of s with tags removed.
// Script and style bodies are dropped entirely. Entities are decoded,
// then angle brackets are escaped again so the result never holds a tag.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return angleEscaper.Replace(b.String())
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}
