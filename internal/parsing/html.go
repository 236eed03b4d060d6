package parsing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML converts a pasted job description to plain text. Recruiters
// frequently paste postings straight from a browser or an ATS, so markup,
// scripts and style blocks are removed and block elements become line
// breaks. Input without any tags is returned normalized but otherwise
// untouched.
func StripHTML(input string) string {
	if !strings.Contains(input, "<") {
		return NormalizeText(input)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return NormalizeText(input)
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return NormalizeText(doc.Text())
}
