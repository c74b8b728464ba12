package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var (
	htmlMarkup   = regexp.MustCompile(`(?i)</?(p|br|div|li|ul|ol|span|strong|b|em|h[1-6]|a|table|tr|td)(\s[^>]*)?/?>`)
	htmlDocument = regexp.MustCompile(`(?i)<(html|body)[\s>]`)
	blockClose   = regexp.MustCompile(`(?i)(</(p|div|li|h[1-6]|tr)>|<br\s*/?>)`)
	inlineSpaces = regexp.MustCompile(`[ \t\f\r]+`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// plainText strips HTML markup from provider text. Text without markup is
// returned unchanged.
func plainText(s string) string {
	if !htmlMarkup.MatchString(s) {
		return s
	}

	// goquery concatenates text nodes, so block ends need explicit breaks
	marked := blockClose.ReplaceAllString(s, "$1\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(marked))
	if err != nil {
		return s
	}
	return tidy(doc.Text())
}

// pageText returns the readable text of a fetched page. Full HTML documents go
// through readability first so navigation and footers do not leak into the
// mined fields.
func pageText(raw, pageURL string) string {
	if !htmlDocument.MatchString(raw) {
		return plainText(raw)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return plainText(raw)
	}

	article, err := readability.FromReader(strings.NewReader(raw), parsed)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return plainText(raw)
	}
	return plainText(article.Content)
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaces.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
