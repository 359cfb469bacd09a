package postprocess

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"postforge/internal/logger"
)

// normalizeStyle converts styling that renders badly in the target CMS
// theme into safe equivalents. Blockquotes pick up an unwanted border
// artifact there, so they become plain quote divs; stray empty style
// attributes are dropped.
func normalizeStyle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("style normalization skipped, parse failed", "error", err.Error())
		return html
	}

	doc.Find("blockquote").Each(func(_ int, s *goquery.Selection) {
		inner, err := s.Html()
		if err != nil {
			return
		}
		s.ReplaceWithHtml(`<div class="quote-box">` + inner + `</div>`)
	})

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if style, _ := s.Attr("style"); strings.TrimSpace(style) == "" {
			s.RemoveAttr("style")
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		logger.Warn("style normalization skipped, serialize failed", "error", err.Error())
		return html
	}
	return strings.TrimSpace(out)
}
