package postprocess

import (
	"fmt"
	"regexp"
	"strings"

	"postforge/internal/core"
)

var (
	fenceOpenPattern  = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	anyHeadingPattern = regexp.MustCompile(`(?is)<h[12][^>]*>(.*?)</h[12]>`)
	firstTagPattern   = regexp.MustCompile(`(?s)<(?:h[1-6]|p|div|ul|ol|table|blockquote|figure)[\s>]`)
	leadingH1Pattern  = regexp.MustCompile(`(?is)\A\s*<h1[^>]*>(.*?)</h1>`)
	centeredH2Pattern = regexp.MustCompile(`(?is)\A\s*<h2[^>]*text-align:\s*center[^>]*>(.*?)</h2>`)
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// Lead-in boilerplate the model sometimes prepends before the article
// proper. Anything before the first real content tag gets dropped, so the
// patterns only need to cover the case of a tag-wrapped preamble.
var leadInPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\A\s*<p[^>]*>\s*(?:네,|알겠습니다|요청하신|다음은|물론입니다)[^<]*</p>`),
	regexp.MustCompile(`(?is)\A\s*<p[^>]*>\s*(?:sure|certainly|here is|as requested)[^<]*</p>`),
}

// stripFences removes markdown code-fence wrappers around the HTML body.
func stripFences(text string) string {
	return fenceOpenPattern.ReplaceAllString(text, "")
}

// stripLeadIn drops conversational preambles, then trims to the first real
// content tag so stray prose before the article never reaches the CMS.
func stripLeadIn(text string) string {
	for _, pat := range leadInPatterns {
		text = pat.ReplaceAllString(text, "")
	}
	if loc := firstTagPattern.FindStringIndex(text); loc != nil {
		// Keep a meta block that precedes the first tag; the extraction
		// stage still needs it.
		if meta := core.MetaPattern.FindStringIndex(text); meta != nil && meta[0] < loc[0] {
			return text[meta[0]:]
		}
		return text[loc[0]:]
	}
	return strings.TrimSpace(text)
}

// removeDuplicateHeading drops a leading heading that just echoes the
// title. The CMS renders the title itself, so the echo would show twice.
// A meta block before the heading is kept in place; extraction runs later.
func removeDuplicateHeading(html, title string) string {
	var prefix string
	if loc := core.MetaPattern.FindStringIndex(html); loc != nil && strings.TrimSpace(html[:loc[0]]) == "" {
		prefix = html[:loc[1]]
		html = html[loc[1]:]
	}
	for _, pat := range []*regexp.Regexp{leadingH1Pattern, centeredH2Pattern} {
		if m := pat.FindStringSubmatch(html); m != nil {
			if titlesMatch(m[1], title) {
				return prefix + strings.TrimLeft(pat.ReplaceAllString(html, ""), " \t\n")
			}
		}
	}
	return prefix + html
}

func titlesMatch(headingHTML, title string) bool {
	heading := normalizeTitle(tagPattern.ReplaceAllString(headingHTML, ""))
	want := normalizeTitle(title)
	if heading == "" || want == "" {
		return false
	}
	return heading == want || strings.Contains(heading, want) || strings.Contains(want, heading)
}

func normalizeTitle(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " "))
}

// extractMeta pulls the delimited meta-description block out of the body
// and returns it as the excerpt. When the model failed to emit one, a
// short default is synthesized from the keyword so the CMS excerpt field
// is never empty.
func extractMeta(html, keyword string) (string, string) {
	if m := core.MetaPattern.FindStringSubmatch(html); m != nil {
		excerpt := strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
		html = core.MetaPattern.ReplaceAllString(html, "")
		if excerpt != "" {
			return strings.TrimLeft(html, " \t\n"), truncateRunes(excerpt, 160)
		}
	}
	return html, fmt.Sprintf("%s에 대해 꼭 알아야 할 핵심 정보를 정리했습니다.", keyword)
}

// ExtractTitle pulls the article title from the raw model output: the
// first top-level heading, or a keyword-derived default when the model
// emitted none.
func ExtractTitle(raw, keyword string) string {
	if m := anyHeadingPattern.FindStringSubmatch(raw); m != nil {
		title := strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
		if title != "" {
			return truncateRunes(title, 100)
		}
	}
	return fmt.Sprintf("%s 총정리", keyword)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
