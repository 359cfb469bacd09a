package postprocess

import (
	"regexp"
	"strings"
)

// maxEmojiRun caps consecutive emoji; longer runs read as spam to the
// platform's content filters.
const maxEmojiRun = 2

var emojiRunPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}]{3,}`)

// scrubPolicy removes phrasing that violates platform content guidelines:
// the configured banned terms and excessive emoji runs.
func (p *Processor) scrubPolicy(html string) string {
	for _, phrase := range p.banned {
		if phrase == "" {
			continue
		}
		html = strings.ReplaceAll(html, phrase, "")
	}
	html = emojiRunPattern.ReplaceAllStringFunc(html, func(run string) string {
		runes := []rune(run)
		return string(runes[:maxEmojiRun])
	})
	return html
}
