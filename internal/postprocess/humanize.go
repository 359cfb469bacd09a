package postprocess

import (
	"strings"
	"unicode/utf8"
)

// Formal endings swapped for colloquial ones. Only a fraction of
// occurrences change so the voice varies instead of flipping wholesale.
var colloquialSwaps = [][2]string{
	{"할 수 있습니다", "할 수 있어요"},
	{"하시기 바랍니다", "해 보세요"},
	{"확인하실 수 있습니다", "확인하실 수 있어요"},
	{"필요합니다", "필요해요"},
	{"중요합니다", "중요해요"},
	{"추천드립니다", "추천드려요"},
}

// Personal-voice markers: when one already appears near the top the
// interjection stage is skipped, so running humanization twice never
// stacks interjections.
var voiceMarkers = []string{"제가 직접", "개인적으로", "저도 처음에는", "제 경험상"}

var interjections = []string{
	`<p>제가 직접 확인해보니, 생각보다 놓치기 쉬운 부분이 많더라고요.</p>`,
	`<p>개인적으로 이 부분은 미리 챙겨두는 게 훨씬 낫다고 생각해요.</p>`,
	`<p>저도 처음에는 헷갈렸는데, 정리해보니 핵심은 의외로 간단했어요.</p>`,
}

var readerQuestions = []string{
	`<p>여러분은 어떻게 생각하시나요? 댓글로 경험을 나눠주세요.</p>`,
	`<p>혹시 이미 해보신 분 있으신가요? 팁이 있다면 공유 부탁드려요.</p>`,
}

// humanize applies bounded randomized substitutions that loosen the
// generated register: colloquial ending swaps, one first-person
// interjection near the top, and an occasional reader-directed question
// at the end.
func (p *Processor) humanize(html string) string {
	for _, swap := range colloquialSwaps {
		html = p.swapSome(html, swap[0], swap[1])
	}

	if !hasVoiceMarker(html) {
		interjection := interjections[p.rng.Intn(len(interjections))]
		html = insertAfterFirstParagraph(html, interjection)
	}

	if p.rng.Intn(2) == 0 && !hasReaderQuestion(html) {
		html += "\n" + readerQuestions[p.rng.Intn(len(readerQuestions))]
	}
	return html
}

// swapSome replaces each occurrence with roughly even odds.
func (p *Processor) swapSome(html, from, to string) string {
	var b strings.Builder
	for {
		idx := strings.Index(html, from)
		if idx < 0 {
			b.WriteString(html)
			return b.String()
		}
		b.WriteString(html[:idx])
		if p.rng.Intn(2) == 0 {
			b.WriteString(to)
		} else {
			b.WriteString(from)
		}
		html = html[idx+len(from):]
	}
}

// hasVoiceMarker checks the top of the text for an existing first-person
// marker. The window always reaches past the first closing paragraph tag,
// where the interjection lands, so a second pass sees its own insertion no
// matter how long the opening paragraph runs.
func hasVoiceMarker(html string) bool {
	limit := 600
	if idx := strings.Index(html, "</p>"); idx >= 0 {
		if n := utf8.RuneCountInString(html[:idx]) + 200; n > limit {
			limit = n
		}
	}
	runes := []rune(html)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	head := string(runes)
	for _, marker := range voiceMarkers {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

func hasReaderQuestion(html string) bool {
	for _, q := range readerQuestions {
		if strings.Contains(html, q) {
			return true
		}
	}
	return false
}

func insertAfterFirstParagraph(html, block string) string {
	idx := strings.Index(html, "</p>")
	if idx < 0 {
		return html + "\n" + block
	}
	at := idx + len("</p>")
	return html[:at] + "\n" + block + html[at:]
}
