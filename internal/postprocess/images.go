package postprocess

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"postforge/internal/core"
	"postforge/internal/images"
	"postforge/internal/logger"
)

var headingPattern = regexp.MustCompile(`(?is)</h[2-4]>`)

// resolveImages substitutes a figure block for every numbered image slot.
// With no searcher configured, every slot and its hint comment is stripped
// instead. Individual lookup failures never abort the run; the slot is
// removed and a warning logged. Slots the model mangled beyond recognition
// are covered by the heading fallback: any resolved image left without a
// locatable slot is inserted after the matching section heading, clamped
// to the last heading.
func (p *Processor) resolveImages(ctx context.Context, htmlText, keyword string, expectedSlots int) string {
	if p.images == nil {
		htmlText = core.ImagePlaceholderPattern.ReplaceAllString(htmlText, "")
		return core.ImageHintPattern.ReplaceAllString(htmlText, "")
	}

	used := images.NewUsedSet()
	found := make(map[int]bool)

	for _, match := range core.ImagePlaceholderPattern.FindAllStringSubmatch(htmlText, -1) {
		token := match[0]
		index, _ := strconv.Atoi(match[1])
		found[index] = true

		query := hintAfter(htmlText, token, keyword)
		figure := p.resolveOne(ctx, query, keyword, used)
		htmlText = strings.Replace(htmlText, token, figure, 1)
	}
	htmlText = core.ImageHintPattern.ReplaceAllString(htmlText, "")

	// Heading fallback for slots the model dropped or altered.
	for index := 1; index <= expectedSlots; index++ {
		if found[index] {
			continue
		}
		figure := p.resolveOne(ctx, keyword, keyword, used)
		if figure == "" {
			continue
		}
		htmlText = insertAfterHeading(htmlText, figure, index)
	}
	return htmlText
}

// resolveOne fetches one unused image for the query and renders it, or
// returns "" when nothing usable comes back.
func (p *Processor) resolveOne(ctx context.Context, query, keyword string, used *images.UsedSet) string {
	assets, err := p.images.Resolve(ctx, query, 5)
	if err != nil {
		logger.Warn("image lookup failed, removing slot", "query", query, "error", err.Error())
		return ""
	}
	for _, asset := range assets {
		if asset.URL == "" || used.Has(asset.URL) {
			continue
		}
		used.Add(asset.URL)
		return figureHTML(asset, keyword)
	}
	logger.Warn("no unused image available, removing slot", "query", query)
	return ""
}

// hintAfter returns the image-hint comment immediately following the
// token, or the keyword when the model omitted the hint.
func hintAfter(htmlText, token, keyword string) string {
	pos := strings.Index(htmlText, token)
	if pos < 0 {
		return keyword
	}
	tail := htmlText[pos+len(token):]
	if len(tail) > 200 {
		tail = tail[:200]
	}
	if m := core.ImageHintPattern.FindStringSubmatch(tail); m != nil {
		if hint := strings.TrimSpace(m[1]); hint != "" {
			return hint
		}
	}
	return keyword
}

// insertAfterHeading places the block after the nth section heading,
// clamped to the last heading. A document with no headings gets the block
// appended.
func insertAfterHeading(htmlText, block string, n int) string {
	locs := headingPattern.FindAllStringIndex(htmlText, -1)
	if len(locs) == 0 {
		return htmlText + "\n" + block
	}
	if n > len(locs) {
		n = len(locs)
	}
	at := locs[n-1][1]
	return htmlText[:at] + "\n" + block + htmlText[at:]
}

func figureHTML(asset core.ImageAsset, keyword string) string {
	alt := asset.Alt
	if alt == "" {
		alt = keyword
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<figure class="post-image"><img src="%s" alt="%s" loading="lazy">`,
		html.EscapeString(asset.URL), html.EscapeString(alt))
	if asset.Attribution != "" {
		fmt.Fprintf(&b, `<figcaption>%s</figcaption>`, html.EscapeString(asset.Attribution))
	}
	b.WriteString(`</figure>`)
	return b.String()
}
