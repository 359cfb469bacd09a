package postprocess

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"postforge/internal/affiliate"
	"postforge/internal/category"
	"postforge/internal/core"
	"postforge/internal/images"
	"postforge/internal/links"
	"postforge/internal/logger"
)

// Processor runs the ordered post-processing stages over a generated
// document. Stage order matters: later stages assume earlier cleanup
// already happened, so the sequence in Run is the contract.
type Processor struct {
	images     images.Searcher
	links      *links.Table
	affiliates *affiliate.Resolver
	banned     []string
	rng        *rand.Rand
}

// Deps bundles the collaborators the stages need.
type Deps struct {
	Images     images.Searcher
	Links      *links.Table
	Affiliates *affiliate.Resolver
	Banned     []string
	Rand       *rand.Rand
}

// New creates a processor. A nil Rand gets a time-seeded source.
func New(deps Deps) *Processor {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Processor{
		images:     deps.Images,
		links:      deps.Links,
		affiliates: deps.Affiliates,
		banned:     deps.Banned,
		rng:        rng,
	}
}

// Run transforms doc.RawModelText into doc.ProcessedHTML, filling Excerpt
// and HasAffiliateBlock along the way. On return no placeholder token of
// the output contract remains in the processed HTML.
func (p *Processor) Run(ctx context.Context, doc *core.GeneratedDocument, cat category.Category, imageSlots int) error {
	html := doc.RawModelText

	html = stripFences(html)
	html = stripLeadIn(html)
	html = removeDuplicateHeading(html, doc.Title)

	html, excerpt := extractMeta(html, doc.Keyword)
	doc.Excerpt = excerpt

	html = p.resolveImages(ctx, html, doc.Keyword, imageSlots)
	html = p.resolveOfficialLink(html, doc.Keyword)
	html = resolveDisclaimer(html, cat)

	html, inserted := p.resolveAffiliate(html, doc.Keyword, cat)
	doc.HasAffiliateBlock = inserted
	html = resolveNotice(html, inserted)

	html = prependBadge(html, cat.Name)
	html = normalizeStyle(html)
	html = p.scrubPolicy(html)
	html = p.humanize(html)
	html = sweepResiduals(html)

	doc.ProcessedHTML = strings.TrimSpace(html)
	logger.Debug("post-processing complete",
		"keyword", doc.Keyword,
		"affiliate", inserted,
		"bytes", len(doc.ProcessedHTML))
	return nil
}

// sweepResiduals is the final guarantee: any contract token or internal
// comment marker that survived the earlier stages is removed here.
func sweepResiduals(html string) string {
	html = core.AnyPlaceholderPattern.ReplaceAllString(html, "")
	html = core.ImageHintPattern.ReplaceAllString(html, "")
	return html
}
