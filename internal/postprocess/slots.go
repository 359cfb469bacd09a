package postprocess

import (
	"fmt"
	"regexp"
	"strings"

	"postforge/internal/affiliate"
	"postforge/internal/category"
	"postforge/internal/core"
	"postforge/internal/logger"
)

const disclaimerHTML = `<div class="post-disclaimer"><p><small>본 글은 일반적인 정보 제공을 목적으로 하며, 전문적인 의학·법률·세무 상담을 대체하지 않습니다. 중요한 결정 전에는 반드시 전문가와 상담하세요.</small></p></div>`

// Disclosure sentences the model sometimes writes on its own, outside the
// delimited notice block. Stripped whenever no affiliate block was placed.
var hallucinatedNoticePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<p[^>]*>[^<]*쿠팡\s*파트너스[^<]*</p>`),
	regexp.MustCompile(`(?i)<p[^>]*>[^<]*(?:제휴|파트너스)\s*(?:활동|링크)[^<]*수수료[^<]*</p>`),
	regexp.MustCompile(`(?i)<em>[^<]*쿠팡\s*파트너스[^<]*</em>`),
}

// resolveOfficialLink fills the official-link slot when the keyword maps
// to a configured official site, and removes it silently otherwise.
func (p *Processor) resolveOfficialLink(html, keyword string) string {
	if !strings.Contains(html, core.OfficialLinkPlaceholder) {
		return html
	}
	if p.links != nil {
		if entry := p.links.Lookup(keyword); entry != nil {
			return strings.ReplaceAll(html, core.OfficialLinkPlaceholder, entry.Card())
		}
	}
	return strings.ReplaceAll(html, core.OfficialLinkPlaceholder, "")
}

// resolveDisclaimer inserts the standard disclaimer only for categories
// that require one.
func resolveDisclaimer(html string, cat category.Category) string {
	if cat.RequiresDisclaimer {
		if strings.Contains(html, core.DisclaimerPlaceholder) {
			return strings.ReplaceAll(html, core.DisclaimerPlaceholder, disclaimerHTML)
		}
		// Required but the model dropped the slot: append instead.
		return html + "\n" + disclaimerHTML
	}
	return strings.ReplaceAll(html, core.DisclaimerPlaceholder, "")
}

// resolveAffiliate fills the commerce slot through the resolver's tiered
// fallback and reports whether a block actually landed. Exclusion rules
// always win over the slot's presence.
func (p *Processor) resolveAffiliate(html, keyword string, cat category.Category) (string, bool) {
	if p.affiliates == nil || !p.affiliates.Eligible(keyword, cat) {
		return strings.ReplaceAll(html, core.AffiliatePlaceholder, ""), false
	}
	block := p.affiliates.Resolve(keyword, cat)
	if block == "" {
		logger.Debug("no affiliate match for keyword", "keyword", keyword)
		return strings.ReplaceAll(html, core.AffiliatePlaceholder, ""), false
	}
	if strings.Contains(html, core.AffiliatePlaceholder) {
		return strings.ReplaceAll(html, core.AffiliatePlaceholder, block), true
	}
	// Eligible with a match but no slot: place before the closing content.
	return html + "\n" + block, true
}

// resolveNotice enforces the disclosure biconditional: the notice appears
// if and only if an affiliate block was inserted. Without a block, both
// the delimited notice and any hallucinated disclosure sentence are
// stripped.
func resolveNotice(html string, hasAffiliate bool) string {
	if hasAffiliate {
		if core.AdNoticePattern.MatchString(html) {
			return core.AdNoticePattern.ReplaceAllString(html, affiliate.NoticeHTML)
		}
		return affiliate.NoticeHTML + "\n" + html
	}
	html = core.AdNoticePattern.ReplaceAllString(html, "")
	for _, pat := range hallucinatedNoticePatterns {
		html = pat.ReplaceAllString(html, "")
	}
	return html
}

// prependBadge puts the small category label at the top of the body.
func prependBadge(html, categoryName string) string {
	badge := fmt.Sprintf(`<div class="category-badge"><span>%s</span></div>`, categoryName)
	return badge + "\n" + html
}
