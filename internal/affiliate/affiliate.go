package affiliate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"postforge/internal/category"
)

// NoticeHTML is the affiliate-disclosure text required whenever an
// affiliate block is present, and only then.
const NoticeHTML = `<p class="affiliate-notice"><em>이 포스팅은 쿠팡 파트너스 활동의 일환으로, 이에 따른 일정액의 수수료를 제공받습니다.</em></p>`

// Product is one curated commerce item.
type Product struct {
	Name       string   `yaml:"name"`
	URL        string   `yaml:"url"`
	Keywords   []string `yaml:"keywords"`   // match terms scored against the topic keyword
	Categories []string `yaml:"categories"` // categories this product suits
}

// Resolver decides affiliate eligibility and fills the commerce slot using
// a three-level fallback: curated products, a static keyword table, then a
// category default link. No single source has full coverage.
type Resolver struct {
	products      []Product
	staticLinks   map[string]string // keyword substring -> link
	categoryLinks map[string]string // category name -> default link
	excludedTerms []string
	affiliateTag  string
}

// Keyword-level exclusion terms: commerce next to these topics is a
// compliance problem regardless of category.
var defaultExcludedTerms = []string{
	"사망", "사고", "장례", "범죄", "재난", "질병 사망", "부고",
}

func defaultStaticLinks() map[string]string {
	return map[string]string{
		"노트북": "https://link.coupang.com/a/laptop-picks",
		"영양제": "https://link.coupang.com/a/supplement-picks",
		"캠핑":  "https://link.coupang.com/a/camping-picks",
		"청소":  "https://link.coupang.com/a/cleaning-picks",
	}
}

func defaultCategoryLinks() map[string]string {
	return map[string]string{
		"Life":   "https://link.coupang.com/a/living-bestsellers",
		"IT":     "https://link.coupang.com/a/digital-bestsellers",
		"Health": "https://link.coupang.com/a/health-bestsellers",
	}
}

// NewResolver builds a resolver. productsFile is an optional YAML file of
// curated products; an empty path means no curated tier.
func NewResolver(productsFile, affiliateTag string) (*Resolver, error) {
	r := &Resolver{
		staticLinks:   defaultStaticLinks(),
		categoryLinks: defaultCategoryLinks(),
		excludedTerms: defaultExcludedTerms,
		affiliateTag:  affiliateTag,
	}
	if productsFile != "" {
		raw, err := os.ReadFile(productsFile)
		if err != nil {
			return nil, fmt.Errorf("read products file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &r.products); err != nil {
			return nil, fmt.Errorf("parse products file: %w", err)
		}
	}
	return r, nil
}

// Eligible reports whether an affiliate block may appear for this keyword
// and category. Exclusion always wins: an excluded category or an excluded
// keyword term overrides any positive signal.
func (r *Resolver) Eligible(keyword string, cat category.Category) bool {
	if !cat.AffiliateEligible {
		return false
	}
	lowered := strings.ToLower(keyword)
	for _, term := range r.excludedTerms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// Resolve returns the affiliate block HTML for the keyword, or "" when no
// tier matches. Eligibility must be checked first.
func (r *Resolver) Resolve(keyword string, cat category.Category) string {
	if p := r.bestProduct(keyword, cat); p != nil {
		return blockHTML(p.Name, r.tagged(p.URL))
	}

	lowered := strings.ToLower(keyword)
	for _, term := range sortedStringKeys(r.staticLinks) {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return blockHTML(term+" 추천 상품 보기", r.tagged(r.staticLinks[term]))
		}
	}

	if link, ok := r.categoryLinks[cat.Name]; ok {
		return blockHTML(cat.Name+" 인기 상품 보기", r.tagged(link))
	}
	return ""
}

// bestProduct scores curated products by keyword-term and category overlap
// and returns the top scorer, or nil when nothing scores above zero.
func (r *Resolver) bestProduct(keyword string, cat category.Category) *Product {
	lowered := strings.ToLower(keyword)
	var best *Product
	bestScore := 0
	for i := range r.products {
		p := &r.products[i]
		score := 0
		for _, term := range p.Keywords {
			if term == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(term)) {
				score += 2
			}
		}
		for _, c := range p.Categories {
			if strings.EqualFold(c, cat.Name) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best
}

func (r *Resolver) tagged(link string) string {
	if r.affiliateTag == "" {
		return link
	}
	sep := "?"
	if strings.Contains(link, "?") {
		sep = "&"
	}
	return link + sep + "tag=" + r.affiliateTag
}

func blockHTML(label, link string) string {
	return fmt.Sprintf(
		`<div class="affiliate-block"><p>🛒 <a href="%s" target="_blank" rel="noopener sponsored">%s</a></p></div>`,
		link, label)
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
