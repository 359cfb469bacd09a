package postprocess

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"postforge/internal/affiliate"
	"postforge/internal/category"
	"postforge/internal/core"
	"postforge/internal/images"
	"postforge/internal/links"
)

func testProcessor(t *testing.T, searcher images.Searcher) *Processor {
	t.Helper()
	linkTable, err := links.Load("")
	if err != nil {
		t.Fatalf("links.Load failed: %v", err)
	}
	resolver, err := affiliate.NewResolver("", "")
	if err != nil {
		t.Fatalf("affiliate.NewResolver failed: %v", err)
	}
	return New(Deps{
		Images:     searcher,
		Links:      linkTable,
		Affiliates: resolver,
		Banned:     []string{"충격", "무조건"},
		Rand:       rand.New(rand.NewSource(1)),
	})
}

func healthCategory() category.Category {
	return category.Category{
		Name: "Health", CMSID: 17,
		AffiliateEligible: true, RequiresDisclaimer: true,
	}
}

func financeCategory() category.Category {
	return category.Category{Name: "Finance", CMSID: 12}
}

const rawAffiliateDraft = "```html\n" +
	`<p>네, 요청하신 글을 작성하겠습니다.</p>
[META]오메가3 영양제 고르는 기준과 복용법을 정리했습니다.[/META]
<h1>오메가3 영양제 추천</h1>
<p>오메가3는 꾸준히 챙기기 어려운 영양제입니다.</p>
<h2>고르는 기준</h2>
[IMAGE_1]
<!-- image: omega3 supplement bottle -->
<p>순도와 함량을 먼저 확인해야 합니다. 무조건 비싼 제품이 답은 아닙니다.</p>
<h2>복용 시점</h2>
<p>식후 복용이 흡수에 유리합니다.</p>
[AFFILIATE]
[AD_NOTICE]이 포스팅은 파트너스 활동으로 수수료를 받을 수 있습니다.[/AD_NOTICE]
[OFFICIAL_LINK]
[DISCLAIMER]
` + "```"

func TestRun_PlaceholderClosure(t *testing.T) {
	p := testProcessor(t, &images.MockSearcher{})
	doc := &core.GeneratedDocument{
		Keyword:      "오메가3 영양제 추천",
		Title:        "오메가3 영양제 추천",
		RawModelText: rawAffiliateDraft,
		GeneratedAt:  time.Now().UTC(),
	}

	if err := p.Run(context.Background(), doc, healthCategory(), 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if core.AnyPlaceholderPattern.MatchString(doc.ProcessedHTML) {
		t.Errorf("processed HTML leaked placeholder tokens:\n%s", doc.ProcessedHTML)
	}
	if core.ImageHintPattern.MatchString(doc.ProcessedHTML) {
		t.Error("processed HTML leaked image hint comments")
	}
	if strings.Contains(doc.ProcessedHTML, "```") {
		t.Error("code fences should be stripped")
	}
	if strings.Contains(doc.ProcessedHTML, "요청하신 글을") {
		t.Error("conversational lead-in should be stripped")
	}
}

func TestRun_AffiliateDocument(t *testing.T) {
	p := testProcessor(t, &images.MockSearcher{})
	doc := &core.GeneratedDocument{
		Keyword:      "오메가3 영양제 추천",
		Title:        "오메가3 영양제 추천",
		RawModelText: rawAffiliateDraft,
	}

	if err := p.Run(context.Background(), doc, healthCategory(), 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !doc.HasAffiliateBlock {
		t.Error("eligible keyword with a static-table match should insert an affiliate block")
	}
	if !strings.Contains(doc.ProcessedHTML, "affiliate-block") {
		t.Error("affiliate block HTML missing")
	}
	if got := strings.Count(doc.ProcessedHTML, "affiliate-notice"); got != 1 {
		t.Errorf("expected exactly one affiliate notice, got %d", got)
	}
	if !strings.Contains(doc.ProcessedHTML, "post-disclaimer") {
		t.Error("disclaimer required by the category is missing")
	}
	if !strings.Contains(doc.ProcessedHTML, "<figure") {
		t.Error("image slot should become a figure block")
	}
	if !strings.Contains(doc.ProcessedHTML, "category-badge") {
		t.Error("category badge missing")
	}
	if doc.Excerpt != "오메가3 영양제 고르는 기준과 복용법을 정리했습니다." {
		t.Errorf("unexpected excerpt: %q", doc.Excerpt)
	}
	if strings.Contains(doc.ProcessedHTML, "무조건") {
		t.Error("banned phrase should be scrubbed")
	}
	// The model's echoed h1 duplicates the title rendered by the CMS.
	if strings.Contains(doc.ProcessedHTML, "<h1") {
		t.Error("duplicate title heading should be removed")
	}
}

func TestRun_NoticeStrippedWithoutAffiliate(t *testing.T) {
	p := testProcessor(t, &images.MockSearcher{})
	raw := `[META]연말정산 환급 일정 요약[/META]
<h2>환급 일정</h2>
<p>환급금은 홈택스에서 조회할 수 있습니다.</p>
[OFFICIAL_LINK]
[AFFILIATE]
[AD_NOTICE]이 포스팅은 쿠팡 파트너스 활동의 일환으로 수수료를 받습니다.[/AD_NOTICE]
<p>이 포스팅은 쿠팡 파트너스 활동의 일환으로 일정 수수료를 제공받을 수 있습니다.</p>
[DISCLAIMER]`

	doc := &core.GeneratedDocument{
		Keyword:      "연말정산 환급",
		Title:        "연말정산 환급 조회 방법",
		RawModelText: raw,
	}
	if err := p.Run(context.Background(), doc, financeCategory(), 0); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if doc.HasAffiliateBlock {
		t.Error("Finance is not affiliate eligible")
	}
	if strings.Contains(doc.ProcessedHTML, "파트너스") {
		t.Errorf("hallucinated disclosure must be stripped without an affiliate block:\n%s", doc.ProcessedHTML)
	}
	if !strings.Contains(doc.ProcessedHTML, "official-link-card") {
		t.Error("official link card for 연말정산 missing")
	}
	if !strings.Contains(doc.ProcessedHTML, "hometax.go.kr") {
		t.Error("official link should point at 홈택스")
	}
	if strings.Contains(doc.ProcessedHTML, "post-disclaimer") {
		t.Error("disclaimer must not appear for categories that do not require it")
	}
}

func TestRun_ExclusionWinsOverEligibleCategory(t *testing.T) {
	p := testProcessor(t, &images.MockSearcher{})
	doc := &core.GeneratedDocument{
		Keyword:      "캠핑 사고 사망 원인",
		Title:        "캠핑 안전 수칙",
		RawModelText: `<h2>안전 수칙</h2><p>내용</p>[AFFILIATE]`,
	}

	cat := category.Category{Name: "Life", AffiliateEligible: true}
	if err := p.Run(context.Background(), doc, cat, 0); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if doc.HasAffiliateBlock {
		t.Error("excluded keyword terms must override category eligibility")
	}
	if strings.Contains(doc.ProcessedHTML, "affiliate") {
		t.Error("no affiliate markup may appear for excluded keywords")
	}
}

func TestRun_NoImageProviderStripsSlots(t *testing.T) {
	p := testProcessor(t, nil)
	doc := &core.GeneratedDocument{
		Keyword: "원룸 청소 꿀팁",
		Title:   "원룸 청소 꿀팁",
		RawModelText: `<h2>청소 순서</h2>
[IMAGE_1]
<!-- image: clean studio apartment -->
<p>위에서 아래로 청소합니다.</p>
[IMAGE_2]
<!-- image: cleaning supplies -->`,
	}

	if err := p.Run(context.Background(), doc, financeCategory(), 2); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Contains(doc.ProcessedHTML, "IMAGE_") {
		t.Error("image tokens must be stripped when no provider is configured")
	}
	if strings.Contains(doc.ProcessedHTML, "<figure") {
		t.Error("no figures should appear without a provider")
	}
}

func TestRun_ImageLookupFailureRemovesSlot(t *testing.T) {
	p := testProcessor(t, &images.MockSearcher{Err: context.DeadlineExceeded})
	doc := &core.GeneratedDocument{
		Keyword:      "노트북 추천",
		Title:        "노트북 추천",
		RawModelText: `<h2>추천 모델</h2>[IMAGE_1]<p>본문</p>`,
	}

	if err := p.Run(context.Background(), doc, financeCategory(), 1); err != nil {
		t.Fatalf("Run must not abort on image lookup failure: %v", err)
	}
	if strings.Contains(doc.ProcessedHTML, "IMAGE_1") {
		t.Error("failed slot must still be removed")
	}
}

func TestResolveImages_HeadingFallback(t *testing.T) {
	p := testProcessor(t, &images.MockSearcher{})
	// Two slots expected, but the model only emitted the first token.
	html := `<h2>첫 번째</h2><p>본문</p>[IMAGE_1]<h2>두 번째</h2><p>본문</p>`

	out := p.resolveImages(context.Background(), html, "캠핑 준비물", 2)
	if got := strings.Count(out, "<figure"); got != 2 {
		t.Fatalf("expected 2 figures (1 inline + 1 fallback), got %d:\n%s", got, out)
	}
	second := strings.Index(out, "<h2>두 번째</h2>")
	lastFigure := strings.LastIndex(out, "<figure")
	if lastFigure < second {
		t.Error("fallback figure should land after the second heading")
	}
}

func TestExtractMeta_SynthesizesDefault(t *testing.T) {
	html, excerpt := extractMeta("<p>본문만 있는 글</p>", "청약 가점 계산")
	if !strings.Contains(excerpt, "청약 가점 계산") {
		t.Errorf("synthesized excerpt should mention the keyword, got %q", excerpt)
	}
	if !strings.Contains(html, "본문만 있는 글") {
		t.Error("body must be untouched when no meta block exists")
	}
}

func TestNormalizeStyle(t *testing.T) {
	in := `<p style="">문단</p><blockquote>인용문</blockquote>`
	out := normalizeStyle(in)
	if strings.Contains(out, "<blockquote") {
		t.Error("blockquote should become a quote-box div")
	}
	if !strings.Contains(out, `class="quote-box"`) {
		t.Error("quote-box wrapper missing")
	}
	if strings.Contains(out, `style=""`) {
		t.Error("empty style attributes should be stripped")
	}
	if !strings.Contains(out, "인용문") {
		t.Error("quote content must survive the rewrite")
	}
}

func TestScrubPolicy_EmojiRunCap(t *testing.T) {
	p := testProcessor(t, nil)
	out := p.scrubPolicy("<p>대박 🎉🎉🎉🎉🎉 소식</p>")
	if strings.Contains(out, "🎉🎉🎉") {
		t.Errorf("emoji run should be capped at %d, got %q", maxEmojiRun, out)
	}
	if !strings.Contains(out, "🎉🎉") {
		t.Error("capped run should keep the leading emoji")
	}
}

func TestExtractTitle(t *testing.T) {
	raw := `<h1>연말정산 환급금, 이렇게 조회하세요</h1><p>본문</p>`
	if got := ExtractTitle(raw, "연말정산"); got != "연말정산 환급금, 이렇게 조회하세요" {
		t.Errorf("unexpected title %q", got)
	}
	if got := ExtractTitle("<p>제목 없는 글</p>", "청약"); !strings.Contains(got, "청약") {
		t.Errorf("fallback title should derive from the keyword, got %q", got)
	}
}
