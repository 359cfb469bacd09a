package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"postforge/internal/affiliate"
	"postforge/internal/category"
	"postforge/internal/cms"
	"postforge/internal/core"
	"postforge/internal/history"
	"postforge/internal/images"
	"postforge/internal/links"
	"postforge/internal/llmclient"
	"postforge/internal/person"
	"postforge/internal/postprocess"
	"postforge/internal/template"
)

// fakeGenerator returns a canned article and can fail for chosen keywords.
type fakeGenerator struct {
	calls    int
	failFor  map[string]bool
	lastText string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt, system string, maxTokens int32) (string, error) {
	f.calls++
	for kw := range f.failFor {
		if strings.Contains(prompt, kw) {
			return "", fmt.Errorf("%w: canned failure", llmclient.ErrBackend)
		}
	}
	f.lastText = `[META]테스트 요약문입니다.[/META]
<h1>테스트 제목</h1>
<h2>첫 번째 소제목</h2>
[IMAGE_1]
<p>첫 문단입니다.</p>
<h2>두 번째 소제목</h2>
<p>둘째 문단입니다.</p>
[OFFICIAL_LINK]
[AFFILIATE]
[DISCLAIMER]`
	return f.lastText, nil
}

func newTestPipeline(t *testing.T, gen llmclient.Generator, pub cms.Publisher) (*Pipeline, *history.Store) {
	t.Helper()

	store, err := history.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	linkTable, err := links.Load("")
	if err != nil {
		t.Fatalf("links.Load failed: %v", err)
	}
	resolver, err := affiliate.NewResolver("", "")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	p := New(Deps{
		Classifier: category.NewClassifier(nil),
		Templates:  template.NewSelectorWithSource(rand.New(rand.NewSource(1))),
		Generator:  gen,
		Processor: postprocess.New(postprocess.Deps{
			Images:     &images.MockSearcher{},
			Links:      linkTable,
			Affiliates: resolver,
			Rand:       rand.New(rand.NewSource(1)),
		}),
		Publisher:  pub,
		History:    store,
		Persons:    person.NewDetector(nil),
		WindowDays: 7,
	})
	return p, store
}

func TestProcessKeyword_PublishesAndRecords(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: true, PostID: "77", URL: "https://blog.example.com/?p=77"}}
	p, store := newTestPipeline(t, gen, pub)

	doc, err := p.ProcessKeyword(context.Background(), "연말정산 환급 조회", Options{})
	if err != nil {
		t.Fatalf("ProcessKeyword failed: %v", err)
	}

	if doc.Status != core.StatusPublished {
		t.Errorf("expected published status, got %s", doc.Status)
	}
	if doc.Category != "Finance" {
		t.Errorf("expected Finance classification, got %s", doc.Category)
	}
	if doc.Title != "테스트 제목" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	if len(doc.Sections) == 0 {
		t.Error("document should be split into sections")
	}
	if len(pub.Calls) != 1 {
		t.Fatalf("expected 1 publish call, got %d", len(pub.Calls))
	}
	if pub.Calls[0].CategoryID != 12 {
		t.Errorf("publish should carry the CMS category id, got %d", pub.Calls[0].CategoryID)
	}
	if !store.IsPublished("연말정산 환급 조회", 7) {
		t.Error("successful publish must be recorded in history")
	}
}

func TestProcessKeyword_PublishFailureLeavesHistoryUntouched(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: false, Error: "cms rejected post: status 401"}}
	p, store := newTestPipeline(t, gen, pub)

	_, err := p.ProcessKeyword(context.Background(), "연말정산 환급 조회", Options{})
	if err == nil {
		t.Fatal("expected publish failure to surface")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the CMS failure, got %v", err)
	}
	if store.IsPublished("연말정산 환급 조회", 7) {
		t.Error("failed publish must not write a history record")
	}
}

func TestProcessKeyword_DuplicateGuard(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: true, PostID: "1"}}
	p, store := newTestPipeline(t, gen, pub)

	if err := store.Record(core.PublicationRecord{Keyword: "청약 가점 계산", Title: "청약 가점 계산 방법"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	_, err := p.ProcessKeyword(context.Background(), "청약 가점 계산", Options{})
	if !errors.Is(err, ErrRecentlyPublished) {
		t.Fatalf("expected ErrRecentlyPublished, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("guard must skip before generation")
	}

	// Force bypasses the guard.
	if _, err := p.ProcessKeyword(context.Background(), "청약 가점 계산", Options{Force: true}); err != nil {
		t.Fatalf("forced run failed: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("forced run should generate, got %d calls", gen.calls)
	}
}

func TestProcessKeyword_DryRunSkipsPublish(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: true, PostID: "1"}}
	p, store := newTestPipeline(t, gen, pub)

	doc, err := p.ProcessKeyword(context.Background(), "갤럭시 노트북 추천", Options{DryRun: true})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if len(pub.Calls) != 0 {
		t.Error("dry run must not call the publisher")
	}
	if store.IsPublished("갤럭시 노트북 추천", 7) {
		t.Error("dry run must not write history")
	}
	if doc.ProcessedHTML == "" || len(doc.Sections) == 0 {
		t.Error("dry run should still produce the processed document")
	}
}

func TestProcessKeyword_DraftStatus(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: true, PostID: "5"}}
	p, _ := newTestPipeline(t, gen, pub)

	doc, err := p.ProcessKeyword(context.Background(), "전세 계약 주의사항", Options{Draft: true})
	if err != nil {
		t.Fatalf("draft run failed: %v", err)
	}
	if doc.Status != core.StatusDraft {
		t.Errorf("expected draft status, got %s", doc.Status)
	}
	if pub.Calls[0].Status != "draft" {
		t.Errorf("publisher should receive draft status, got %s", pub.Calls[0].Status)
	}
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	gen := &fakeGenerator{failFor: map[string]bool{"실패 키워드": true}}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: true, PostID: "9"}}
	p, store := newTestPipeline(t, gen, pub)

	if err := store.Record(core.PublicationRecord{Keyword: "이미 발행됨", Title: "이미 발행됨"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	report := p.RunBatch(context.Background(), []string{"새 키워드", "실패 키워드", "이미 발행됨"}, Options{})

	if report.Processed != 3 {
		t.Errorf("processed = %d, want 3", report.Processed)
	}
	if report.Published != 1 {
		t.Errorf("published = %d, want 1", report.Published)
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", report.Skipped)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	if report.Results[1].Err == nil || report.Results[1].Skipped {
		t.Error("second keyword should be a failure, not a skip")
	}
	if report.Err() != nil {
		t.Errorf("a batch with a successful publish must not fail overall: %v", report.Err())
	}
}

func TestRunBatch_FailsOnlyWhenNothingPublished(t *testing.T) {
	gen := &fakeGenerator{failFor: map[string]bool{"실패 하나": true, "실패 둘": true}}
	pub := &cms.MockPublisher{Result: core.PublishResult{Success: true, PostID: "9"}}
	p, store := newTestPipeline(t, gen, pub)

	report := p.RunBatch(context.Background(), []string{"실패 하나", "실패 둘"}, Options{})
	if report.Err() == nil {
		t.Error("a batch where every keyword failed must report failure")
	}

	// Skips alone are not failures.
	if err := store.Record(core.PublicationRecord{Keyword: "이미 발행됨", Title: "이미 발행됨"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	report = p.RunBatch(context.Background(), []string{"이미 발행됨"}, Options{})
	if report.Err() != nil {
		t.Errorf("an all-skip batch must not fail overall: %v", report.Err())
	}
}

func TestSelectCandidates_TopsUpPastPublished(t *testing.T) {
	p, store := newTestPipeline(t, &fakeGenerator{}, &cms.MockPublisher{})

	if err := store.Record(core.PublicationRecord{Keyword: "연말정산 환급", Title: "연말정산 환급 방법"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	candidates := []string{"연말정산 환급", "청약 가점 계산", "전세 보증보험", "실업급여 조건"}
	selected := p.SelectCandidates(candidates, 2)

	if len(selected) != 2 {
		t.Fatalf("expected 2 fresh candidates, got %d: %v", len(selected), selected)
	}
	if selected[0] != "청약 가점 계산" || selected[1] != "전세 보증보험" {
		t.Errorf("published candidate should be replaced by the next fresh one, got %v", selected)
	}
}

func TestProcessKeyword_EmptyKeyword(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeGenerator{}, &cms.MockPublisher{Result: core.PublishResult{Success: true}})
	if _, err := p.ProcessKeyword(context.Background(), "   ", Options{}); err == nil {
		t.Error("blank keyword must be rejected")
	}
}
