package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"postforge/internal/category"
	"postforge/internal/cms"
	"postforge/internal/core"
	"postforge/internal/history"
	"postforge/internal/llmclient"
	"postforge/internal/logger"
	"postforge/internal/person"
	"postforge/internal/postprocess"
	"postforge/internal/prompt"
	"postforge/internal/sections"
	"postforge/internal/sources"
	"postforge/internal/template"
)

// ErrRecentlyPublished marks a keyword skipped by the duplicate-history
// guard. Batch runs count it as a skip, not a failure.
var ErrRecentlyPublished = errors.New("keyword was recently published")

// Pipeline runs one keyword end to end: classification, template
// selection, prompt assembly, generation, post-processing, section split,
// publish, history record. Stages form a strict dependency chain, so one
// document is processed at a time.
type Pipeline struct {
	classifier *category.Classifier
	templates  *template.Selector
	generator  llmclient.Generator
	processor  *postprocess.Processor
	publisher  cms.Publisher
	history    *history.Store
	context    *sources.ContextBuilder
	persons    *person.Detector

	maxTokens  int32
	windowDays int
}

// Deps bundles the pipeline's collaborators.
type Deps struct {
	Classifier *category.Classifier
	Templates  *template.Selector
	Generator  llmclient.Generator
	Processor  *postprocess.Processor
	Publisher  cms.Publisher
	History    *history.Store
	Context    *sources.ContextBuilder
	Persons    *person.Detector

	MaxTokens  int32
	WindowDays int
}

// New wires a pipeline from its collaborators.
func New(deps Deps) *Pipeline {
	maxTokens := deps.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	windowDays := deps.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Pipeline{
		classifier: deps.Classifier,
		templates:  deps.Templates,
		generator:  deps.Generator,
		processor:  deps.Processor,
		publisher:  deps.Publisher,
		history:    deps.History,
		context:    deps.Context,
		persons:    deps.Persons,
		maxTokens:  maxTokens,
		windowDays: windowDays,
	}
}

// Options tune a single run.
type Options struct {
	CategoryOverride string // force a category by name
	Evergreen        bool   // prefer evergreen templates and phrasing
	Force            bool   // bypass the duplicate-history guard
	DryRun           bool   // stop before publish, keep the document
	Draft            bool   // publish as draft instead of live
}

// ProcessKeyword runs the whole chain for one keyword. The history record
// is written only after a successful publish; any earlier failure leaves
// history untouched.
func (p *Pipeline) ProcessKeyword(ctx context.Context, keyword string, opts Options) (*core.GeneratedDocument, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is empty")
	}

	if !opts.Force && p.history != nil {
		if p.history.IsPublished(keyword, p.windowDays) || p.history.IsSimilar(keyword, p.windowDays) {
			return nil, fmt.Errorf("%q: %w", keyword, ErrRecentlyPublished)
		}
	}

	cat := p.classifier.Classify(keyword, opts.CategoryOverride)
	selection := p.templates.Select(cat.Name, opts.Evergreen, p.lastTemplateFor(cat.Name))
	logger.Info("keyword classified",
		"keyword", keyword, "category", cat.Name, "template", selection.Template.ID)

	var contextText string
	var sourceURLs []string
	if p.context != nil {
		contextText, sourceURLs = p.context.Summarize(ctx, keyword)
	}

	isPerson := p.persons != nil && p.persons.IsPerson(keyword)

	built := prompt.Build(prompt.Input{
		Keyword:   keyword,
		Category:  cat,
		Selection: selection,
		Context:   contextText,
		Evergreen: opts.Evergreen,
		IsPerson:  isPerson,
	})

	raw, err := p.generator.Generate(ctx, built.Prompt, built.System, p.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generation failed for %q: %w", keyword, err)
	}

	doc := &core.GeneratedDocument{
		ID:           uuid.NewString(),
		Keyword:      keyword,
		Title:        postprocess.ExtractTitle(raw, keyword),
		RawModelText: raw,
		Category:     cat.Name,
		CategoryID:   cat.CMSID,
		TemplateID:   selection.Template.ID,
		Sources:      sourceURLs,
		Status:       core.StatusDraft,
		GeneratedAt:  time.Now().UTC(),
	}

	if err := p.processor.Run(ctx, doc, cat, built.ImageSlots); err != nil {
		return nil, fmt.Errorf("post-processing failed for %q: %w", keyword, err)
	}
	doc.Sections = sections.Split(doc.ProcessedHTML)

	if opts.DryRun {
		logger.Info("dry run, skipping publish", "keyword", keyword, "sections", len(doc.Sections))
		return doc, nil
	}

	return doc, p.publish(ctx, doc, opts)
}

// SelectCandidates filters candidate keywords through the duplicate-history
// guard, preserving order, and returns up to want fresh keywords. Filtered
// candidates are replaced from further down the list rather than shrinking
// the result. want <= 0 means no cap.
func (p *Pipeline) SelectCandidates(candidates []string, want int) []string {
	var selected []string
	for _, kw := range candidates {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if p.history != nil && (p.history.IsPublished(kw, p.windowDays) || p.history.IsSimilar(kw, p.windowDays)) {
			logger.Debug("candidate filtered by history", "keyword", kw)
			continue
		}
		selected = append(selected, kw)
		if want > 0 && len(selected) >= want {
			break
		}
	}
	return selected
}

// publish sends the document to the CMS and records history on success.
func (p *Pipeline) publish(ctx context.Context, doc *core.GeneratedDocument, opts Options) error {
	status := "publish"
	if opts.Draft {
		status = "draft"
	}

	result := p.publisher.Publish(ctx, cms.Post{
		Title:      doc.Title,
		HTML:       doc.ProcessedHTML,
		Excerpt:    doc.Excerpt,
		Status:     status,
		CategoryID: doc.CategoryID,
		Tags:       []string{doc.Keyword},
	})
	if !result.Success {
		doc.Status = core.StatusDiscarded
		return fmt.Errorf("publish failed for %q: %s", doc.Keyword, result.Error)
	}

	doc.Status = core.StatusPublished
	if opts.Draft {
		doc.Status = core.StatusDraft
	}
	logger.Info("post published",
		"keyword", doc.Keyword, "post_id", result.PostID, "url", result.URL, "status", status)

	if p.history != nil {
		rec := core.PublicationRecord{
			Keyword:        doc.Keyword,
			Title:          doc.Title,
			ExternalPostID: result.PostID,
			URL:            result.URL,
			Category:       doc.Category,
			TemplateID:     doc.TemplateID,
			Status:         status,
			PublishedAt:    time.Now().UTC(),
		}
		if err := p.history.Record(rec); err != nil {
			// The post is live; a failed record only weakens future dedup.
			logger.Warn("failed to record publication history",
				"keyword", doc.Keyword, "error", err.Error())
		}
	}
	return nil
}

// lastTemplateFor returns the template id of the most recent publication
// in the category, for the anti-repetition draw. History trouble degrades
// to no exclusion.
func (p *Pipeline) lastTemplateFor(categoryName string) string {
	if p.history == nil {
		return ""
	}
	recent, err := p.history.Recent(p.windowDays)
	if err != nil {
		return ""
	}
	for _, rec := range recent {
		if rec.Category == categoryName {
			return rec.TemplateID
		}
	}
	return ""
}
