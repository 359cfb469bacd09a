package pipeline

import (
	"context"
	"errors"
	"fmt"

	"postforge/internal/logger"
)

// KeywordResult is the outcome of one keyword in a batch.
type KeywordResult struct {
	Keyword string
	Title   string
	Skipped bool
	Err     error
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Processed int
	Published int
	Skipped   int
	Failed    int
	Results   []KeywordResult
}

// Err reports overall batch failure. Individual failures are carried in the
// results but the run as a whole only fails when nothing published; skips
// never count against it.
func (r BatchReport) Err() error {
	if r.Failed > 0 && r.Published == 0 {
		return fmt.Errorf("all %d attempted keywords failed", r.Failed)
	}
	return nil
}

// RunBatch processes keywords strictly one at a time. A failure on one
// keyword never aborts the batch: it is logged, counted, and the loop
// moves on. Duplicate-guard skips count separately from failures.
func (p *Pipeline) RunBatch(ctx context.Context, keywords []string, opts Options) BatchReport {
	var report BatchReport

	for _, keyword := range keywords {
		report.Processed++
		doc, err := p.ProcessKeyword(ctx, keyword, opts)

		result := KeywordResult{Keyword: keyword, Err: err}
		switch {
		case errors.Is(err, ErrRecentlyPublished):
			result.Skipped = true
			report.Skipped++
			logger.Info("keyword skipped by history guard", "keyword", keyword)
		case err != nil:
			report.Failed++
			logger.Error("keyword failed", err, "keyword", keyword)
		default:
			report.Published++
			result.Title = doc.Title
		}
		report.Results = append(report.Results, result)
	}
	return report
}
