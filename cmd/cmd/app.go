package cmd

import (
	"fmt"

	"postforge/internal/affiliate"
	"postforge/internal/category"
	"postforge/internal/cms"
	"postforge/internal/config"
	"postforge/internal/history"
	"postforge/internal/images"
	"postforge/internal/links"
	"postforge/internal/llmclient"
	"postforge/internal/logger"
	"postforge/internal/person"
	"postforge/internal/pipeline"
	"postforge/internal/postprocess"
	"postforge/internal/sources"
	"postforge/internal/template"
)

// app holds the wired pipeline and everything that needs closing.
type app struct {
	pipeline *pipeline.Pipeline
	history  *history.Store

	closers []func() error
}

// newApp wires the full pipeline from configuration. Optional collaborators
// (search, images) degrade to nil with a warning; required ones (generator,
// CMS unless dry-run) fail construction.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{}

	categories, err := category.LoadCategories(cfg.Content.CategoriesFile)
	if err != nil {
		return nil, err
	}
	classifier := category.NewClassifier(categories)

	store, err := history.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	a.history = store
	a.closers = append(a.closers, store.Close)

	generator, err := llmclient.New(cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	if closer, ok := generator.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	linkTable, err := links.Load(cfg.Content.OfficialLinksFile)
	if err != nil {
		a.close()
		return nil, err
	}

	affiliates, err := affiliate.NewResolver(cfg.Content.ProductsFile, cfg.Content.AffiliateTag)
	if err != nil {
		a.close()
		return nil, err
	}

	searcher, err := images.New(cfg.Images)
	if err != nil {
		logger.Warn("image provider unavailable, image slots will be stripped", "error", err.Error())
		searcher = nil
	}

	var publisher cms.Publisher
	if dryRun {
		publisher = &cms.MockPublisher{}
	} else {
		client, err := cms.NewClient(cfg.CMS)
		if err != nil {
			a.close()
			return nil, err
		}
		publisher = client
	}

	var contextBuilder *sources.ContextBuilder
	provider, err := sources.NewProvider(cfg.Search.Provider, cfg.Search.Google.APIKey, cfg.Search.Google.SearchID)
	if err != nil {
		logger.Warn("search provider unavailable, generating without reference material", "error", err.Error())
	} else {
		contextBuilder = sources.NewContextBuilder(provider, cfg.Search.MaxResults, "ko")
	}

	a.pipeline = pipeline.New(pipeline.Deps{
		Classifier: classifier,
		Templates:  template.NewSelector(),
		Generator:  generator,
		Processor: postprocess.New(postprocess.Deps{
			Images:     searcher,
			Links:      linkTable,
			Affiliates: affiliates,
			Banned:     cfg.Content.BannedPhrases,
		}),
		Publisher:  publisher,
		History:    store,
		Context:    contextBuilder,
		Persons:    person.NewDetector(nil),
		MaxTokens:  cfg.AI.MaxTokens,
		WindowDays: cfg.Content.HistoryWindowDays,
	})
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("cleanup failed", "error", err.Error())
		}
	}
}
