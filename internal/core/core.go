package core

import "time"

// DocumentStatus represents the terminal state of a generated document.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusPublished DocumentStatus = "published"
	StatusDiscarded DocumentStatus = "discarded"
)

// GeneratedDocument is the evolving artifact of one pipeline run. It is
// created after generation and mutated in place by each post-processing
// stage. A document is never shared across runs.
type GeneratedDocument struct {
	ID                string         `json:"id"`                 // Unique identifier for this run's document
	Keyword           string         `json:"keyword"`            // Topic keyword the document was generated for
	Title             string         `json:"title"`              // Article title
	RawModelText      string         `json:"raw_model_text"`     // Unmodified model output
	ProcessedHTML     string         `json:"processed_html"`     // HTML after post-processing stages
	Excerpt           string         `json:"excerpt"`            // Meta description extracted from the output
	Category          string         `json:"category"`           // Resolved category name
	CategoryID        int            `json:"category_id"`        // External CMS category identifier
	TemplateID        string         `json:"template_id"`        // Structural template used for generation
	HasAffiliateBlock bool           `json:"has_affiliate_block"` // Whether an affiliate block was inserted
	Sources           []string       `json:"sources"`            // URLs of context material used in the prompt
	Sections          []Section      `json:"sections"`           // Ordered sections split from ProcessedHTML
	Status            DocumentStatus `json:"status"`             // Terminal state of the document
	GeneratedAt       time.Time      `json:"generated_at"`       // When generation completed
}

// SectionType classifies a section by its outermost block element.
type SectionType string

const (
	SectionHeading   SectionType = "heading"
	SectionImage     SectionType = "image"
	SectionParagraph SectionType = "paragraph"
	SectionList      SectionType = "list"
	SectionTable     SectionType = "table"
	SectionQuote     SectionType = "quote"
)

// Section is one independently addressable block of the final HTML.
// Concatenating all sections in OrderIndex order reconstructs the
// document's visible content.
type Section struct {
	ID         string      `json:"id"`          // Unique identifier for the section
	OrderIndex int         `json:"order_index"` // Contiguous zero-based position in the document
	Type       SectionType `json:"type"`        // Block type derived from the outermost tag
	HTML       string      `json:"html"`        // Raw HTML of the block
}

// PublicationRecord is the history entry written after a successful
// publish. Records are keyed by keyword; a later record for the same
// keyword overwrites the earlier one.
type PublicationRecord struct {
	Keyword        string    `json:"keyword"`          // Topic keyword (unique key)
	Title          string    `json:"title"`            // Published article title
	ExternalPostID string    `json:"external_post_id"` // Post id assigned by the CMS
	URL            string    `json:"url"`              // Public URL of the post
	Category       string    `json:"category"`         // Category the post was filed under
	TemplateID     string    `json:"template_id"`      // Template used for generation
	Status         string    `json:"status"`           // publish or draft
	PublishedAt    time.Time `json:"published_at"`     // When the record was written
}

// ImageAsset describes one resolved image ready for figure substitution.
type ImageAsset struct {
	URL         string `json:"url"`         // Image URL
	Alt         string `json:"alt"`         // Alt text
	Attribution string `json:"attribution"` // Credit line required by the image source
}

// PublishResult is the structured outcome of a CMS publish call.
type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id"`
	URL     string `json:"url"`
	Error   string `json:"error,omitempty"`
}
