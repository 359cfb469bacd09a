package core

import "regexp"

// Placeholder tokens the prompt instructs the model to emit. Every token
// present in the output contract must be resolved or removed before a
// document leaves post-processing.
const (
	// ImagePlaceholderFormat is the numbered image slot, e.g. [IMAGE_1].
	ImagePlaceholderFormat = "[IMAGE_%d]"
	// OfficialLinkPlaceholder marks where an official-site link card goes.
	OfficialLinkPlaceholder = "[OFFICIAL_LINK]"
	// AffiliatePlaceholder marks where the affiliate/commerce block goes.
	AffiliatePlaceholder = "[AFFILIATE]"
	// DisclaimerPlaceholder marks where a category disclaimer goes.
	DisclaimerPlaceholder = "[DISCLAIMER]"
	// AdNoticeOpen and AdNoticeClose delimit the model's own affiliate
	// disclosure sentence so it can be replaced or stripped wholesale.
	AdNoticeOpen  = "[AD_NOTICE]"
	AdNoticeClose = "[/AD_NOTICE]"
	// MetaOpen and MetaClose delimit the meta-description block.
	MetaOpen  = "[META]"
	MetaClose = "[/META]"
)

var (
	// ImagePlaceholderPattern matches any numbered image slot and captures
	// its index.
	ImagePlaceholderPattern = regexp.MustCompile(`\[IMAGE_(\d+)\]`)
	// ImageHintPattern matches the HTML comment the model emits right after
	// an image slot describing the desired picture. The hint doubles as the
	// image search query.
	ImageHintPattern = regexp.MustCompile(`<!--\s*image:([^>]*?)-->`)
	// AdNoticePattern matches a whole delimited affiliate-disclosure block.
	AdNoticePattern = regexp.MustCompile(`(?s)\[AD_NOTICE\].*?\[/AD_NOTICE\]`)
	// MetaPattern matches the delimited meta-description block and captures
	// its body.
	MetaPattern = regexp.MustCompile(`(?s)\[META\](.*?)\[/META\]`)
	// AnyPlaceholderPattern matches every token of the output contract; the
	// residual sweep uses it to guarantee zero leaked tokens.
	AnyPlaceholderPattern = regexp.MustCompile(`\[(?:IMAGE_\d+|OFFICIAL_LINK|AFFILIATE|DISCLAIMER|AD_NOTICE|/AD_NOTICE|META|/META)\]`)
)
