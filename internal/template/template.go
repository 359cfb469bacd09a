package template

// CTAPosition says where the call-to-action block lands in the article.
type CTAPosition string

const (
	CTAAfterSecondSection CTAPosition = "after-second-section"
	CTAEnd                CTAPosition = "end"
)

// Template is an immutable structural recipe for one generation. Word and
// image targets are ranges; the selector draws concrete targets per run so
// consecutive articles don't share an identical shape.
type Template struct {
	ID          string
	WordsMin    int
	WordsMax    int
	ImagesMin   int
	ImagesMax   int
	CTAPosition CTAPosition
	PatternID   string // intro/outro stylistic pattern
	Evergreen   bool   // suited for evergreen (non-dated) topics
}

// CTAConfig carries the call-to-action placement for the prompt builder and
// the affiliate stage.
type CTAConfig struct {
	Position CTAPosition
}

// Selection is one concrete draw from a template's design envelope.
type Selection struct {
	Template   Template
	WordCount  int // drawn word-count target
	ImageCount int // drawn image-count target
	CTA        CTAConfig
}

// defaultPools maps category names to their template pools. Categories
// without an entry use the "default" pool.
func defaultPools() map[string][]Template {
	listicle := Template{
		ID: "listicle", WordsMin: 1500, WordsMax: 2000,
		ImagesMin: 2, ImagesMax: 4,
		CTAPosition: CTAAfterSecondSection, PatternID: "numbered-tips", Evergreen: true,
	}
	guide := Template{
		ID: "step-guide", WordsMin: 1800, WordsMax: 2400,
		ImagesMin: 3, ImagesMax: 5,
		CTAPosition: CTAEnd, PatternID: "problem-solution", Evergreen: true,
	}
	briefing := Template{
		ID: "news-briefing", WordsMin: 1200, WordsMax: 1600,
		ImagesMin: 1, ImagesMax: 3,
		CTAPosition: CTAEnd, PatternID: "inverted-pyramid",
	}
	qna := Template{
		ID: "qna", WordsMin: 1400, WordsMax: 1900,
		ImagesMin: 2, ImagesMax: 3,
		CTAPosition: CTAAfterSecondSection, PatternID: "question-answer", Evergreen: true,
	}
	comparison := Template{
		ID: "comparison", WordsMin: 1600, WordsMax: 2200,
		ImagesMin: 2, ImagesMax: 4,
		CTAPosition: CTAEnd, PatternID: "versus-table", Evergreen: true,
	}

	return map[string][]Template{
		"default":       {listicle, guide, briefing, qna},
		"Finance":       {guide, qna, briefing},
		"Policy":        {guide, qna, briefing},
		"Life":          {listicle, guide, comparison},
		"IT":            {comparison, listicle, briefing},
		"Entertainment": {briefing, listicle},
		"Trend":         {briefing, listicle, qna},
	}
}
