package category

import "strings"

// Category describes one content category with its CMS mapping and
// content-policy flags.
type Category struct {
	Name               string   `yaml:"name"`
	CMSID              int      `yaml:"cms_id"`              // Numeric category id on the publishing backend
	Priority           int      `yaml:"priority"`            // Lower number wins when several categories match
	Keywords           []string `yaml:"keywords"`            // Substrings matched against the input keyword
	AffiliateEligible  bool     `yaml:"affiliate_eligible"`  // Whether commerce blocks may be inserted
	RequiresDisclaimer bool     `yaml:"requires_disclaimer"` // Whether a disclaimer block is mandatory
	Default            bool     `yaml:"default"`             // Catch-all category, skipped during matching
}

// DefaultCategories returns the built-in category set. Keyword lists mix
// Korean and English because the pipeline targets Korean-language topics
// with occasional loanword keywords.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:     "Finance",
			CMSID:    12,
			Priority: 1,
			Keywords: []string{
				"연말정산", "환급", "세금", "연금", "청약", "대출", "금리",
				"주식", "투자", "적금", "예금", "재테크", "소득공제",
			},
		},
		{
			Name:               "Policy",
			CMSID:              13,
			Priority:           2,
			RequiresDisclaimer: true,
			Keywords: []string{
				"지원금", "보조금", "신청방법", "복지", "수당", "바우처",
				"정부지원", "혜택", "급여", "정책",
			},
		},
		{
			Name:               "Health",
			CMSID:              17,
			Priority:           3,
			AffiliateEligible:  true,
			RequiresDisclaimer: true,
			Keywords: []string{
				"건강", "다이어트", "영양제", "운동", "증상", "효능", "질환",
			},
		},
		{
			Name:              "IT",
			CMSID:             14,
			Priority:          4,
			AffiliateEligible: true,
			Keywords: []string{
				"아이폰", "갤럭시", "노트북", "앱", "어플", "ai", "챗gpt",
				"윈도우", "맥북", "스마트폰",
			},
		},
		{
			Name:     "Entertainment",
			CMSID:    15,
			Priority: 5,
			Keywords: []string{
				"드라마", "영화", "아이돌", "콘서트", "예능", "넷플릭스", "ott",
			},
		},
		{
			Name:     "Career",
			CMSID:    18,
			Priority: 6,
			Keywords: []string{
				"취업", "이직", "면접", "자격증", "연봉", "채용", "자소서",
			},
		},
		{
			Name:              "Life",
			CMSID:             16,
			Priority:          7,
			AffiliateEligible: true,
			Keywords: []string{
				"방법", "후기", "추천", "꿀팁", "정리", "비교", "요리", "청소",
			},
		},
		{
			Name:              "Trend",
			CMSID:             11,
			Priority:          99,
			AffiliateEligible: true,
			Default:           true,
		},
	}
}

// ByName returns the category with the given name, or nil.
func ByName(name string, categories []Category) *Category {
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i]
		}
	}
	return nil
}

// defaultOf returns the category marked as the catch-all, falling back to
// the last entry so the classifier stays total even on a bad config.
func defaultOf(categories []Category) Category {
	for _, c := range categories {
		if c.Default {
			return c
		}
	}
	return categories[len(categories)-1]
}
