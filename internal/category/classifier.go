package category

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Classifier maps keywords to categories using substring rules with a
// heuristic fallback. Classification is pure: static config plus input.
type Classifier struct {
	categories []Category
}

// NewClassifier builds a classifier over the given category set, falling
// back to the built-in set when none is provided.
func NewClassifier(categories []Category) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &Classifier{categories: categories}
}

// LoadCategories reads a category set from a YAML file. An empty path
// returns the built-in defaults.
func LoadCategories(path string) ([]Category, error) {
	if path == "" {
		return DefaultCategories(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	var cats []Category
	if err := yaml.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("parse categories file: %w", err)
	}
	if len(cats) == 0 {
		return DefaultCategories(), nil
	}
	return cats, nil
}

// indicatorGroup maps loose semantic signals to a category name. Checked
// only when no configured keyword matched.
type indicatorGroup struct {
	category   string
	indicators []string
}

var indicatorGroups = []indicatorGroup{
	{"Finance", []string{"세액", "공제", "납부", "이자", "펀드", "코인", "tax", "invest"}},
	{"Policy", []string{"신청", "접수", "지급", "대상자", "자격요건", "benefit"}},
	{"Life", []string{"하는법", "어떻게", "준비물", "순서", "how to"}},
}

// Classify resolves a keyword to exactly one category. The override, when
// non-empty and known, wins outright. Matching is case-insensitive and
// checks containment in both directions; ties break on the lowest priority
// number. Unmatched keywords fall through indicator groups and finally to
// the default category, so classification never fails.
func (c *Classifier) Classify(keyword, override string) Category {
	if override != "" {
		if cat := ByName(override, c.categories); cat != nil {
			return *cat
		}
	}

	lowered := strings.ToLower(strings.TrimSpace(keyword))
	if lowered == "" {
		return defaultOf(c.categories)
	}

	var best *Category
	for i := range c.categories {
		cat := &c.categories[i]
		if cat.Default {
			continue
		}
		if !matchesAny(lowered, cat.Keywords) {
			continue
		}
		if best == nil || cat.Priority < best.Priority {
			best = cat
		}
	}
	if best != nil {
		return *best
	}

	for _, group := range indicatorGroups {
		if matchesAny(lowered, group.indicators) {
			if cat := ByName(group.category, c.categories); cat != nil {
				return *cat
			}
		}
	}

	return defaultOf(c.categories)
}

// Categories returns the configured category set.
func (c *Classifier) Categories() []Category {
	return c.categories
}

func matchesAny(keyword string, candidates []string) bool {
	for _, cand := range candidates {
		cand = strings.ToLower(cand)
		if cand == "" {
			continue
		}
		if strings.Contains(keyword, cand) || strings.Contains(cand, keyword) {
			return true
		}
	}
	return false
}
