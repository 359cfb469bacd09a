package template

import (
	"math/rand"
	"time"
)

// Selector picks a structural template for a generation. Selection is
// random within the category's pool but never repeats the immediately
// previous template id when the pool offers an alternative. The rand source
// is injected so tests can seed it.
type Selector struct {
	rng   *rand.Rand
	pools map[string][]Template
}

// NewSelector builds a selector over the built-in pools with a time-seeded
// source.
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSelectorWithSource builds a selector with an explicit rand source.
func NewSelectorWithSource(rng *rand.Rand) *Selector {
	return &Selector{rng: rng, pools: defaultPools()}
}

// Select draws a template for the category. lastUsedID is the template id
// chosen on the previous run for this category ("" when unknown); it is
// excluded from the draw when the effective pool has more than one member.
// The evergreen flag narrows the pool to evergreen-suited templates when
// any exist.
func (s *Selector) Select(category string, evergreen bool, lastUsedID string) Selection {
	pool := s.pools[category]
	if len(pool) == 0 {
		pool = s.pools["default"]
	}

	if evergreen {
		var filtered []Template
		for _, t := range pool {
			if t.Evergreen {
				filtered = append(filtered, t)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	if lastUsedID != "" && len(pool) > 1 {
		var filtered []Template
		for _, t := range pool {
			if t.ID != lastUsedID {
				filtered = append(filtered, t)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	tmpl := pool[s.rng.Intn(len(pool))]
	return Selection{
		Template:   tmpl,
		WordCount:  s.drawRange(tmpl.WordsMin, tmpl.WordsMax),
		ImageCount: s.drawRange(tmpl.ImagesMin, tmpl.ImagesMax),
		CTA:        CTAConfig{Position: tmpl.CTAPosition},
	}
}

func (s *Selector) drawRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}
