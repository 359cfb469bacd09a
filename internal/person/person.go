package person

import (
	"strings"
	"unicode"
)

// Detector decides whether a keyword refers to a person. The heuristic is
// deliberately conservative: a false negative only costs a generic title
// style, while a false positive skews the whole article framing.
type Detector struct {
	stopwords    map[string]struct{}
	occupations  []string
	knownFigures map[string]struct{}
}

// Common Hangul nouns that fit the name shape but are not names. Includes
// surname-prefixed nouns the family-name check alone would pass.
var defaultStopwords = []string{
	"오늘", "내일", "날씨", "주식", "환율", "부동산", "여행", "맛집",
	"운동", "영화", "음악", "게임", "요리", "청소", "건강", "다이어트",
	"강아지", "이사철", "장바구니", "조미료", "조회수", "정리함",
	"안마기", "한가위",
}

// Frequent Korean family names. The bare name pattern only fires when the
// keyword starts with one; everything else needs an occupational or
// known-figure signal. Favoring false negatives here is intentional: a
// missed person only costs a generic title style, while a false positive
// skews the whole article framing.
var defaultSurnames = []string{
	"김", "이", "박", "최", "정", "강", "조", "윤", "장", "임",
	"한", "오", "서", "신", "권", "황", "안", "송", "전", "홍",
}

// Two-syllable family names, matched against four-syllable keywords.
var defaultDoubleSurnames = []string{"남궁", "선우", "황보", "제갈", "독고"}

// Occupational title substrings that mark a person-centric keyword.
var defaultOccupations = []string{
	"배우", "가수", "선수", "감독", "의원", "장관", "교수", "대표",
	"아나운서", "코치", "작가", "회장",
	"actor", "actress", "singer", "senator", "coach", "ceo",
}

// Maintained list of public figures the short-name pattern alone would miss
// or that carry non-Hangul spellings.
var defaultKnownFigures = []string{
	"손흥민", "김연아", "이강인", "봉준호", "아이유", "유재석", "페이커",
}

// NewDetector builds a detector with the built-in lists plus any extra
// known figures from config.
func NewDetector(extraFigures []string) *Detector {
	d := &Detector{
		stopwords:    make(map[string]struct{}),
		occupations:  defaultOccupations,
		knownFigures: make(map[string]struct{}),
	}
	for _, w := range defaultStopwords {
		d.stopwords[w] = struct{}{}
	}
	for _, f := range defaultKnownFigures {
		d.knownFigures[strings.ToLower(f)] = struct{}{}
	}
	for _, f := range extraFigures {
		d.knownFigures[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	return d
}

// IsPerson reports whether the keyword refers to a person: a known public
// figure, an occupational-title keyword, or a bare Hangul full name
// (family name plus two given syllables) not on the stoplist.
func (d *Detector) IsPerson(keyword string) bool {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return false
	}
	lowered := strings.ToLower(trimmed)

	if _, ok := d.knownFigures[lowered]; ok {
		return true
	}

	for _, occ := range d.occupations {
		if strings.Contains(lowered, occ) {
			return true
		}
	}

	return d.looksLikeFullName(trimmed)
}

// looksLikeFullName matches a single token of three Hangul syllables with a
// family-name first syllable, or four syllables with a two-syllable family
// name. Two-syllable keywords are always rejected: a surname plus one
// syllable collides with too many common nouns.
func (d *Detector) looksLikeFullName(keyword string) bool {
	if strings.ContainsAny(keyword, " \t") {
		return false
	}
	runes := []rune(keyword)
	for _, r := range runes {
		if !unicode.Is(unicode.Hangul, r) {
			return false
		}
	}
	if _, stopped := d.stopwords[keyword]; stopped {
		return false
	}

	switch len(runes) {
	case 3:
		first := string(runes[0])
		for _, s := range defaultSurnames {
			if first == s {
				return true
			}
		}
	case 4:
		prefix := string(runes[:2])
		for _, s := range defaultDoubleSurnames {
			if prefix == s {
				return true
			}
		}
	}
	return false
}
