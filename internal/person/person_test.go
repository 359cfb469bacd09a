package person

import "testing"

func TestIsPerson(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		keyword string
		want    bool
	}{
		{"손흥민", true},         // known figure
		{"김연아", true},         // known figure
		{"배우 박보검", true},      // occupational title
		{"신임 장관 후보", true},    // occupational title
		{"김민재", true},         // family name + given name
		{"남궁민", false},        // ambiguous surname split stays non-person
		{"남궁민수", true},        // two-syllable surname full name
		{"날씨", false},         // stoplist
		{"다이어트", false},       // stoplist
		{"연말정산 환급", false},    // multi-token phrase
		{"아이폰17", false},      // non-Hangul rune
		{"대한민국경제전망", false},   // too long for a name
		{"", false},
	}

	for _, tt := range tests {
		if got := d.IsPerson(tt.keyword); got != tt.want {
			t.Errorf("IsPerson(%q) = %v, want %v", tt.keyword, got, tt.want)
		}
	}
}

func TestIsPerson_ExtraFigures(t *testing.T) {
	d := NewDetector([]string{"우리회사대표님"})

	if !d.IsPerson("우리회사대표님") {
		t.Error("extra figures from config should be recognized")
	}
}

func TestIsPerson_ConservativeOnAmbiguity(t *testing.T) {
	d := NewDetector(nil)

	// Ordinary topic nouns must stay non-person even when they fit the
	// short-name shape; false negatives are the cheap direction.
	common := []string{
		"주식", "부동산", "맛집", "여행",
		"지원금", "환급금", "넷플릭스", "영양제", "보조금", "노트북", "자격증",
		"강아지", "이사철", "정리함", "조회수",
	}
	for _, kw := range common {
		if d.IsPerson(kw) {
			t.Errorf("common noun %q misclassified as person", kw)
		}
	}
}
