package prompt

import (
	"fmt"
	"strings"

	"postforge/internal/category"
	"postforge/internal/core"
	"postforge/internal/template"
)

// SystemInstructions is the persona sent to every generation backend.
const SystemInstructions = `당신은 10년차 한국어 블로그 전문 작가입니다. 독자가 끝까지 읽게 되는 친근하고 자연스러운 글을 씁니다.
출력은 HTML 본문만 작성하며, <html>/<head>/<body> 태그와 마크다운 코드 펜스는 절대 사용하지 않습니다.
지시된 플레이스홀더 토큰은 철자 그대로 정확히 출력합니다.`

const factualityInstruction = `아래 '참고 자료'에 포함된 사실만 사용해 작성하세요. 참고 자료에 없는 수치, 날짜, 인명, 사건은 추측해서 쓰지 마세요.`

const personTitleInstruction = `이 키워드는 인물입니다. 제목은 "이름 + 최근 이슈" 구조로 잡고, 본문 도입부는 해당 인물의 최근 근황/뉴스로 시작하세요.`

// Input carries everything the builder needs for one prompt. Identical
// inputs always produce identical prompt text; all randomness lives
// upstream in template and keyword selection.
type Input struct {
	Keyword   string
	Category  category.Category
	Selection template.Selection
	Context   string // collected news/trend/search excerpts, may be empty
	Evergreen bool
	IsPerson  bool
}

// Output is the assembled prompt plus the exact placeholder contract the
// model was instructed to honor.
type Output struct {
	Prompt       string
	System       string
	ImageSlots   int      // number of [IMAGE_n] tokens requested
	Placeholders []string // every token the model must emit
}

// Build assembles the full generation prompt.
func Build(in Input) Output {
	var b strings.Builder

	fmt.Fprintf(&b, "주제 키워드: %s\n", in.Keyword)
	fmt.Fprintf(&b, "콘텐츠 카테고리: %s\n\n", in.Category.Name)

	if in.IsPerson {
		b.WriteString(personTitleInstruction)
		b.WriteString("\n\n")
	}

	writeStructure(&b, in)
	writeContext(&b, in)
	writeContract(&b, in)

	return Output{
		Prompt:       b.String(),
		System:       SystemInstructions,
		ImageSlots:   in.Selection.ImageCount,
		Placeholders: contract(in.Selection.ImageCount),
	}
}

func writeStructure(b *strings.Builder, in Input) {
	sel := in.Selection
	b.WriteString("## 글 구조 요구사항\n")
	fmt.Fprintf(b, "- 분량: 약 %d 단어 (한국어 기준 공백 포함)\n", sel.WordCount)
	fmt.Fprintf(b, "- 서술 패턴: %s\n", patternDescription(sel.Template.PatternID))
	fmt.Fprintf(b, "- 소제목(h2) 4~6개로 본문을 나누세요.\n")
	if in.Evergreen {
		b.WriteString("- 시의성 표현(올해, 최근, 어제 등)은 피하고 언제 읽어도 유효한 서술을 유지하세요.\n")
	}
	switch sel.CTA.Position {
	case template.CTAAfterSecondSection:
		b.WriteString("- " + core.AffiliatePlaceholder + " 토큰은 두 번째 소제목 섹션이 끝난 직후 한 줄로 배치하세요.\n")
	default:
		b.WriteString("- " + core.AffiliatePlaceholder + " 토큰은 마무리 문단 직전에 한 줄로 배치하세요.\n")
	}
	b.WriteString("\n")
}

func writeContext(b *strings.Builder, in Input) {
	if strings.TrimSpace(in.Context) == "" {
		return
	}
	b.WriteString("## 참고 자료\n")
	b.WriteString(factualityInstruction)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(in.Context))
	b.WriteString("\n\n")
}

func writeContract(b *strings.Builder, in Input) {
	b.WriteString("## 출력 형식 (반드시 지킬 것)\n")
	fmt.Fprintf(b, "1. 글 맨 앞에 %s요약문 한 문장(80~120자)%s 형식으로 메타 설명을 정확히 한 번 출력하세요.\n",
		core.MetaOpen, core.MetaClose)
	fmt.Fprintf(b, "2. 본문 중간에 이미지 자리 토큰을 %d개, [IMAGE_1]부터 순서대로 배치하세요. 각 토큰 바로 다음 줄에 <!-- image: 영어 검색어 --> 주석으로 어울리는 사진 검색어를 적으세요.\n",
		in.Selection.ImageCount)
	fmt.Fprintf(b, "3. 공식 사이트 안내가 어울리는 위치에 %s 토큰을 한 번 배치하세요.\n", core.OfficialLinkPlaceholder)
	fmt.Fprintf(b, "4. 본문 마지막에 %s 토큰을 한 번 배치하세요.\n", core.DisclaimerPlaceholder)
	fmt.Fprintf(b, "5. 제휴 안내 문구는 %s문구%s 형식으로 감싸 한 번만 출력하세요.\n",
		core.AdNoticeOpen, core.AdNoticeClose)
	b.WriteString("6. 위 토큰 외의 대괄호 토큰이나 코드 펜스는 출력하지 마세요.\n")
}

func patternDescription(patternID string) string {
	switch patternID {
	case "numbered-tips":
		return "번호를 매긴 실전 팁 나열형 (도입 → 팁 N개 → 요약)"
	case "problem-solution":
		return "문제 제기 → 단계별 해결 가이드 → 마무리 점검"
	case "inverted-pyramid":
		return "핵심 사실 먼저, 배경과 상세는 뒤로 (뉴스 브리핑형)"
	case "question-answer":
		return "독자가 궁금해할 질문을 소제목으로 던지고 답하는 Q&A형"
	case "versus-table":
		return "선택지 비교형 (기준 제시 → 항목별 비교 → 추천)"
	default:
		return "도입 → 본론 → 마무리의 기본 구성"
	}
}

// contract lists every placeholder token the model is instructed to emit.
func contract(imageCount int) []string {
	tokens := []string{
		core.MetaOpen, core.MetaClose,
		core.OfficialLinkPlaceholder,
		core.AffiliatePlaceholder,
		core.DisclaimerPlaceholder,
		core.AdNoticeOpen, core.AdNoticeClose,
	}
	for i := 1; i <= imageCount; i++ {
		tokens = append(tokens, fmt.Sprintf(core.ImagePlaceholderFormat, i))
	}
	return tokens
}
