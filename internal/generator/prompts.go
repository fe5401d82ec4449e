package generator

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a Korean middle-school math item writer.
func SystemPrompt() string {
	return strings.TrimSpace(`
당신은 한국 중학교 수학 문제 출제 전문가입니다.
요청된 범위의 수학 문제를 출제하고, 반드시 아래 JSON 형식으로만 응답하세요.

{"problems":[{"question":"문제 내용","answer":"정답","helpText":"풀이 힌트"}]}

규칙:
- 정답은 계산 가능한 단일 값으로 작성합니다.
- helpText는 학생이 스스로 풀 수 있도록 돕는 한두 문장의 힌트입니다.
- JSON 이외의 텍스트를 포함하지 마세요.`)
}

// BuildCategoryPrompt asks for count problems in one category.
func BuildCategoryPrompt(category string, count int) string {
	return fmt.Sprintf("'%s' 범위의 수학 문제를 %d개 출제해 주세요.", category, count)
}

// BuildUnitExamPrompt asks for count questions spread across the named units.
func BuildUnitExamPrompt(unitNames []string, count int) string {
	return fmt.Sprintf(
		"다음 단원들을 고르게 다루는 단원평가 문제를 총 %d개 출제해 주세요: %s",
		count, strings.Join(unitNames, ", "),
	)
}
