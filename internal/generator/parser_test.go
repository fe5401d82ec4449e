package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseProblems(t *testing.T) {
	content := `{"problems":[{"question":"1/2 + 1/4 = ?","answer":"3/4","helpText":"통분 후 더합니다."}]}`
	problems, err := ParseProblems(content)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "3/4", problems[0].Answer)
	assert.Equal(t, "통분 후 더합니다.", problems[0].HelpText)
}

func TestParseProblemsStripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"problems\":[{\"question\":\"q\",\"answer\":\"a\"}]}\n```"
	problems, err := ParseProblems(fenced)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	bare := "```\n{\"problems\":[{\"question\":\"q\",\"answer\":\"a\"}]}\n```"
	problems, err = ParseProblems(bare)
	require.NoError(t, err)
	require.Len(t, problems, 1)
}

func TestParseProblemsRejectsBadBatches(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"problems":[]}`,
		`{"problems":[{"question":"  ","answer":"a"}]}`,
		`{"problems":[{"question":"q","answer":""}]}`,
	}
	for _, content := range cases {
		_, err := ParseProblems(content)
		require.Error(t, err, content)
	}
}

type fixedLLM struct {
	content string
	system  string
	prompt  string
}

func (f *fixedLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.prompt = userPrompt
	return f.content, nil
}

func TestGeneratorProblemsByCategory(t *testing.T) {
	llm := &fixedLLM{content: `{"problems":[{"question":"q","answer":"a"}]}`}
	gen := &Generator{llm: llm, model: "test", logger: zap.NewNop()}

	problems, err := gen.ProblemsByCategory(context.Background(), "분수", 5)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, llm.prompt, "분수")
	assert.Contains(t, llm.prompt, "5")
	assert.NotEmpty(t, llm.system)
}

func TestGeneratorProblemsForUnits(t *testing.T) {
	llm := &fixedLLM{content: `{"problems":[{"question":"q","answer":"a"}]}`}
	gen := &Generator{llm: llm, model: "test", logger: zap.NewNop()}

	problems, err := gen.ProblemsForUnits(context.Background(), []string{"분수의 덧셈", "소수의 곱셈"}, 3)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, llm.prompt, "분수의 덧셈")
	assert.Contains(t, llm.prompt, "소수의 곱셈")
}

func TestMockClientProducesParsableBatch(t *testing.T) {
	client := NewMockClient()
	content, err := client.Generate(context.Background(), SystemPrompt(), BuildCategoryPrompt("분수", 5))
	require.NoError(t, err)

	problems, err := ParseProblems(content)
	require.NoError(t, err)
	assert.NotEmpty(t, problems)
}
