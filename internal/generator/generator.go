package generator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/pkg/config"
)

// LLMClient is the interface both client implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator wraps an LLMClient with math-practice batch methods.
type Generator struct {
	llm    LLMClient
	model  string
	logger *zap.Logger
}

// New selects the Anthropic-backed client or the mock depending on config.
func New(cfg config.GeneratorConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Mock {
		logger.Info("problem generator using mock data")
		return &Generator{llm: NewMockClient(), model: "mock", logger: logger}
	}

	logger.Info("problem generator using Anthropic API", zap.String("model", cfg.Model))
	return &Generator{llm: NewAPIClient(cfg.Model), model: cfg.Model, logger: logger}
}

// ModelName reports the configured model identifier.
func (g *Generator) ModelName() string {
	return g.model
}

// ProblemsByCategory generates a batch of practice problems for one category.
func (g *Generator) ProblemsByCategory(ctx context.Context, category string, count int) ([]Problem, error) {
	content, err := g.llm.Generate(ctx, SystemPrompt(), BuildCategoryPrompt(category, count))
	if err != nil {
		return nil, fmt.Errorf("generate problems for %q: %w", category, err)
	}

	problems, err := ParseProblems(content)
	if err != nil {
		return nil, fmt.Errorf("parse problems for %q: %w", category, err)
	}
	return problems, nil
}

// ProblemsForUnits generates exam questions spread across the named units.
func (g *Generator) ProblemsForUnits(ctx context.Context, unitNames []string, count int) ([]Problem, error) {
	content, err := g.llm.Generate(ctx, SystemPrompt(), BuildUnitExamPrompt(unitNames, count))
	if err != nil {
		return nil, fmt.Errorf("generate exam questions: %w", err)
	}

	problems, err := ParseProblems(content)
	if err != nil {
		return nil, fmt.Errorf("parse exam questions: %w", err)
	}
	return problems, nil
}

// APIClient calls the Anthropic Messages API.
type APIClient struct {
	client *anthropic.Client
	model  string
}

// NewAPIClient constructs an Anthropic-backed client. The API key comes from
// the ANTHROPIC_API_KEY environment variable.
func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

// Generate sends the prompts and returns the first text block.
func (c *APIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<uint(attempt)) * time.Second):
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// MockClient serves canned problems for local development and tests.
type MockClient struct{}

// NewMockClient constructs a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate ignores the prompts and returns a fixed batch.
func (m *MockClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return `{"problems":[
		{"question":"2x + 3 = 11 일 때 x의 값은?","answer":"4","helpText":"양변에서 3을 빼고 2로 나눕니다."},
		{"question":"밑변 6, 높이 4인 삼각형의 넓이는?","answer":"12","helpText":"삼각형의 넓이는 밑변 × 높이 ÷ 2 입니다."}
	]}`, nil
}
