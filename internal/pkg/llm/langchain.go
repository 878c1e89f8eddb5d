package llm

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
)

// langchainClient 通过 langchaingo 调用 OpenAI / Anthropic
type langchainClient struct {
	model    llms.Model
	provider string
	name     string
}

func newOpenAIClient(apiKey, model string) (*langchainClient, error) {
	if model == "" {
		model = defaultOpenAIModel
	}
	m, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &langchainClient{model: m, provider: "openai", name: model}, nil
}

func newAnthropicClient(apiKey, model string) (*langchainClient, error) {
	if model == "" {
		model = defaultAnthropicModel
	}
	m, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &langchainClient{model: m, provider: "anthropic", name: model}, nil
}

func (c *langchainClient) Provider() string { return c.provider }

func (c *langchainClient) Model() string { return c.name }

func (c *langchainClient) Chat(ctx context.Context, systemPrompt, userPrompt string, opts *ChatOptions) (*Result, error) {
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer TextSem.Release(1)

	o := resolveOptions(opts)
	messages := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	log.InfoContext(ctx, "正在请求AI大模型", "provider", c.provider, "model", c.name)
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithModel(c.name),
		llms.WithTemperature(o.Temperature),
		llms.WithTopP(o.TopP),
		llms.WithMaxTokens(o.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", c.provider)
	}

	choice := resp.Choices[0]
	return &Result{
		Content: strings.TrimSpace(choice.Content),
		Model:   c.name,
		Usage:   usageFromInfo(choice.GenerationInfo),
	}, nil
}

// usageFromInfo 兼容 OpenAI 与 Anthropic 在 GenerationInfo 中的不同键名
func usageFromInfo(info map[string]any) Usage {
	var u Usage
	u.Prompt = firstInt(info, "PromptTokens", "InputTokens")
	u.Completion = firstInt(info, "CompletionTokens", "OutputTokens")
	u.Total = firstInt(info, "TotalTokens")
	if u.Total == 0 {
		u.Total = u.Prompt + u.Completion
	}
	return u
}

func firstInt(info map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := info[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
