package llm

import (
	"KolBD/internal/api/config"
	"context"
	"errors"
	log "log/slog"
)

var ErrNotConfigured = errors.New("llm provider is not configured")

// Usage token 用量
type Usage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

type Result struct {
	Content string
	Model   string
	Usage   Usage
}

type ChatOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

var defaultChatOptions = ChatOptions{
	Temperature: 0.95,
	TopP:        0.95,
	MaxTokens:   2048,
}

// Client 各模型供应商的统一调用入口
type Client interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, opts *ChatOptions) (*Result, error)
	Provider() string
	Model() string
}

// New 按 GLM > OpenAI > Anthropic 的顺序选择供应商，均未配置时返回 ErrNotConfigured
func New(cfg *config.Config) (Client, error) {
	var (
		client Client
		err    error
	)
	switch {
	case cfg.LLM.GLMAPIKey != "":
		client = newGLMClient(cfg.LLM)
	case cfg.OpenAIAPIKey != "":
		client, err = newOpenAIClient(cfg.OpenAIAPIKey, cfg.LLM.OpenAIModel)
	case cfg.AnthropicAPIKey != "":
		client, err = newAnthropicClient(cfg.AnthropicAPIKey, cfg.LLM.AnthropicModel)
	default:
		return nil, ErrNotConfigured
	}
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return nil, err
	}
	log.Info("LLM client initialized", "provider", client.Provider(), "model", client.Model())
	return client, nil
}

func resolveOptions(opts *ChatOptions) ChatOptions {
	if opts == nil {
		return defaultChatOptions
	}
	o := *opts
	if o.Temperature == 0 {
		o.Temperature = defaultChatOptions.Temperature
	}
	if o.TopP == 0 {
		o.TopP = defaultChatOptions.TopP
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = defaultChatOptions.MaxTokens
	}
	return o
}
