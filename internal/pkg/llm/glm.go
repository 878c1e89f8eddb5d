package llm

import (
	"KolBD/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultGLMBaseURL = "https://open.bigmodel.cn/api/paas/v4"
	defaultGLMModel   = "glm-4.5-airx"
)

type glmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type glmRequest struct {
	Model       string       `json:"model"`
	Messages    []glmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	TopP        float64      `json:"top_p"`
	MaxTokens   int          `json:"max_tokens"`
}

type glmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type glmErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// glmClient 智谱 GLM，OpenAI 兼容的 chat/completions 接口
type glmClient struct {
	http  *resty.Client
	model string
}

func newGLMClient(cfg config.LLMConfig) *glmClient {
	baseURL := cfg.GLMBaseURL
	if baseURL == "" {
		baseURL = defaultGLMBaseURL
	}
	model := cfg.GLMModel
	if model == "" {
		model = defaultGLMModel
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(cfg.GLMAPIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)
	return &glmClient{http: http, model: model}
}

func (c *glmClient) Provider() string { return "glm" }

func (c *glmClient) Model() string { return c.model }

func (c *glmClient) Chat(ctx context.Context, systemPrompt, userPrompt string, opts *ChatOptions) (*Result, error) {
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer TextSem.Release(1)

	o := resolveOptions(opts)
	messages := make([]glmMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, glmMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, glmMessage{Role: "user", Content: userPrompt})

	var out glmResponse
	var apiErr glmErrorResponse
	log.InfoContext(ctx, "正在请求AI大模型", "provider", "glm", "model", c.model)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(glmRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: o.Temperature,
			TopP:        o.TopP,
			MaxTokens:   o.MaxTokens,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("glm request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("glm api error: status=%d code=%s message=%s",
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("glm api returned no choices")
	}

	return &Result{
		Content: strings.TrimSpace(out.Choices[0].Message.Content),
		Model:   c.model,
		Usage: Usage{
			Prompt:     out.Usage.PromptTokens,
			Completion: out.Usage.CompletionTokens,
			Total:      out.Usage.TotalTokens,
		},
	}, nil
}
