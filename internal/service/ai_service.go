package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/llm"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTone     = "professional"
	defaultLanguage = "en"
)

var rewriteLanguages = map[string]string{
	"en": "English",
	"zh": "Chinese (简体中文)",
	"ja": "Japanese (日本語)",
	"ko": "Korean (한국어)",
	"es": "Spanish (Español)",
	"pt": "Portuguese (Português)",
	"fr": "French (Français)",
	"de": "German (Deutsch)",
	"ru": "Russian (Русский)",
}

var rewriteTones = map[string]string{
	"professional": "professional and business-like (专业商务)",
	"casual":       "casual and friendly (轻松友好)",
	"friendly":     "warm and approachable (温暖亲切)",
	"formal":       "formal and respectful (正式礼貌)",
}

const templateSystemPrompt = `你是一位专业的加密货币交易所商务拓展（BD）专家，擅长撰写 KOL 推广合作邀请。

你的任务：
1. 改写以下模板，使其更加个性化和吸引人
2. 根据 KOL 的背景信息调整语言风格
3. 保持专业、友好、简洁的语气
4. **必须原样保留所有 {{变量名}} 格式的内容**
5. 只返回改写后的文本，不要添加任何解释或额外内容`

type AIService interface {
	Rewrite(ctx context.Context, dto *dto.RewriteDTO) (*dto.RewriteResultDTO, error)
	BatchRewrite(ctx context.Context, dto *dto.BatchRewriteDTO) (*dto.BatchRewriteResultDTO, error)
	RewriteTemplate(ctx context.Context, userID uint64, dto *dto.RewriteTemplateDTO) (*dto.RewriteResultDTO, error)
	HealthCheck(ctx context.Context) *dto.AIHealthDTO
}

type AIServiceImpl struct {
	client  llm.Client
	kolRepo repository.KOLRepo
}

// NewAIService client 为 nil 表示未配置任何模型供应商
func NewAIService(client llm.Client, kolRepo repository.KOLRepo) AIService {
	return &AIServiceImpl{
		client:  client,
		kolRepo: kolRepo,
	}
}

func (s *AIServiceImpl) Rewrite(ctx context.Context, rewriteDTO *dto.RewriteDTO) (*dto.RewriteResultDTO, error) {
	if s.client == nil {
		return nil, ErrLLMDisabled
	}
	return s.rewriteText(ctx, rewriteDTO.Text, rewriteDTO.Tone, rewriteDTO.Language, rewriteDTO.PreserveVariables, rewriteDTO.MaxLength)
}

// BatchRewrite 并发改写，结果与输入顺序一致，任意一条失败则整体失败
func (s *AIServiceImpl) BatchRewrite(ctx context.Context, batchDTO *dto.BatchRewriteDTO) (*dto.BatchRewriteResultDTO, error) {
	if s.client == nil {
		return nil, ErrLLMDisabled
	}
	out := make([]*dto.RewriteResultDTO, len(batchDTO.Texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(llm.TextWeight))
	for i, text := range batchDTO.Texts {
		g.Go(func() error {
			result, err := s.rewriteText(gctx, text, batchDTO.Tone, batchDTO.Language, batchDTO.PreserveVariables, batchDTO.MaxLength)
			if err != nil {
				return err
			}
			out[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var tokens llm.Usage
	for _, r := range out {
		tokens.Prompt += r.TokensUsed.Prompt
		tokens.Completion += r.TokensUsed.Completion
		tokens.Total += r.TokensUsed.Total
	}
	return &dto.BatchRewriteResultDTO{
		Results:    out,
		TokensUsed: tokens,
	}, nil
}

func (s *AIServiceImpl) rewriteText(ctx context.Context, text, tone, language string, preserveVariables *bool, maxLength *int) (*dto.RewriteResultDTO, error) {
	tone = orDefault(tone, defaultTone)
	language = orDefault(language, defaultLanguage)
	preserve := preserveVariables == nil || *preserveVariables

	userPrompt := "Text to rewrite:\n\n" + text
	if maxLength != nil {
		userPrompt += fmt.Sprintf("\n\n(Keep it under %d characters)", *maxLength)
	}

	start := time.Now()
	result, err := s.client.Chat(ctx, buildRewritePrompt(tone, language, preserve), userPrompt, nil)
	if err != nil {
		log.ErrorContext(ctx, "AI 改写失败", "provider", s.client.Provider(), "err", err)
		return nil, errors.Wrap(ErrLLMFailed, err.Error())
	}
	if result.Content == "" {
		return nil, errors.Wrap(ErrLLMFailed, "AI 改写返回空内容，请重试")
	}
	if preserve && !SameVariables(text, result.Content) {
		return nil, ErrVariablesLost
	}
	log.InfoContext(ctx, "AI 改写成功",
		"model", result.Model,
		"latency", time.Since(start),
		"tokens", result.Usage.Total)

	return &dto.RewriteResultDTO{
		Original:   text,
		Rewritten:  result.Content,
		Tone:       tone,
		Language:   language,
		Model:      result.Model,
		TokensUsed: result.Usage,
	}, nil
}

// RewriteTemplate 结合 KOL 背景改写模板，变量必须原样保留
func (s *AIServiceImpl) RewriteTemplate(ctx context.Context, userID uint64, templateDTO *dto.RewriteTemplateDTO) (*dto.RewriteResultDTO, error) {
	if s.client == nil {
		return nil, ErrLLMDisabled
	}
	tone := orDefault(templateDTO.Tone, defaultTone)

	kolContext := templateDTO.KOLContext
	if templateDTO.KOLID != nil {
		kol, err := s.kolRepo.GetKOLById(ctx, userID, *templateDTO.KOLID)
		if err != nil {
			return nil, err
		}
		if kol == nil {
			return nil, ErrKOLNotFound
		}
		kolContext = &dto.KOLContextDTO{
			Username:    kol.Username,
			DisplayName: kol.DisplayName,
			Bio:         kol.Bio,
			Language:    kol.Language,
		}
		if kol.ContentCategory != nil {
			category := string(*kol.ContentCategory)
			kolContext.Category = &category
		}
	}

	userPrompt := "请改写以下模板:\n\n" + templateDTO.Template
	language := defaultLanguage
	if kolContext != nil {
		userPrompt = buildKOLPrompt(kolContext, templateDTO.Template)
		if kolContext.Language != nil && *kolContext.Language != "" {
			language = *kolContext.Language
		}
	}

	result, err := s.client.Chat(ctx, templateSystemPrompt, userPrompt, nil)
	if err != nil {
		log.ErrorContext(ctx, "模板改写失败", "provider", s.client.Provider(), "err", err)
		return nil, errors.Wrap(ErrLLMFailed, err.Error())
	}
	if result.Content == "" {
		return nil, errors.Wrap(ErrLLMFailed, "AI 改写返回空内容，请重试")
	}
	if !SameVariables(templateDTO.Template, result.Content) {
		return nil, ErrVariablesLost
	}

	return &dto.RewriteResultDTO{
		Original:   templateDTO.Template,
		Rewritten:  result.Content,
		Tone:       tone,
		Language:   language,
		Model:      result.Model,
		TokensUsed: result.Usage,
	}, nil
}

// HealthCheck 发送一条最短消息探测供应商可用性
func (s *AIServiceImpl) HealthCheck(ctx context.Context) *dto.AIHealthDTO {
	if s.client == nil {
		return &dto.AIHealthDTO{Healthy: false, LatencyMs: -1, Error: ErrLLMDisabled.Error()}
	}
	health := &dto.AIHealthDTO{
		Provider: s.client.Provider(),
		Model:    s.client.Model(),
	}
	start := time.Now()
	result, err := s.client.Chat(ctx, "", "Hello", nil)
	if err == nil && result.Content == "" {
		err = errors.New("empty response")
	}
	if err != nil {
		health.LatencyMs = -1
		health.Error = err.Error()
		return health
	}
	health.Healthy = true
	health.LatencyMs = time.Since(start).Milliseconds()
	return health
}

func buildRewritePrompt(tone, language string, preserveVariables bool) string {
	targetLanguage, ok := rewriteLanguages[language]
	if !ok {
		targetLanguage = rewriteLanguages[defaultLanguage]
	}
	targetTone, ok := rewriteTones[tone]
	if !ok {
		targetTone = defaultTone
	}

	var b strings.Builder
	b.WriteString("You are a text rewriting assistant for social media and direct messages in the crypto industry.\n\n")
	b.WriteString("Your task is to rewrite text while:\n")
	b.WriteString("1. Maintaining the original meaning and intent\n")
	fmt.Fprintf(&b, "2. Using a %s tone\n", targetTone)
	fmt.Fprintf(&b, "3. Writing in %s\n", targetLanguage)
	b.WriteString("4. Making it natural and conversational\n")
	b.WriteString("5. Varying sentence structure and word choices for uniqueness\n\n")
	b.WriteString("IMPORTANT RULES:\n")
	b.WriteString("- DO NOT add greetings like \"Dear\", \"Hi\", \"Hello\" unless they exist in the original\n")
	b.WriteString("- DO NOT add closings like \"Best regards\", \"Sincerely\", \"Thanks\" unless they exist in the original\n")
	b.WriteString("- DO NOT add any letter/email formatting\n")
	b.WriteString("- Keep the same structure as the original (if it's a direct message, keep it as a direct message)\n")
	b.WriteString("- Change wording and phrasing creatively while keeping the same meaning")
	if preserveVariables {
		b.WriteString("\n- **CRITICAL: Preserve all template variables in the format {{variable_name}} exactly as they appear**")
		b.WriteString("\n- Do NOT translate, modify, or remove variables like {{username}}, {{display_name}}, {{exchange_name}}, etc.")
		b.WriteString("\n- Variables must remain identical in the output")
	}
	b.WriteString("\n\nReturn ONLY the rewritten text. Do not add any explanations, comments, greetings, or closings that weren't in the original.")
	return b.String()
}

func buildKOLPrompt(kol *dto.KOLContextDTO, template string) string {
	bio := "暂无"
	if kol.Bio != nil && *kol.Bio != "" {
		bio = *kol.Bio
	}
	category := "通用"
	if kol.Category != nil && *kol.Category != "" {
		category = *kol.Category
	}
	language := "英语"
	if kol.Language != nil && *kol.Language != "" {
		language = *kol.Language
	}
	return fmt.Sprintf(`KOL 信息:
- 用户名: @%s
- 显示名: %s
- 简介: %s
- 分类: %s
- 语言: %s

请根据 KOL 的背景信息改写以下模板:

%s`, kol.Username, kol.DisplayName, bio, category, language, template)
}

// SameVariables 两段文本中的 {{...}} 数量与内容完全一致
func SameVariables(original, rewritten string) bool {
	return slices.Equal(util.VariableTokens(original), util.VariableTokens(rewritten))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
